// nolint:errcheck
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleStyle       = color.New(color.Bold, color.FgHiWhite)
	commandStyle     = color.New(color.FgHiGreen)
	descriptionStyle = color.New(color.FgHiCyan)
	aliasStyle       = color.New(color.FgHiGreen)
	exampleStyle     = color.New(color.FgHiCyan)
	flagStyle        = color.New(color.Bold, color.FgHiCyan)
	tipStyle         = color.New(color.FgHiYellow)
	groupTitleStyle  = color.New(color.Bold, color.FgHiMagenta)
)

// Command groups of the root command
const (
	GroupSearch = "search"
	GroupStore  = "store"
)

// Groups returns the command groups shown in the root help
func Groups() []*cobra.Group {
	return []*cobra.Group{
		{ID: GroupSearch, Title: "Search Commands:"},
		{ID: GroupStore, Title: "Run Store Commands:"},
	}
}

var HelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}` + titleStyle.Sprintf("GitHub:") + color.New(color.FgYellow).Sprintln(
	"		https://github.com/Hanaasagi/wordseg",
)

func rpad(s string, padding int) string {
	template := fmt.Sprintf("%%-%ds", padding)
	return fmt.Sprintf(template, s)
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func listed(c *cobra.Command) bool {
	return c.IsAvailableCommand() || c.Name() == "help"
}

var (
	reWithShort = regexp.MustCompile(`^( {2,})(-[a-zA-Z]), (--[a-zA-Z0-9-]+)(.*)$`)
	reLongOnly  = regexp.MustCompile(`^( {2,})(--[a-zA-Z0-9-]+)(.*)$`)
)

func colorFlags(raw string) []byte {
	var out bytes.Buffer

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case reWithShort.MatchString(line):
			m := reWithShort.FindStringSubmatch(line)
			indent, shortFlag, longFlag, rest := m[1], m[2], m[3], m[4]
			out.WriteString(indent)
			flagStyle.Fprint(&out, shortFlag)
			out.WriteString(", ")
			out.WriteString(longFlag)
			out.WriteString(rest)

		case reLongOnly.MatchString(line):
			m := reLongOnly.FindStringSubmatch(line)
			indent, longFlag, rest := m[1], m[2], m[3]
			out.WriteString(indent)
			flagStyle.Fprint(&out, longFlag)
			out.WriteString(rest)

		default:
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}

	return bytes.TrimRight(out.Bytes(), "\n")
}

// writeCommands lists the subcommands accepted by keep under a title
func writeCommands(buf *bytes.Buffer, title string, style *color.Color, cmds []*cobra.Command, keep func(*cobra.Command) bool) {
	var matched []*cobra.Command
	for _, c := range cmds {
		if listed(c) && keep(c) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return
	}
	fmt.Fprint(buf, "\n\n")
	style.Fprint(buf, title)
	for _, c := range matched {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, rpad(c.Name(), c.NamePadding()))
		fmt.Fprint(buf, " ")
		descriptionStyle.Fprint(buf, c.Short)
	}
}

func ColorUsageFunc(w io.Writer, cmd *cobra.Command) error {
	buf := &bytes.Buffer{}

	titleStyle.Fprint(buf, "Usage:")
	if cmd.Runnable() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprintf(buf, "%s [command]", cmd.CommandPath())
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Aliases:")
		fmt.Fprint(buf, "\n  ")
		aliasStyle.Fprint(buf, strings.Join(cmd.Aliases, ", "))
	}

	if cmd.HasExample() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Examples:")
		fmt.Fprint(buf, "\n")
		exampleStyle.Fprint(buf, cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		cmds := cmd.Commands()
		if len(cmd.Groups()) == 0 {
			writeCommands(buf, "Available Commands:", titleStyle, cmds, func(*cobra.Command) bool { return true })
		} else {
			for _, group := range cmd.Groups() {
				writeCommands(buf, group.Title, groupTitleStyle, cmds, func(c *cobra.Command) bool { return c.GroupID == group.ID })
			}
			writeCommands(buf, "Additional Commands:", titleStyle, cmds, func(c *cobra.Command) bool { return c.GroupID == "" })
		}
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.LocalFlags().FlagUsages())))
	}

	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Global Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.InheritedFlags().FlagUsages())))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n\n")
		tipStyle.Fprintf(buf, "Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath())
	}

	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// Setup installs the colored help and usage on a command tree
func Setup(root *cobra.Command) {
	root.SetHelpTemplate(HelpTemplate)
	root.SetUsageFunc(func(c *cobra.Command) error {
		return ColorUsageFunc(c.OutOrStderr(), c)
	})
}
