// Package render prints search results as terminal tables.
package render

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/leaanthony/go-ansi-parser"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/Hanaasagi/wordseg/internal/provenance"
	"github.com/Hanaasagi/wordseg/internal/suggest"
	"github.com/Hanaasagi/wordseg/pkg/segsearch"
)

const defaultWidth = 80

var (
	headerStyle = styled(color.Bold, color.FgHiWhite)
	dimStyle    = styled(color.FgHiBlack)
)

func styled(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Renderer writes result tables
type Renderer struct {
	w       io.Writer
	color   bool
	width   int
	palette Palette
}

// Option configures a Renderer
type Option func(*Renderer)

// WithColor forces colored output on or off
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithWidth sets the line width
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithPalette sets the permuter colors
func WithPalette(p Palette) Option {
	return func(r *Renderer) {
		r.palette = p
	}
}

// New creates a renderer. Color and width default to the terminal
// properties of w when it is a TTY: plain text and 80 columns otherwise.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, width: defaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.color = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			r.width = width
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.palette == nil {
		r.palette, _ = NewPalette(nil)
	}
	return r
}

var csiPattern = regexp.MustCompile(`\x1b\[[0-9;:?]*[ -/]*[@-~]`)

// Plain removes ANSI styling from text. Lines the parser rejects are
// stripped of every CSI sequence instead.
func Plain(text string) string {
	if !strings.Contains(text, "\x1b[") {
		return text
	}
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		elements, err := ansi.Parse(line)
		if err != nil {
			b.WriteString(csiPattern.ReplaceAllString(line, ""))
			continue
		}
		for _, e := range elements {
			b.WriteString(e.Label)
		}
	}
	return b.String()
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) style(c *color.Color, text string) string {
	if !r.color {
		return text
	}
	return c.Sprint(text)
}

func (r *Renderer) paint(permuter, text string) string {
	if !r.color {
		return text
	}
	return r.palette.Paint(permuter, text)
}

// pad right-pads text to width display columns
func pad(text string, width int) string {
	if w := runewidth.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

// Result writes the best choice of a word followed by one row per character.
// Escapes in the word name are removed.
func (r *Renderer) Result(name string, res *segsearch.Result) {
	name = Plain(name)
	if res.Best == nil {
		r.printf("%s %s\n", r.style(headerStyle, name), r.style(dimStyle, "(no result)"))
		return
	}
	permuter := res.Best.Permuter.String()
	r.printf("%s %s %s\n",
		r.style(headerStyle, name),
		r.paint(permuter, res.Best.Text),
		r.style(dimStyle, fmt.Sprintf("[%s cost=%.3f stop=%s]", permuter, res.Best.Cost, res.Metrics.StopReason)))
	if res.Raw != nil && res.Raw.Text != res.Best.Text {
		r.printf("  %s %s\n", r.style(dimStyle, "raw"), res.Raw.Text)
	}

	r.Steps(res.Steps)
}

// Steps writes one row per character of a path
func (r *Renderer) Steps(steps []segsearch.Step) {
	charWidth := runewidth.StringWidth("char")
	for _, st := range steps {
		charWidth = max(charWidth, runewidth.StringWidth(st.Unichar))
	}
	header := fmt.Sprintf("  %s  %-7s %8s %9s %8s  %s", pad("char", charWidth), "span", "rating", "certainty", "cost", "permuter")
	r.printf("%s\n", r.style(dimStyle, runewidth.Truncate(header, r.width, "")))
	for _, st := range steps {
		line := fmt.Sprintf("  %s  %-7s %8.3f %9.3f %8.3f  %s",
			pad(st.Unichar, charWidth), st.Span.String(), st.Rating, st.Certainty, st.Cost, st.Permuter)
		line = runewidth.Truncate(line, r.width, "…")
		r.printf("%s\n", r.paint(st.Permuter, line))
	}
}

// Runs writes one line per recorded run
func (r *Renderer) Runs(runs []provenance.Run) {
	if len(runs) == 0 {
		r.printf("%s\n", r.style(dimStyle, "no recorded runs"))
		return
	}
	wordWidth := runewidth.StringWidth("word")
	for _, run := range runs {
		wordWidth = max(wordWidth, runewidth.StringWidth(Plain(run.Word)))
	}
	header := fmt.Sprintf("%-36s  %s  %-10s %10s %10s  %s", "run", pad("word", wordWidth), "stop", "classified", "elapsed", "result")
	r.printf("%s\n", r.style(dimStyle, runewidth.Truncate(header, r.width, "")))
	for _, run := range runs {
		line := fmt.Sprintf("%-36s  %s  %-10s %10s %10s  %s",
			run.RunID, pad(Plain(run.Word), wordWidth), run.StopReason,
			humanize.Comma(int64(run.Classifications)), run.Elapsed.Round(time.Microsecond), run.Result)
		r.printf("%s %s\n", runewidth.Truncate(line, r.width, "…"), r.style(dimStyle, humanize.Time(run.CreatedAt)))
	}
}

// Choices writes the recorded choices of a run
func (r *Renderer) Choices(choices []provenance.Choice) {
	for _, c := range choices {
		r.printf("  %s %s %s\n",
			r.style(dimStyle, pad(c.Kind, 4)),
			r.paint(c.Permuter, c.Text),
			r.style(dimStyle, fmt.Sprintf("[%s cost=%.3f certainty=%.3f state=%v]", c.Permuter, c.Cost, c.Certainty, c.State)))
	}
}

// Match writes the dictionary permuter of a word
func (r *Renderer) Match(word, permuter string) {
	r.printf("%s %s\n", Plain(word), r.paint(permuter, permuter))
}

var droppedStyle = styled(color.Underline, color.FgHiYellow)

// Suggestions writes the dictionary words a misread word may come from, with
// the dropped characters highlighted
func (r *Renderer) Suggestions(suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	mark := func(s string) string { return r.style(droppedStyle, s) }
	words := make([]string, len(suggestions))
	for i, s := range suggestions {
		words[i] = s.Highlight(mark)
	}
	r.printf("  %s %s\n", r.style(dimStyle, "did you mean"), strings.Join(words, ", "))
}
