package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Hanaasagi/wordseg/cmd"
	"github.com/Hanaasagi/wordseg/internal/logger"
	"github.com/Hanaasagi/wordseg/internal/render"
)

const appName = "wordseg"

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var (
	appDir            = filepath.Join(xdg.StateHome, appName)
	defaultConfigPath = filepath.Join(xdg.ConfigHome, appName, "config.toml")
	defaultStorePath  = filepath.Join(xdg.DataHome, appName, "runs.db")
)

func init() {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		panic(fmt.Sprintf("Error creating log directory: %v", err))
	}

	logLevel := os.Getenv("WORDSEG_LOG")
	if logLevel == "" {
		logLevel = "info"
	}
	if _, err := logger.InitLogger(filepath.Join(appDir, appName+".log"), logLevel); err != nil {
		panic(fmt.Sprintf("Error initializing logger: %v", err))
	}

	crashFilePath := filepath.Join(appDir, "crash")
	if f, err := os.Create(crashFilePath); err == nil {
		_ = debug.SetCrashOutput(f, debug.CrashOptions{})
	}
}

// app holds the state shared by all commands
type app struct {
	configPath string
	colorMode  string
	config     *Config
	out        io.Writer
}

func (a *app) loadConfig() error {
	config, err := LoadConfigFromFile(a.configPath)
	if err != nil {
		return err
	}
	if a.colorMode != "" {
		config.Output.Color = a.colorMode
	}
	a.config = config
	slog.Debug("Loaded config", "path", a.configPath)
	return nil
}

// renderer creates a result renderer following the output settings
func (a *app) renderer() (*render.Renderer, error) {
	palette, err := render.NewPalette(a.config.Output.Colors)
	if err != nil {
		return nil, err
	}
	opts := []render.Option{render.WithPalette(palette), render.WithWidth(a.config.Output.Width)}
	switch a.config.Output.Color {
	case "", "auto":
	case "always":
		opts = append(opts, render.WithColor(true))
	case "never":
		opts = append(opts, render.WithColor(false))
	default:
		return nil, fmt.Errorf("invalid color mode %q", a.config.Output.Color)
	}
	return render.New(a.out, opts...), nil
}

func (a *app) storePath() string {
	if a.config.Store.Path != "" {
		return a.config.Store.Path
	}
	return defaultStorePath
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Segmentation search for OCR word recognition",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Find the best segmentation and reading of OCR words. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		Version:       FullVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			a.out = c.OutOrStdout()
			return a.loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "Path of the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", "", "Colored output: auto, always or never")

	for _, g := range cmd.Groups() {
		rootCmd.AddGroup(g)
	}
	rootCmd.AddCommand(newSearchCommand(a), newDictCommand(a), newRunsCommand(a))
	cmd.Setup(rootCmd)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand(&app{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Error executing command", "error", err)
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		stop()
		os.Exit(1)
	}
}
