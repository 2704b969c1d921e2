// Package main is the entry point for fmtrc.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/donaldgifford/fmtrc/internal/logging"
	"github.com/donaldgifford/fmtrc/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	envCfg, err := parseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fmtrc: %v\n", err)
		return runner.ExitError
	}

	app := kingpin.New("fmtrc", "Resolve formatter options from prettier-style config files.")
	app.HelpFlag.Short('h')

	configPath := app.Flag("config", "Path to the config file (default: search upward).").
		Default(envCfg.Config).String()
	format := app.Flag("format", "Output format.").
		Default(envCfg.Format).Enum(runner.FormatJSON, runner.FormatYAML)
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error).").
		Default(envCfg.LogLevel).String()
	noColor := app.Flag("no-color", "Disable coloured output.").Bool()
	quiet := app.Flag("quiet", "Suppress informational output.").Short('q').Bool()
	verbose := app.Flag("verbose", "Describe how each file was resolved.").Short('v').Bool()

	resolveCmd := app.Command("resolve", "Print the effective options for files. Reads paths from stdin when none are given.")
	resolveFiles := resolveCmd.Arg("files", "Files to resolve.").Strings()
	resolveDefaults := resolveCmd.Flag("defaults", "Fill unset options with their defaults.").Bool()
	resolveDiff := resolveCmd.Flag("diff", "Print a diff of base against effective options.").Bool()

	checkCmd := app.Command("check", "Validate the config file.")

	findCmd := app.Command("find", "Print the config file that applies to a directory.")
	findDir := findCmd.Arg("dir", "Directory to search from.").Default(".").String()

	optionsCmd := app.Command("options", "List the supported options.")

	watchCmd := app.Command("watch", "Print the effective options for files every time the config changes.")
	watchFiles := watchCmd.Arg("files", "Files to resolve.").Required().Strings()

	versionCmd := app.Command("version", "Print version information.")

	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fmtrc: %v\n", err)
		return runner.ExitError
	}

	if command == versionCmd.FullCommand() {
		fmt.Printf("fmtrc %s (%s) %s\n", version, commit, date)
		return runner.ExitOK
	}

	logger, err := logging.New(*logLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fmtrc: %v\n", err)
		return runner.ExitError
	}
	defer func() {
		_ = logger.Sync()
	}()

	opts := &runner.Options{
		ConfigPath: *configPath,
		Format:     *format,
		Quiet:      *quiet,
		Verbose:    *verbose,
		NoColor:    *noColor || envCfg.NoColor != "",
		Logger:     logger,
	}

	logger.Debug("starting", zap.String("command", command), zap.String("version", version))

	switch command {
	case resolveCmd.FullCommand():
		opts.Files = *resolveFiles
		opts.Defaults = *resolveDefaults
		opts.Diff = *resolveDiff
		return runner.Resolve(opts)

	case checkCmd.FullCommand():
		return runner.Check(opts)

	case findCmd.FullCommand():
		opts.Dir = *findDir
		return runner.Find(opts)

	case optionsCmd.FullCommand():
		return runner.ListOptions(opts)

	case watchCmd.FullCommand():
		opts.Files = *watchFiles
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runner.Watch(ctx, opts)
	}

	return runner.ExitError
}
