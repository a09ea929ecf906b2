// Package cmd contains the CLI command for the catr application.
package cmd

import (
	"github.com/eykd/catr-go/internal/config"
	"github.com/eykd/catr-go/internal/ctxlog"
	"github.com/eykd/catr-go/internal/emit"
	"github.com/eykd/catr-go/internal/source"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

type rootOptions struct {
	number         bool
	numberNonblank bool
	lock           bool
	verbose        bool
	configPath     string
	profile        string
}

// NewRootCmd creates a new root command instance.
// Each call returns an independent command with its own flag state.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "catr [flags] [FILE...]",
		Short: "Concatenate files to standard output",
		Long: "catr writes each FILE to standard output, optionally numbering lines.\n" +
			"With no FILE, or when FILE is -, read standard input.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.New(cmd.ErrOrStderr(), opts.verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args, &opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.number, "number", "n", false, "Number lines")
	flags.BoolVarP(&opts.numberNonblank, "number-nonblank", "b", false, "Number non-blank lines")
	flags.BoolVarP(&opts.lock, "lock", "L", false, "Hold a shared advisory lock on each file while reading it")
	flags.StringVar(&opts.configPath, "config", "", "Read default settings from a YAML file")
	flags.StringVar(&opts.profile, "profile", "", "Write a cpu or mem profile to the working directory")
	_ = flags.MarkHidden("profile")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	return cmd
}

func runCat(cmd *cobra.Command, args []string, opts *rootOptions) error {
	log := ctxlog.FromContext(cmd.Context())

	var defaults *config.File
	if opts.configPath != "" {
		f, err := config.Load(opts.configPath)
		if err != nil {
			return &UsageError{Err: &ContextError{Op: "load config", Path: opts.configPath, Err: err}}
		}
		defaults = f
	}

	cfg, err := config.Resolve(args, explicitFlags(cmd, opts), defaults)
	if err != nil {
		return &UsageError{Err: err}
	}
	log.Debug("config resolved", "files", len(cfg.Files), "mode", cfg.Mode(), "lock", cfg.LockInputs)

	stop, err := startProfile(opts.profile)
	if err != nil {
		return &UsageError{Err: err}
	}
	defer stop()

	e := &emit.Emitter{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Opener: &source.OS{Stdin: cmd.InOrStdin(), Lock: cfg.LockInputs},
		Logger: log,
	}
	return e.Run(cmd.Context(), cfg)
}

// explicitFlags reports only the flags the user set on the command line, so
// that unset flags leave config file defaults alone.
func explicitFlags(cmd *cobra.Command, opts *rootOptions) config.Flags {
	var f config.Flags
	if cmd.Flags().Changed("number") {
		f.Number = &opts.number
	}
	if cmd.Flags().Changed("number-nonblank") {
		f.NumberNonblank = &opts.numberNonblank
	}
	if cmd.Flags().Changed("lock") {
		f.Lock = &opts.lock
	}
	return f
}
