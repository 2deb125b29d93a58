package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"myfind/internal/config"
	"myfind/internal/finder"
	"myfind/internal/version"
)

var errNoDirectory = errors.New("no input directory provided")

type rootFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	isolation   string
	progress    bool
	metricsFile string
	recursive   int
	ignoreCase  int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "myfind [-R] [-i] <searchpath> <filename>...",
		Short: "myfind - search a directory tree for files by name",
		Long: `myfind searches <searchpath> for every <filename> given.

Each file name is searched by its own worker. Matches are printed as
"<worker>: <name>: <path>" once every worker has finished.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          searchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags, args[0], args[1:])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: console, json")

	f := cmd.Flags()
	f.CountVarP(&flags.recursive, "recursive", "R", "search subdirectories recursively")
	f.CountVarP(&flags.ignoreCase, "ignore-case", "i", "match file names case-insensitively (ASCII only)")
	f.StringVar(&flags.isolation, "isolation", "", "worker isolation: task or process")
	f.BoolVar(&flags.progress, "progress", true, "show live progress when stderr is a terminal")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.AddCommand(newWorkerCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func searchArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errNoDirectory
	case 1:
		return finder.ErrNoTargets
	default:
		return nil
	}
}

// options turns the parsed flags into search options. Each flag may be given
// at most once.
func (f *rootFlags) options() (finder.Options, error) {
	if f.recursive > 1 || f.ignoreCase > 1 {
		return finder.Options{}, errors.New("options must be provided at most once")
	}
	return finder.Options{
		Recursive:       f.recursive == 1,
		CaseInsensitive: f.ignoreCase == 1,
	}, nil
}

// settings loads the config file and applies explicitly set flags on top.
func (f *rootFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("isolation") {
		cfg.Isolation = f.isolation
	}
	if changed("progress") {
		cfg.Progress = f.progress
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
