package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"myfind/internal/finder"
	"myfind/internal/logger"
)

// workerCommand is the hidden entrypoint used by process isolation. The
// coordinating process reads the worker's frame from its stdout.
const workerCommand = "__worker"

func newWorkerCmd() *cobra.Command {
	var (
		root       string
		target     string
		recursive  bool
		ignoreCase bool
	)

	cmd := &cobra.Command{
		Use:    workerCommand,
		Short:  "Search for one file name and write the result frame to stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			if level == "" {
				level = "warn"
			}
			log, err := logger.NewLogger(format, level)
			if err != nil {
				log = zap.NewNop()
			}
			defer func() { _ = log.Sync() }()

			w := finder.Worker{
				ID:     uint64(os.Getpid()),
				Target: target,
				Root:   root,
				Opts:   finder.Options{Recursive: recursive, CaseInsensitive: ignoreCase},
				Logger: log,
			}
			return w.Serve(cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&root, finder.WorkerFlagRoot, "", "directory to search")
	f.StringVar(&target, finder.WorkerFlagTarget, "", "file name to search for")
	f.BoolVar(&recursive, finder.WorkerFlagRecursive, false, "search subdirectories recursively")
	f.BoolVar(&ignoreCase, finder.WorkerFlagFold, false, "match case-insensitively")
	_ = cmd.MarkFlagRequired(finder.WorkerFlagRoot)
	_ = cmd.MarkFlagRequired(finder.WorkerFlagTarget)

	return cmd
}
