package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"myfind/internal/config"
	"myfind/internal/finder"
	"myfind/internal/logger"
	"myfind/internal/metrics"
	"myfind/internal/tui"
)

func runSearch(cmd *cobra.Command, flags *rootFlags, root string, targets []string) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}
	cfg, err := flags.settings(cmd)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("run_id", uuid.NewString()))

	log.Info("Starting search",
		zap.String("root", root),
		zap.Strings("targets", targets),
		zap.Bool("recursive", opts.Recursive),
		zap.Bool("case_insensitive", opts.CaseInsensitive),
		zap.String("isolation", cfg.Isolation),
	)

	coord := &finder.Coordinator{
		Spawner: newSpawner(cfg, cmd.ErrOrStderr(), log),
		Logger:  log,
	}

	stderr := cmd.ErrOrStderr()
	interactive := isTerminal(stderr)

	started := time.Now()
	var report *finder.Report
	if cfg.Progress && interactive {
		report, err = runWithProgress(coord, stderr, root, targets, opts)
	} else {
		report, err = coord.Run(root, targets, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	printReport(cmd.OutOrStdout(), stderr, report)
	if interactive {
		fmt.Fprintln(stderr, renderRunSummary(report, cfg.Isolation, elapsed))
	}

	if cfg.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.ObserveReport(report, elapsed)
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Failed to write metrics", zap.Error(err))
		}
	}

	log.Info("Search finished",
		zap.Int("matches", report.Matches()),
		zap.Int("failed", len(report.Failures())),
		zap.Duration("elapsed", elapsed),
	)

	if failed := len(report.Failures()); failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(report.Entries))
	}
	return nil
}

func newSpawner(cfg *config.Config, stderr io.Writer, log *zap.Logger) finder.Spawner {
	if cfg.Isolation == config.IsolationProcess {
		return &finder.ProcessSpawner{
			Command: []string{
				workerCommand,
				"--log-level", cfg.LogLevel,
				"--log-format", cfg.LogFormat,
			},
			Stderr: stderr,
			Logger: log,
		}
	}
	return &finder.TaskSpawner{Logger: log}
}

// runWithProgress runs the coordinator while a bubbletea view renders its
// progress updates on out.
func runWithProgress(coord *finder.Coordinator, out io.Writer, root string, targets []string, opts finder.Options) (*finder.Report, error) {
	updates := make(chan finder.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(targets, updates),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		_, _ = program.Run()
		for range updates {
		}
	}()

	coord.Updates = updates
	report, err := coord.Run(root, targets, opts)
	coord.Updates = nil
	close(updates)
	<-uiDone
	return report, err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
