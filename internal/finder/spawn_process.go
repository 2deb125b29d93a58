package finder

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Flags understood by the worker subcommand.
const (
	WorkerFlagRoot      = "root"
	WorkerFlagTarget    = "target"
	WorkerFlagRecursive = "recursive"
	WorkerFlagFold      = "ignore-case"
)

// WorkerArgs returns the arguments that make a worker process search for
// target under root.
func WorkerArgs(target, root string, opts Options) []string {
	args := []string{
		"--" + WorkerFlagRoot, root,
		"--" + WorkerFlagTarget, target,
	}
	if opts.Recursive {
		args = append(args, "--"+WorkerFlagRecursive)
	}
	if opts.CaseInsensitive {
		args = append(args, "--"+WorkerFlagFold)
	}
	return args
}

// ProcessSpawner runs each worker as a child process that writes its frame to
// stdout. Worker IDs are the child PIDs.
type ProcessSpawner struct {
	// Executable defaults to the running binary.
	Executable string
	// Command is the argument list that selects worker mode, e.g. ["__worker"].
	Command []string
	// Stderr receives the children's diagnostics. Nil discards them. Writes
	// from concurrent children are serialized unless Stderr is an *os.File.
	Stderr io.Writer
	Env    []string
	Logger *zap.Logger

	stderrOnce sync.Once
	stderr     io.Writer
}

// childStderr returns the writer shared by every child of this spawner.
func (s *ProcessSpawner) childStderr() io.Writer {
	s.stderrOnce.Do(func() {
		switch w := s.Stderr.(type) {
		case nil:
		case *os.File:
			s.stderr = w
		default:
			s.stderr = &lockedWriter{w: w}
		}
	})
	return s.stderr
}

// lockedWriter lets os/exec copy goroutines of several children share one
// io.Writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (s *ProcessSpawner) Spawn(target, root string, opts Options) (Handle, error) {
	exe := s.Executable
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
		}
		exe = self
	}

	args := append(append([]string{}, s.Command...), WorkerArgs(target, root, opts)...)
	cmd := exec.Command(exe, args...)
	cmd.Stderr = s.childStderr()
	if s.Env != nil {
		cmd.Env = s.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	if s.Logger != nil {
		s.Logger.Debug("Started worker process",
			zap.Int("pid", cmd.Process.Pid),
			zap.String("target", target),
		)
	}
	return &processHandle{cmd: cmd, out: stdout}, nil
}

type processHandle struct {
	cmd *exec.Cmd
	out io.ReadCloser
}

func (h *processHandle) ID() uint64 { return uint64(h.cmd.Process.Pid) }

func (h *processHandle) Output() io.ReadCloser { return h.out }

func (h *processHandle) Wait() error {
	if err := h.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: pid %d: %w", ErrWorkerCrashed, h.cmd.Process.Pid, err)
	}
	return nil
}
