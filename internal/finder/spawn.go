package finder

import (
	"fmt"
	"io"
	"io/fs"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handle is the coordinator's side of one spawned worker: the read end of its
// transport plus a way to join it.
type Handle interface {
	ID() uint64
	Output() io.ReadCloser
	// Wait blocks until the worker has terminated. It must only be called
	// after Output has been drained.
	Wait() error
}

type Spawner interface {
	Spawn(target, root string, opts Options) (Handle, error)
}

// TaskSpawner runs each worker in its own goroutine and connects it with an
// io.Pipe. A panicking worker is contained by Worker.Serve.
type TaskSpawner struct {
	// OpenFS overrides the tree each worker searches. Nil means the local
	// filesystem.
	OpenFS func(root string) fs.FS
	Logger *zap.Logger

	nextID atomic.Uint64
}

func (s *TaskSpawner) Spawn(target, root string, opts Options) (Handle, error) {
	id := s.nextID.Add(1)
	w := Worker{ID: id, Target: target, Root: root, Opts: opts, Logger: s.Logger}
	if s.OpenFS != nil {
		w.FS = s.OpenFS(root)
		if w.FS == nil {
			return nil, fmt.Errorf("%w: no filesystem for %s", ErrSpawnFailed, root)
		}
	}

	pr, pw := io.Pipe()
	h := &taskHandle{id: id, out: pr, done: make(chan error, 1)}
	go func() {
		err := w.Serve(pw)
		_ = pw.Close()
		h.done <- err
	}()
	return h, nil
}

type taskHandle struct {
	id   uint64
	out  *io.PipeReader
	done chan error
}

func (h *taskHandle) ID() uint64 { return h.id }

func (h *taskHandle) Output() io.ReadCloser { return h.out }

func (h *taskHandle) Wait() error {
	return <-h.done
}
