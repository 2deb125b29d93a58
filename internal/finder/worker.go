package finder

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"myfind/internal/matcher"
)

// Worker runs a single search and reports it over a transport.
type Worker struct {
	ID     uint64
	Target string
	Root   string
	Opts   Options
	// FS is the tree to search. Nil means os.DirFS(Root).
	FS     fs.FS
	Logger *zap.Logger
}

// Search runs the matcher to completion and returns the outcome.
func (w Worker) Search() Outcome {
	logger := w.logger()
	fsys := w.FS
	if fsys == nil {
		if err := matcher.ValidateRoot(w.Root); err != nil {
			return Failed(KindRootInvalid, err.Error())
		}
		fsys = os.DirFS(w.Root)
	}

	seq, err := matcher.Find(fsys, w.Root, w.Target, matcher.Options{
		Recursive:       w.Opts.Recursive,
		CaseInsensitive: w.Opts.CaseInsensitive,
		OnSkip: func(path string, err error) {
			logger.Debug("Skipping unreadable subtree", zap.String("path", path), zap.Error(err))
		},
	})
	if err != nil {
		if errors.Is(err, matcher.ErrRootInvalid) {
			return Failed(KindRootInvalid, err.Error())
		}
		return Failed(KindSearchFailed, err.Error())
	}

	records := []Record{}
	for m := range seq {
		records = append(records, Record{WorkerID: w.ID, Name: m.Name, Path: m.Path})
	}
	return Ok(records)
}

// Serve searches and writes exactly one frame to out. The outcome is not
// touched again once it has been encoded. A non-nil error means the worker
// faulted; a failed search is still a clean run and returns nil.
func (w Worker) Serve(out io.Writer) (err error) {
	written := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = fmt.Errorf("%w: %v", ErrWorkerCrashed, r)
		if !written {
			if werr := WriteOutcome(out, Failed(KindWorkerCrashed, fmt.Sprint(r))); werr != nil {
				w.logger().Warn("Could not report worker crash", zap.Error(werr))
			}
		}
	}()

	frame, err := EncodeOutcome(w.Search())
	if err != nil {
		frame, err = EncodeOutcome(Failed(KindSearchFailed, err.Error()))
		if err != nil {
			return err
		}
	}

	written = true
	if _, err := out.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (w Worker) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger.With(zap.Uint64("worker", w.ID), zap.String("target", w.Target))
}
