package finder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"myfind/internal/matcher"
)

// Coordinator fans a search out to one worker per target and merges the
// results. There is no cap on the number of workers and no timeout: a worker
// that never finishes blocks Run.
type Coordinator struct {
	// Spawner defaults to a TaskSpawner.
	Spawner Spawner
	Logger  *zap.Logger
	// Updates, when set, receives a ProgressUpdate for each target state change.
	// Run never closes it.
	Updates chan<- ProgressUpdate
}

type slot struct {
	target string
	handle Handle
	entry  Entry
}

func (c *Coordinator) Run(root string, targets []string, opts Options) (*Report, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	if err := matcher.ValidateRoot(root); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	spawner := c.Spawner
	if spawner == nil {
		spawner = &TaskSpawner{Logger: logger}
	}

	slots := make([]slot, len(targets))
	for i, target := range targets {
		slots[i].target = target
		slots[i].entry.Target = target

		h, err := spawner.Spawn(target, root, opts)
		if err != nil {
			logger.Warn("Failed to spawn worker", zap.String("target", target), zap.Error(err))
			slots[i].entry.Outcome = Failed(KindSpawnFailed, err.Error())
			c.send(ProgressUpdate{Index: i, Target: target, State: TargetFailed})
			continue
		}
		slots[i].handle = h
		slots[i].entry.WorkerID = h.ID()
		logger.Debug("Spawned worker", zap.String("target", target), zap.Uint64("worker", h.ID()))
		c.send(ProgressUpdate{Index: i, Target: target, WorkerID: h.ID(), State: TargetRunning})
	}

	var wg sync.WaitGroup
	for i := range slots {
		if slots[i].handle == nil {
			continue
		}
		wg.Add(1)
		go func(i int, s *slot) {
			defer wg.Done()
			s.entry.Outcome = collect(s.target, s.handle, logger)

			update := ProgressUpdate{
				Index:    i,
				Target:   s.target,
				WorkerID: s.entry.WorkerID,
				State:    TargetDone,
				Matches:  len(s.entry.Outcome.Records),
			}
			if !s.entry.Outcome.OK() {
				update.State = TargetFailed
			}
			c.send(update)
		}(i, &slots[i])
	}
	wg.Wait()

	report := &Report{Root: root, Options: opts, Entries: make([]Entry, len(slots))}
	for i := range slots {
		report.Entries[i] = slots[i].entry
	}
	return report, nil
}

// collect drains one transport and then joins its worker.
func collect(target string, h Handle, logger *zap.Logger) Outcome {
	logger = logger.With(zap.String("target", target), zap.Uint64("worker", h.ID()))

	out := h.Output()
	br := bufio.NewReader(out)
	outcome, readErr := ReadOutcome(br)
	trailing, _ := io.Copy(io.Discard, br)
	_ = out.Close()
	if readErr == nil && trailing > 0 {
		logger.Warn("Worker wrote data after its frame", zap.Int64("bytes", trailing))
	}

	waitErr := h.Wait()

	switch {
	case readErr == nil && waitErr == nil:
		return outcome
	case readErr == nil:
		logger.Warn("Worker did not terminate cleanly after reporting", zap.Error(waitErr))
		return outcome
	case waitErr != nil:
		logger.Warn("Worker crashed before reporting", zap.Error(waitErr), zap.NamedError("transport", readErr))
		return Failed(KindWorkerCrashed, describe(waitErr))
	default:
		logger.Warn("Worker output truncated", zap.Error(readErr))
		return Failed(failureKindOf(readErr), describe(readErr))
	}
}

func (c *Coordinator) send(update ProgressUpdate) {
	if c.Updates != nil {
		c.Updates <- update
	}
}

func describe(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Description
	}
	return fmt.Sprint(err)
}
