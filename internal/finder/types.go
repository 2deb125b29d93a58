// Package finder runs one search worker per file name and merges what the
// workers report into a single ordered Report.
package finder

import "fmt"

type Options struct {
	Recursive       bool
	CaseInsensitive bool
}

// Record is one located file, attributed to the worker that found it.
type Record struct {
	WorkerID uint64
	Name     string
	Path     string
}

// Outcome is what a worker hands to its transport. A nil Failure means the
// search succeeded, even with zero records.
type Outcome struct {
	Records []Record
	Failure *Failure
}

func Ok(records []Record) Outcome {
	return Outcome{Records: records}
}

func Failed(kind FailureKind, description string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Description: description}}
}

func (o Outcome) OK() bool {
	return o.Failure == nil
}

type Entry struct {
	Target   string
	WorkerID uint64
	Outcome  Outcome
}

// Report holds one entry per target, in submission order.
type Report struct {
	Root    string
	Options Options
	Entries []Entry
}

func (r *Report) Matches() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Outcome.Records)
	}
	return n
}

func (r *Report) Failures() []Entry {
	var failed []Entry
	for _, e := range r.Entries {
		if !e.Outcome.OK() {
			failed = append(failed, e)
		}
	}
	return failed
}

// TargetState is the lifecycle position of one target's worker.
type TargetState uint8

const (
	TargetPending TargetState = iota
	TargetRunning
	TargetDone
	TargetFailed
)

func (s TargetState) String() string {
	switch s {
	case TargetPending:
		return "pending"
	case TargetRunning:
		return "running"
	case TargetDone:
		return "done"
	case TargetFailed:
		return "failed"
	default:
		return fmt.Sprintf("TargetState(%d)", uint8(s))
	}
}

// ProgressUpdate reports that the target at Index moved to State. Matches is
// set once the target is done.
type ProgressUpdate struct {
	Index    int
	Target   string
	WorkerID uint64
	State    TargetState
	Matches  int
}
