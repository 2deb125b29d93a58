package finder

import (
	"errors"
	"fmt"

	"myfind/internal/matcher"
)

var (
	ErrRootInvalid        = matcher.ErrRootInvalid
	ErrNoTargets          = errors.New("at least one filename is required")
	ErrSpawnFailed        = errors.New("worker could not be started")
	ErrTransportTruncated = errors.New("worker output truncated")
	ErrWorkerCrashed      = errors.New("worker crashed")
	ErrSearchFailed       = errors.New("search failed")
)

// FailureKind is the wire code of a failed outcome.
type FailureKind uint8

const (
	KindSearchFailed FailureKind = iota + 1
	KindRootInvalid
	KindSpawnFailed
	KindTransportTruncated
	KindWorkerCrashed
)

func (k FailureKind) String() string {
	switch k {
	case KindSearchFailed:
		return "search failed"
	case KindRootInvalid:
		return "root invalid"
	case KindSpawnFailed:
		return "spawn failed"
	case KindTransportTruncated:
		return "transport truncated"
	case KindWorkerCrashed:
		return "worker crashed"
	default:
		return fmt.Sprintf("failure(%d)", uint8(k))
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case KindRootInvalid:
		return ErrRootInvalid
	case KindSpawnFailed:
		return ErrSpawnFailed
	case KindTransportTruncated:
		return ErrTransportTruncated
	case KindWorkerCrashed:
		return ErrWorkerCrashed
	default:
		return ErrSearchFailed
	}
}

// Failure describes why a target produced no usable outcome.
type Failure struct {
	Kind        FailureKind
	Description string
}

func (f *Failure) Error() string {
	if f.Description == "" {
		return f.Kind.String()
	}
	return f.Kind.String() + ": " + f.Description
}

func (f *Failure) Unwrap() error {
	return f.Kind.sentinel()
}

func failureKindOf(err error) FailureKind {
	var f *Failure
	switch {
	case errors.As(err, &f):
		return f.Kind
	case errors.Is(err, ErrRootInvalid):
		return KindRootInvalid
	case errors.Is(err, ErrSpawnFailed):
		return KindSpawnFailed
	case errors.Is(err, ErrTransportTruncated):
		return KindTransportTruncated
	case errors.Is(err, ErrWorkerCrashed):
		return KindWorkerCrashed
	default:
		return KindSearchFailed
	}
}
