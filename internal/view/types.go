package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/record"
)

// DefaultFailureMessage is shown in the error slot when a fetch fails.
const DefaultFailureMessage = "Failed to fetch CVs, please try again later."

// Lifecycle errors.
var (
	// ErrPrecondition is returned by Connect when a binding is missing.
	// It signals an integration bug in the caller.
	ErrPrecondition = errors.New("view precondition failed")
	// ErrAlreadyConnected is returned when Connect or a Bind call follows a successful Connect.
	ErrAlreadyConnected = errors.New("view already connected")
	// ErrDisconnected is returned when the controller has been torn down.
	ErrDisconnected = errors.New("view disconnected")
)

// Fetcher obtains the full record set. It must report failure through its
// error return; the controller routes it to the error slot.
type Fetcher func(ctx context.Context) ([]record.Record, error)

// DetailFetcher obtains a single CV by id for a detail screen.
type DetailFetcher func(ctx context.Context, id string) (record.Details, error)

// Middleware decorates a Fetcher, e.g. with retries or a circuit breaker.
type Middleware func(Fetcher) Fetcher

// Trigger identifies what caused a recomputation.
type Trigger int

const (
	// TriggerFetch is a successful fetch.
	TriggerFetch Trigger = iota
	// TriggerFetchFailed is a failed fetch.
	TriggerFetchFailed
	// TriggerSort is a sort change.
	TriggerSort
	// TriggerPage is a page change.
	TriggerPage
)

// String returns the human-readable label for a Trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerFetch:
		return "fetch"
	case TriggerFetchFailed:
		return "fetch_failed"
	case TriggerSort:
		return "sort"
	case TriggerPage:
		return "page"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// State is the lifecycle state of a Controller.
type State int

const (
	// StateIdle means Connect has not been called.
	StateIdle State = iota
	// StateLoading means the first fetch has been issued and has not resolved.
	StateLoading
	// StateReady means at least one fetch has resolved and views are being published.
	StateReady
	// StateDisconnected is terminal.
	StateDisconnected
)

// String returns the human-readable label for a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Notice is the content of the error slot.
type Notice struct {
	// Message is safe to show to the user.
	Message string
	// Cause is the underlying fetch error.
	Cause error
}

// String returns the user-facing message.
func (n *Notice) String() string {
	if n == nil {
		return ""
	}
	return n.Message
}

// View is one published state of the table. Records is owned by the
// receiver and never shares memory with the controller's record set.
type View struct {
	Records []record.Record
	Sort    pagination.SortSpec
	Page    pagination.PageSpec
	Meta    pagination.Meta
	// Err is the error slot at the time of publication; nil when clear.
	Err *Notice
	// Loaded reports whether any fetch has succeeded, distinguishing
	// "no data yet" from "empty result".
	Loaded    bool
	Trigger   Trigger
	TriggerID string
	Seq       uint64
}

// Empty reports whether a successful fetch produced no rows at all.
func (v View) Empty() bool {
	return v.Loaded && v.Meta.TotalItems == 0
}
