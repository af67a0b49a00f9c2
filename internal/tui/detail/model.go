package detail

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/source"
	"github.com/rshade/cvdesk/internal/view"
)

// Messages shown in the error slot.
const (
	DefaultErrorMessage = "Failed to fetch the CV, please try again later."
	NotFoundMessage     = "This CV no longer exists."
)

const keyRetry = "r"

// State is the loading state of a Model.
type State int

const (
	// StateLoading means a fetch is in flight.
	StateLoading State = iota
	// StateLoaded means Details holds the fetched CV.
	StateLoaded
	// StateError means the last attempt failed; 'r' retries.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// LoadedMsg carries the result of one fetch attempt.
type LoadedMsg struct {
	ID      string
	Attempt int
	Details record.Details
	Err     error
}

// Model is the state of one detail screen.
type Model struct {
	ctx     context.Context
	fetch   view.DetailFetcher
	id      string
	attempt int
	state   State
	details record.Details
	err     error
}

// New returns a Model for id in the loading state. Init starts the fetch.
func New(ctx context.Context, fetch view.DetailFetcher, id string) Model {
	return Model{
		ctx:     ctx,
		fetch:   fetch,
		id:      id,
		attempt: 1,
		state:   StateLoading,
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update applies a LoadedMsg for the current attempt, and 'r' in the error state.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.ID != m.id || msg.Attempt != m.attempt {
			return m, nil
		}
		if msg.Err != nil {
			logging.FromContext(m.ctx).Warn().
				Str("component", "detail").
				Str("cv_id", m.id).
				Int("attempt", m.attempt).
				Err(msg.Err).
				Msg("CV detail fetch failed")
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.state = StateLoaded
		m.details = msg.Details
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == keyRetry && m.state == StateError {
			return m.Retry()
		}
	}
	return m, nil
}

// Retry starts a new attempt. Results of earlier attempts are dropped.
func (m Model) Retry() (Model, tea.Cmd) {
	m.attempt++
	m.state = StateLoading
	m.err = nil
	return m, m.load()
}

func (m Model) load() tea.Cmd {
	ctx, fetch, id, attempt := m.ctx, m.fetch, m.id, m.attempt
	return func() tea.Msg {
		if fetch == nil {
			return LoadedMsg{ID: id, Attempt: attempt, Err: errors.New("no detail source configured")}
		}
		d, err := fetch(ctx, id)
		return LoadedMsg{ID: id, Attempt: attempt, Details: d, Err: err}
	}
}

// ID returns the CV id the screen shows.
func (m Model) ID() string { return m.id }

// State returns the loading state.
func (m Model) State() State { return m.state }

// Details returns the fetched CV; zero unless State is StateLoaded.
func (m Model) Details() record.Details { return m.details }

// Err returns the cause of the last failure.
func (m Model) Err() error { return m.err }

// Message returns the user-facing text for the error slot, or "".
func (m Model) Message() string {
	return MessageFor(m.err)
}

// MessageFor maps a detail fetch error to the text shown to users.
func MessageFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, source.ErrNotFound):
		return NotFoundMessage
	default:
		return DefaultErrorMessage
	}
}
