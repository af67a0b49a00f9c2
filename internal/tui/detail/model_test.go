package detail

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/source"
)

// scriptedFetch returns the queued results in order and records the ids asked for.
type scriptedFetch struct {
	results []error
	calls   []string
}

func (s *scriptedFetch) fetch(_ context.Context, id string) (record.Details, error) {
	s.calls = append(s.calls, id)
	var err error
	if len(s.results) > 0 {
		err, s.results = s.results[0], s.results[1:]
	}
	if err != nil {
		return record.Details{}, err
	}
	return record.Details{ID: id, FullName: "Anna Nowak"}, nil
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func retryKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
}

func TestModel_LoadsOnInit(t *testing.T) {
	f := &scriptedFetch{}
	m := New(context.Background(), f.fetch, "7")
	assert.Equal(t, StateLoading, m.State())
	assert.Empty(t, f.calls, "nothing is fetched before Init runs")

	m, _ = m.Update(run(t, m.Init()))
	assert.Equal(t, StateLoaded, m.State())
	assert.Equal(t, "Anna Nowak", m.Details().FullName)
	assert.Equal(t, []string{"7"}, f.calls)
	assert.Empty(t, m.Message())
}

func TestModel_ErrorThenRetry(t *testing.T) {
	f := &scriptedFetch{results: []error{errors.New("connection refused"), nil}}
	m := New(context.Background(), f.fetch, "7")

	m, _ = m.Update(run(t, m.Init()))
	require.Equal(t, StateError, m.State())
	assert.Equal(t, DefaultErrorMessage, m.Message())
	assert.EqualError(t, m.Err(), "connection refused")

	m, cmd := m.Update(retryKey())
	assert.Equal(t, StateLoading, m.State())
	assert.NoError(t, m.Err())

	m, _ = m.Update(run(t, cmd))
	assert.Equal(t, StateLoaded, m.State())
	assert.Len(t, f.calls, 2)
}

func TestModel_RetryOnlyFromError(t *testing.T) {
	f := &scriptedFetch{}
	m := New(context.Background(), f.fetch, "7")

	m, cmd := m.Update(retryKey())
	assert.Nil(t, cmd)
	assert.Equal(t, StateLoading, m.State())

	m, _ = m.Update(run(t, m.Init()))
	_, cmd = m.Update(retryKey())
	assert.Nil(t, cmd)
}

func TestModel_IgnoresStaleAttempts(t *testing.T) {
	f := &scriptedFetch{results: []error{errors.New("boom")}}
	m := New(context.Background(), f.fetch, "7")
	m, _ = m.Update(run(t, m.Init()))
	m, _ = m.Retry()

	// A late result of the first attempt must not overwrite the retry.
	m, _ = m.Update(LoadedMsg{ID: "7", Attempt: 1, Err: errors.New("late")})
	assert.Equal(t, StateLoading, m.State())

	// A result for another CV is ignored too.
	m, _ = m.Update(LoadedMsg{ID: "8", Attempt: 2, Details: record.Details{ID: "8"}})
	assert.Equal(t, StateLoading, m.State())

	m, _ = m.Update(LoadedMsg{ID: "7", Attempt: 2, Details: record.Details{ID: "7"}})
	assert.Equal(t, StateLoaded, m.State())
}

func TestModel_NotFoundMessage(t *testing.T) {
	notFound := &source.FetchError{Op: "http", StatusCode: 404}
	f := &scriptedFetch{results: []error{notFound}}
	m := New(context.Background(), f.fetch, "7")

	m, _ = m.Update(run(t, m.Init()))
	assert.Equal(t, NotFoundMessage, m.Message())
}

func TestModel_NilFetcher(t *testing.T) {
	m := New(context.Background(), nil, "7")
	m, _ = m.Update(run(t, m.Init()))
	assert.Equal(t, StateError, m.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(9).String())
}
