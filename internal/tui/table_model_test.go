package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/source"
	"github.com/rshade/cvdesk/internal/tui/detail"
	"github.com/rshade/cvdesk/internal/view"
)

type fakeController struct {
	sortUpdates  <-chan pagination.SortSpec
	pageUpdates  <-chan pagination.PageSpec
	views        chan view.View
	errs         chan *view.Notice
	connectErr   error
	refreshes    int
	disconnected bool
}

func newFakeController() *fakeController {
	return &fakeController{
		views: make(chan view.View, 4),
		errs:  make(chan *view.Notice, 1),
	}
}

func (f *fakeController) BindSort(_ pagination.SortSpec, u <-chan pagination.SortSpec) error {
	f.sortUpdates = u
	return nil
}

func (f *fakeController) BindPage(_ pagination.PageSpec, u <-chan pagination.PageSpec) error {
	f.pageUpdates = u
	return nil
}

func (f *fakeController) Connect(context.Context) (<-chan view.View, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return f.views, nil
}

func (f *fakeController) Errors() <-chan *view.Notice { return f.errs }
func (f *fakeController) Refresh()                    { f.refreshes++ }
func (f *fakeController) Disconnect()                 { f.disconnected = true }

func newTestModel(t *testing.T) (TableModel, *fakeController) {
	t.Helper()
	fc := newFakeController()
	m, err := NewTableModel(context.Background(), fc, pagination.SortSpec{}, pagination.PageSpec{Index: 0, Size: 2})
	require.NoError(t, err)
	return m, fc
}

func update(t *testing.T, m TableModel, msg tea.Msg) (TableModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(TableModel)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case keyLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}
	case keyRight:
		return tea.KeyMsg{Type: tea.KeyRight}
	case keyCtrlC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case keyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loadedView(records ...record.Record) view.View {
	page := pagination.PageSpec{Index: 0, Size: 2}
	visible := pagination.Page(records, page)
	return view.View{
		Records: visible,
		Page:    page,
		Meta:    pagination.NewMeta(page, len(records)),
		Loaded:  true,
		Trigger: view.TriggerFetch,
	}
}

func threeCVs() []record.Record {
	return []record.Record{
		{ID: "1", Name: "Anna Nowak", Score: 10},
		{ID: "2", Name: "Jan Kowalski", Score: 30},
		{ID: "3", Name: "Ewa Lis", Score: 20},
	}
}

func TestNewTableModel(t *testing.T) {
	m, fc := newTestModel(t)
	assert.Equal(t, ViewStateLoading, m.state)
	assert.NotNil(t, fc.sortUpdates)
	assert.NotNil(t, fc.pageUpdates)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), loadingMessage)
}

func TestNewTableModel_ConnectError(t *testing.T) {
	fc := newFakeController()
	fc.connectErr = view.ErrPrecondition

	_, err := NewTableModel(context.Background(), fc, pagination.SortSpec{}, pagination.NewPageSpec())
	assert.ErrorIs(t, err, view.ErrPrecondition)
}

func TestTableModel_FirstViewShowsTable(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, ViewMsg{View: loadedView(threeCVs()...)})
	assert.Equal(t, ViewStateList, m.state)
	assert.NotNil(t, cmd, "keeps listening for views")
	assert.Len(t, m.table.Rows(), 2)

	out := m.View()
	assert.Contains(t, out, "Anna Nowak")
	assert.Contains(t, out, "1/2")
	assert.NotContains(t, out, emptyMessage)
}

func TestTableModel_EmptyDistinctFromError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, ViewMsg{View: loadedView()})
	assert.Contains(t, m.View(), emptyMessage)

	failed, _ := newTestModel(t)
	failed, _ = update(t, failed, ViewMsg{View: view.View{
		Records: []record.Record{},
		Trigger: view.TriggerFetchFailed,
		Err:     &view.Notice{Message: view.DefaultFailureMessage},
	}})
	failed, _ = update(t, failed, NoticeMsg{Notice: &view.Notice{Message: view.DefaultFailureMessage}})

	out := failed.View()
	assert.Contains(t, out, view.DefaultFailureMessage)
	assert.NotContains(t, out, emptyMessage)
}

func TestTableModel_NoticeClearAndDismiss(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})

	m, cmd := update(t, m, NoticeMsg{Notice: &view.Notice{Message: "boom"}})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "boom")

	m, _ = update(t, m, key(keyDismiss))
	assert.NotContains(t, m.View(), "boom")

	m, _ = update(t, m, NoticeMsg{Notice: &view.Notice{Message: "again"}})
	m, _ = update(t, m, NoticeMsg{Notice: nil})
	assert.NotContains(t, m.View(), "again")

	_, cmd = update(t, m, NoticeMsg{Closed: true})
	assert.Nil(t, cmd, "stops listening once the error channel closes")
}

func TestTableModel_PageKeys(t *testing.T) {
	m, fc := newTestModel(t)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})

	m, _ = update(t, m, key(keyLeft))
	select {
	case p := <-fc.pageUpdates:
		t.Fatalf("unexpected page change at first page: %+v", p)
	default:
	}

	m, _ = update(t, m, key(keyRight))
	assert.Equal(t, pagination.PageSpec{Index: 1, Size: 2}, <-fc.pageUpdates)

	// Already on the last page.
	m, _ = update(t, m, key(keyL))
	select {
	case p := <-fc.pageUpdates:
		t.Fatalf("unexpected page change past last page: %+v", p)
	default:
	}

	_, _ = update(t, m, key(keyH))
	assert.Equal(t, pagination.PageSpec{Index: 0, Size: 2}, <-fc.pageUpdates)
}

func TestTableModel_SortKeys(t *testing.T) {
	m, fc := newTestModel(t)

	m, _ = update(t, m, key(keySort))
	assert.Equal(t, pagination.SortSpec{Field: record.FieldID, Direction: pagination.DirectionAsc}, <-fc.sortUpdates)

	m, _ = update(t, m, key(keySort))
	m, _ = update(t, m, key(keyDir))
	// Only the latest pending selection is delivered.
	assert.Equal(t, pagination.SortSpec{Field: record.FieldName, Direction: pagination.DirectionDesc}, <-fc.sortUpdates)
	select {
	case s := <-fc.sortUpdates:
		t.Fatalf("stale sort delivered: %+v", s)
	default:
	}

	assert.Contains(t, m.View(), "name:desc")
}

func TestNextSortField_CyclesBackToNone(t *testing.T) {
	s := pagination.SortSpec{}
	for range record.Fields() {
		s = nextSortField(s)
		assert.True(t, s.Active())
	}
	assert.False(t, nextSortField(s).Active())
	assert.False(t, toggleDirection(pagination.SortSpec{}).Active())
}

func TestTableModel_Refresh(t *testing.T) {
	m, fc := newTestModel(t)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})

	m, cmd := update(t, m, key(keyRefresh))
	assert.Equal(t, 1, fc.refreshes)
	assert.True(t, m.refreshing)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "refreshing")

	// A sort view does not end the refresh; a fetch view does.
	sorted := loadedView(threeCVs()...)
	sorted.Trigger = view.TriggerSort
	m, _ = update(t, m, ViewMsg{View: sorted})
	assert.True(t, m.refreshing)

	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})
	assert.False(t, m.refreshing)
}

func TestTableModel_Quit(t *testing.T) {
	for _, k := range []string{keyQuit, keyCtrlC} {
		t.Run(k, func(t *testing.T) {
			m, fc := newTestModel(t)
			m, cmd := update(t, m, key(k))
			assert.True(t, fc.disconnected)
			assert.Equal(t, ViewStateQuitting, m.state)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestTableModel_ClosedViewChannelQuits(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, ViewMsg{Closed: true})
	assert.Equal(t, ViewStateQuitting, m.state)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTableModel_WindowResize(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 20, m.height)
}

func TestColumnTitle(t *testing.T) {
	asc := pagination.SortSpec{Field: record.FieldScore, Direction: pagination.DirectionAsc}
	assert.Equal(t, "Score ▲", columnTitle(record.FieldScore, asc))
	assert.Equal(t, "Score ▼", columnTitle(record.FieldScore, asc.Reverse()))
	assert.Equal(t, "Name", columnTitle(record.FieldName, asc))
}

func recvMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for controller message")
		return nil
	}
}

func TestTableModel_WithController(t *testing.T) {
	ctrl := view.New(source.Static(threeCVs()...), view.WithLogger(zerolog.Nop()))
	m, err := NewTableModel(context.Background(), ctrl, pagination.SortSpec{}, pagination.PageSpec{Index: 0, Size: 2})
	require.NoError(t, err)
	t.Cleanup(ctrl.Disconnect)

	m, _ = update(t, m, recvMsg(t, waitForView(m.views)))
	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, []string{"1", "2"}, []string{m.current.Records[0].ID, m.current.Records[1].ID})

	m, _ = update(t, m, key(keyRight))
	m, _ = update(t, m, recvMsg(t, waitForView(m.views)))
	assert.Equal(t, view.TriggerPage, m.current.Trigger)
	require.Len(t, m.current.Records, 1)
	assert.Equal(t, "3", m.current.Records[0].ID)
}

func TestTableModel_WithFailingController(t *testing.T) {
	failing := func(context.Context) ([]record.Record, error) { return nil, errors.New("down") }
	ctrl := view.New(failing, view.WithLogger(zerolog.Nop()))
	m, err := NewTableModel(context.Background(), ctrl, pagination.SortSpec{}, pagination.NewPageSpec())
	require.NoError(t, err)
	t.Cleanup(ctrl.Disconnect)

	m, _ = update(t, m, recvMsg(t, waitForView(m.views)))
	m, _ = update(t, m, recvMsg(t, waitForNotice(m.errs)))
	assert.Contains(t, m.View(), view.DefaultFailureMessage)
}

func newDetailTestModel(t *testing.T, fetch view.DetailFetcher) TableModel {
	t.Helper()
	fc := newFakeController()
	m, err := NewTableModel(context.Background(), fc, pagination.SortSpec{},
		pagination.PageSpec{Index: 0, Size: 2}, WithDetailFetcher(fetch))
	require.NoError(t, err)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})
	return m
}

func TestTableModel_EnterOpensDetail(t *testing.T) {
	m := newDetailTestModel(t, source.DetailsFromList(source.Static(threeCVs()...)))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, key(keyEnter))
	require.Equal(t, ViewStateDetail, m.state)
	assert.Equal(t, "2", m.detail.ID())
	assert.Equal(t, detail.StateLoading, m.detail.State())
	assert.Contains(t, m.View(), "Loading CV")
	require.NotNil(t, cmd)

	m, _ = update(t, m, detail.LoadedMsg{ID: "2", Attempt: 1, Details: record.Details{
		ID:       "2",
		FullName: "Jan Kowalski",
		Score:    30,
		Skills:   []string{"Go", "SQL"},
		Education: []record.Education{
			{Degree: "MSc", Institution: "AGH", StartDate: "2015", EndDate: "2020"},
		},
	}})
	assert.Equal(t, detail.StateLoaded, m.detail.State())
	out := m.View()
	assert.Contains(t, out, "Jan Kowalski")
	assert.Contains(t, out, "Go, SQL")
	assert.Contains(t, out, "MSc, AGH [2015 - 2020]")
	assert.Contains(t, out, detailHelpText)
}

func TestTableModel_EnterLoadsFromFetcher(t *testing.T) {
	m := newDetailTestModel(t, source.DetailsFromList(source.Static(threeCVs()...)))

	m, _ = update(t, m, key(keyEnter))
	msg := recvMsg(t, m.detail.Init())
	m, _ = update(t, m, msg)

	assert.Equal(t, detail.StateLoaded, m.detail.State())
	assert.Equal(t, "Anna Nowak", m.detail.Details().FullName)
	assert.Contains(t, m.View(), "Anna Nowak")
}

func TestTableModel_EscReturnsToList(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{name: "esc", key: key(keyEsc)},
		{name: "backspace", key: tea.KeyMsg{Type: tea.KeyBackspace}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDetailTestModel(t, source.DetailsFromList(source.Static(threeCVs()...)))
			m, _ = update(t, m, key(keyEnter))
			require.Equal(t, ViewStateDetail, m.state)

			m, _ = update(t, m, tt.key)
			assert.Equal(t, ViewStateList, m.state)
			assert.True(t, m.table.Focused())
			assert.Contains(t, m.View(), "Anna Nowak")
		})
	}
}

func TestTableModel_EnterWithoutDetailSource(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})

	m, _ = update(t, m, key(keyEnter))
	assert.Equal(t, ViewStateList, m.state)
}

func TestTableModel_EnterWhileLoading(t *testing.T) {
	fc := newFakeController()
	m, err := NewTableModel(context.Background(), fc, pagination.SortSpec{}, pagination.NewPageSpec(),
		WithDetailFetcher(source.DetailsFromList(source.Static())))
	require.NoError(t, err)

	m, _ = update(t, m, key(keyEnter))
	assert.Equal(t, ViewStateLoading, m.state)
}

func TestTableModel_DetailMsgOutsideDetailIgnored(t *testing.T) {
	m := newDetailTestModel(t, source.DetailsFromList(source.Static(threeCVs()...)))

	m, cmd := update(t, m, detail.LoadedMsg{ID: "1", Attempt: 1, Details: record.Details{ID: "1"}})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.state)
}

func TestTableModel_DetailErrorAndRetry(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, id string) (record.Details, error) {
		calls++
		if calls == 1 {
			return record.Details{}, errors.New("backend down")
		}
		return record.Details{ID: id, FullName: "Anna Nowak"}, nil
	}
	m := newDetailTestModel(t, fetch)

	m, cmd := update(t, m, key(keyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, recvMsg(t, m.detail.Init()))
	assert.Equal(t, detail.StateError, m.detail.State())
	out := m.View()
	assert.Contains(t, out, detail.DefaultErrorMessage)
	assert.Contains(t, out, "Press r to retry")

	m, cmd = update(t, m, key(keyRefresh))
	require.NotNil(t, cmd)
	assert.Equal(t, detail.StateLoading, m.detail.State())

	m, _ = update(t, m, detail.LoadedMsg{ID: "1", Attempt: 2, Details: record.Details{ID: "1", FullName: "Anna Nowak"}})
	assert.Equal(t, detail.StateLoaded, m.detail.State())
	assert.Contains(t, m.View(), "Anna Nowak")
}

func TestTableModel_DetailNotFound(t *testing.T) {
	m := newDetailTestModel(t, source.DetailsFromList(source.Static()))

	m, _ = update(t, m, key(keyEnter))
	m, _ = update(t, m, recvMsg(t, m.detail.Init()))
	assert.Contains(t, m.View(), detail.NotFoundMessage)
}

func TestTableModel_RefreshKeyInLoadedDetailIsNoop(t *testing.T) {
	m := newDetailTestModel(t, source.DetailsFromList(source.Static(threeCVs()...)))
	m, _ = update(t, m, key(keyEnter))
	m, _ = update(t, m, detail.LoadedMsg{ID: "1", Attempt: 1, Details: record.Details{ID: "1"}})

	m, cmd := update(t, m, key(keyRefresh))
	assert.Nil(t, cmd)
	assert.Equal(t, detail.StateLoaded, m.detail.State())
}

func TestTableModel_QuitFromDetail(t *testing.T) {
	fc := newFakeController()
	m, err := NewTableModel(context.Background(), fc, pagination.SortSpec{},
		pagination.PageSpec{Index: 0, Size: 2}, WithDetailFetcher(source.DetailsFromList(source.Static())))
	require.NoError(t, err)
	m, _ = update(t, m, ViewMsg{View: loadedView(threeCVs()...)})
	m, _ = update(t, m, key(keyEnter))

	m, cmd := update(t, m, key(keyQuit))
	assert.Equal(t, ViewStateQuitting, m.state)
	assert.True(t, fc.disconnected)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestRenderDetailBody_OmitsEmptySections(t *testing.T) {
	m := detail.New(context.Background(), nil, "7")
	m, _ = m.Update(detail.LoadedMsg{ID: "7", Attempt: 1, Details: record.Details{
		ID:       "7",
		FullName: "Ewa Lis",
		MilitaryExperience: []record.MilitaryExperience{
			{Rank: "Sergeant", Branch: "Army", StartDate: "2010", Duties: []string{"Logistics"}},
		},
	}})

	out := renderDetailBody(m, 80)
	assert.Contains(t, out, "Ewa Lis")
	assert.Contains(t, out, "Sergeant, Army [2010 - present]")
	assert.Contains(t, out, "- Logistics")
	assert.NotContains(t, out, "EDUCATION")
	assert.NotContains(t, out, "Email")
	assert.Empty(t, renderDetailBody(detail.New(context.Background(), nil, "7"), 80))
}
