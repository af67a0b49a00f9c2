package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/tui/detail"
	"github.com/rshade/cvdesk/internal/view"
)

const (
	defaultWidth  = 120
	defaultHeight = 30
	// chromeHeight is the number of lines around the table: title, banner, footer, help.
	chromeHeight = 6
)

// Key bindings.
const (
	keyLeft    = "left"
	keyRight   = "right"
	keyH       = "h"
	keyL       = "l"
	keySort    = "s"
	keyDir     = "d"
	keyRefresh = "r"
	keyDismiss = "x"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keyBack    = "backspace"
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
)

// ViewState is the screen the model is showing.
type ViewState int

const (
	// ViewStateLoading shows the spinner until the first fetch resolves.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the table.
	ViewStateList
	// ViewStateDetail shows the CV selected in the table.
	ViewStateDetail
	// ViewStateQuitting renders nothing.
	ViewStateQuitting
)

// Controller is the part of view.Controller the model drives.
type Controller interface {
	BindSort(initial pagination.SortSpec, updates <-chan pagination.SortSpec) error
	BindPage(initial pagination.PageSpec, updates <-chan pagination.PageSpec) error
	Connect(ctx context.Context) (<-chan view.View, error)
	Errors() <-chan *view.Notice
	Refresh()
	Disconnect()
}

// ViewMsg carries a view published by the controller. Closed is set when the
// view channel has been closed.
type ViewMsg struct {
	View   view.View
	Closed bool
}

// NoticeMsg carries a change of the error slot; a nil Notice clears it.
type NoticeMsg struct {
	Notice *view.Notice
	Closed bool
}

// TableOption configures a TableModel.
type TableOption func(*TableModel)

// WithDetailFetcher enables the detail screen, opened with Enter on a row.
func WithDetailFetcher(f view.DetailFetcher) TableOption {
	return func(m *TableModel) {
		m.details = f
	}
}

// TableModel is the Bubble Tea model for the CV table.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type TableModel struct {
	ctx  context.Context
	ctrl Controller

	views  <-chan view.View
	errs   <-chan *view.Notice
	sortCh chan pagination.SortSpec
	pageCh chan pagination.PageSpec

	// Requested selection; the controller confirms it in the next view.
	sort pagination.SortSpec
	page pagination.PageSpec

	state      ViewState
	current    view.View
	notice     *view.Notice
	refreshing bool

	details  view.DetailFetcher
	detail   detail.Model
	viewport viewport.Model

	table   table.Model
	spinner spinner.Model
	width   int
	height  int
}

// NewTableModel binds ctrl to the model's sort and page channels and connects it.
func NewTableModel(
	ctx context.Context,
	ctrl Controller,
	sort pagination.SortSpec,
	page pagination.PageSpec,
	opts ...TableOption,
) (TableModel, error) {
	m := TableModel{
		ctx:     ctx,
		ctrl:    ctrl,
		sortCh:  make(chan pagination.SortSpec, 1),
		pageCh:  make(chan pagination.PageSpec, 1),
		sort:    sort,
		page:    page,
		state:   ViewStateLoading,
		width:   defaultWidth,
		height:  defaultHeight,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if err := ctrl.BindSort(sort, m.sortCh); err != nil {
		return TableModel{}, fmt.Errorf("binding sort: %w", err)
	}
	if err := ctrl.BindPage(page, m.pageCh); err != nil {
		return TableModel{}, fmt.Errorf("binding page: %w", err)
	}
	views, err := ctrl.Connect(ctx)
	if err != nil {
		return TableModel{}, fmt.Errorf("connecting view: %w", err)
	}
	m.views = views
	m.errs = ctrl.Errors()
	m.table = m.buildTable()
	return m, nil
}

// Init starts the spinner and subscribes to both controller channels.
func (m TableModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForView(m.views), waitForNotice(m.errs))
}

// Update handles messages (Bubble Tea interface).
func (m TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		m.syncDetailViewport()
		return m, nil

	case ViewMsg:
		return m.handleView(msg)

	case NoticeMsg:
		if msg.Closed {
			return m, nil
		}
		m.notice = msg.Notice
		return m, waitForNotice(m.errs)

	case detail.LoadedMsg:
		if m.state != ViewStateDetail {
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		m.syncDetailViewport()
		return m, cmd

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TableModel) handleView(msg ViewMsg) (tea.Model, tea.Cmd) {
	if msg.Closed {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	v := msg.View
	m.current = v
	if v.Trigger == view.TriggerFetch || v.Trigger == view.TriggerFetchFailed {
		m.refreshing = false
		if m.state == ViewStateLoading {
			m.state = ViewStateList
		}
	}
	m.table = m.buildTable()

	logging.FromContext(m.ctx).Debug().
		Str("component", "tui").
		Str("trigger", v.Trigger.String()).
		Uint64("seq", v.Seq).
		Msg("view received")

	return m, waitForView(m.views)
}

func (m TableModel) spinning() bool {
	if m.state == ViewStateDetail && m.detail.State() == detail.StateLoading {
		return true
	}
	return m.state == ViewStateLoading || m.refreshing
}

func (m TableModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == ViewStateDetail {
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		m.ctrl.Disconnect()
		return m, tea.Quit

	case keyLeft, keyH:
		if m.page.Index > 0 {
			m.page = m.page.Previous()
			offer(m.pageCh, m.page)
		}
		return m, nil

	case keyRight, keyL:
		if m.page.Index+1 < m.current.Meta.TotalPages {
			m.page = m.page.Next()
			offer(m.pageCh, m.page)
		}
		return m, nil

	case keySort:
		m.sort = nextSortField(m.sort)
		offer(m.sortCh, m.sort)
		return m, nil

	case keyDir:
		m.sort = toggleDirection(m.sort)
		offer(m.sortCh, m.sort)
		return m, nil

	case keyRefresh:
		m.refreshing = true
		m.ctrl.Refresh()
		return m, m.spinner.Tick

	case keyDismiss:
		m.notice = nil
		return m, nil

	case keyEnter:
		return m.openDetail()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// openDetail switches to the detail screen for the row under the cursor.
func (m TableModel) openDetail() (tea.Model, tea.Cmd) {
	cursor := m.table.Cursor()
	if m.details == nil || m.state != ViewStateList || cursor < 0 || cursor >= len(m.current.Records) {
		return m, nil
	}

	id := m.current.Records[cursor].ID
	m.detail = detail.New(m.ctx, m.details, id)
	m.state = ViewStateDetail
	m.table.Blur()
	m.viewport = viewport.New(m.width, m.detailHeight())
	m.syncDetailViewport()

	logging.FromContext(m.ctx).Debug().Str("component", "tui").Str("cv_id", id).Msg("detail opened")
	return m, tea.Batch(m.detail.Init(), m.spinner.Tick)
}

func (m TableModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		m.ctrl.Disconnect()
		return m, tea.Quit

	case keyEsc, keyBack:
		m.state = ViewStateList
		m.table.Focus()
		return m, nil

	case keyRefresh:
		if m.detail.State() != detail.StateError {
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Retry()
		m.syncDetailViewport()
		return m, tea.Batch(cmd, m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m TableModel) detailHeight() int {
	return max(m.height-chromeHeight, 1)
}

// syncDetailViewport re-renders the detail body into the viewport.
func (m *TableModel) syncDetailViewport() {
	if m.state != ViewStateDetail {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.detailHeight()
	m.viewport.SetContent(renderDetailBody(m.detail, m.width))
}

// nextSortField moves to the next sortable field, keeping the direction.
// From no sort it starts ascending on the first field.
func nextSortField(s pagination.SortSpec) pagination.SortSpec {
	fields := record.Fields()
	if !s.Active() {
		return pagination.SortSpec{Field: fields[0], Direction: pagination.DirectionAsc}
	}
	i := slices.Index(fields, s.Field)
	if i == len(fields)-1 {
		return pagination.SortSpec{}
	}
	return pagination.SortSpec{Field: fields[i+1], Direction: s.Direction}
}

func toggleDirection(s pagination.SortSpec) pagination.SortSpec {
	if !s.Active() {
		return s
	}
	return s.Reverse()
}

// offer replaces any pending value so the controller only sees the latest
// selection. Update is the only sender, so the loop terminates.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func waitForView(ch <-chan view.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		return ViewMsg{View: v, Closed: !ok}
	}
}

func waitForNotice(ch <-chan *view.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		return NoticeMsg{Notice: n, Closed: !ok}
	}
}

// buildTable renders the current page into a bubbles table sized to the window.
func (m TableModel) buildTable() table.Model {
	fields := record.Fields()
	columns := make([]table.Column, len(fields))
	for i, f := range fields {
		columns[i] = table.Column{Title: columnTitle(f, m.sort), Width: columnWidth(f)}
	}

	rows := make([]table.Row, len(m.current.Records))
	for i, r := range m.current.Records {
		row := make(table.Row, len(fields))
		for j, f := range fields {
			row[j] = f.Value(r)
		}
		rows[i] = row
	}

	height := m.height - chromeHeight
	if height < 1 {
		height = 1
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

var columnTitles = map[record.Field]string{ //nolint:gochecknoglobals // Static lookup.
	record.FieldID:              "ID",
	record.FieldName:            "Name",
	record.FieldDateReceived:    "Received",
	record.FieldPositionApplied: "Position",
	record.FieldScore:           "Score",
	record.FieldStatus:          "Status",
}

func columnTitle(f record.Field, s pagination.SortSpec) string {
	title := columnTitles[f]
	if s.Active() && s.Field == f {
		if s.Direction == pagination.DirectionDesc {
			return title + " ▼"
		}
		return title + " ▲"
	}
	return title
}

func columnWidth(f record.Field) int {
	switch f {
	case record.FieldID:
		return 8 //nolint:mnd // Column width.
	case record.FieldName:
		return 28 //nolint:mnd // Column width.
	case record.FieldDateReceived:
		return 12 //nolint:mnd // Column width.
	case record.FieldPositionApplied:
		return 24 //nolint:mnd // Column width.
	case record.FieldScore:
		return 8 //nolint:mnd // Column width.
	default:
		return 12 //nolint:mnd // Column width.
	}
}
