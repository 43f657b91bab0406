package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
	"github.com/five82/logsieve/internal/filterpane"
	"github.com/five82/logsieve/internal/prefs"
	"github.com/five82/logsieve/internal/recents"
	"github.com/five82/logsieve/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Recents   *recents.Manager
	Loads     <-chan eventlog.Batch
	Patterns  []string
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	pane      *filterpane.Pane
	feed      *snapshotFeed
	loads     <-chan eventlog.Batch
	patterns  []string
	prefs     prefs.Prefs
	prefsPath string
	keys      keyMap

	// UI state
	theme       Theme
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = records, 1 = detail

	// Data state
	snapshot state.Snapshot

	// Detail state
	detailViewport viewport.Model
	detailRecord   uint64

	// Overlays
	showHelp bool
	modal    Modal

	// Status line
	status    string
	statusErr bool
}

// New creates a new Bubble Tea model. The model subscribes to the store;
// call Close when the program exits.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	manager := opts.Recents
	if manager == nil {
		manager = recents.NewManager(&recents.MemoryStorage{})
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs.Theme = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:       ctx,
		store:     store,
		pane:      filterpane.New(store, manager),
		feed:      newSnapshotFeed(store),
		loads:     opts.Loads,
		patterns:  opts.Patterns,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		snapshot:  store.Snapshot(),
	}
}

// Close releases the store subscriptions held by the model.
func (m Model) Close() {
	m.feed.Close()
	m.pane.Close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSnapshot(m.feed)}
	if m.loads != nil {
		cmds = append(cmds, waitForBatch(m.loads))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.updateDetailViewport()
		return m, nil

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateDetailViewport()
		return m, waitForSnapshot(m.feed)

	case batchMsg:
		m.store.SetRecords(msg.Records, msg.Paths, msg.Err)
		return m, waitForBatch(m.loads)

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	m.status = ""
	m.statusErr = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.OpenFilters):
		m.modal = newFilterModal(m.pane)
		return m, nil

	case key.Matches(msg, m.keys.OpenRecents):
		m.modal = newRecentsModal(m.pane)
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetail):
		m.prefs.DetailOpen = !m.prefs.DetailOpen
		if !m.prefs.DetailOpen {
			m.focusedPane = 0
		}
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleXML):
		m.prefs.ShowXML = !m.prefs.ShowXML
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.prefs.DetailOpen {
			m.focusedPane = 1 - m.focusedPane
			m.updateDetailViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextMatch):
		return m, m.find(m.pane.FindNext, "below")

	case key.Matches(msg, m.keys.PrevMatch):
		return m, m.find(m.pane.FindPrevious, "above")

	case key.Matches(msg, m.keys.ResetFilter):
		if err := m.pane.Reset(); err != nil {
			return m, statusCmd(err.Error(), true)
		}
		return m, statusCmd("Filter cleared", false)

	case key.Matches(msg, m.keys.CopyFilter):
		return m, copyCmd(filter.Stringify(m.store.Snapshot().Filter, false))

	case key.Matches(msg, m.keys.Escape):
		m.store.SetFocused(nil)
		return m, nil
	}

	if m.focusedPane == 1 {
		return m.handleDetailKey(msg)
	}
	return m.handleRecordsKey(msg)
}

// find runs a directional search with the filter pane's current form.
func (m Model) find(search func(string) (bool, error), direction string) tea.Cmd {
	found, err := search("")
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	if !found {
		return statusCmd("No matching record "+direction, false)
	}
	return nil
}

// handleRecordsKey moves focus through the visible records.
func (m Model) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(m.recordRows(), 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveFocus(page / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveFocus(-page / 2)
	case key.Matches(msg, m.keys.PageDown):
		m.moveFocus(page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveFocus(-page)
	case key.Matches(msg, m.keys.Top):
		m.focusIndex(0)
	case key.Matches(msg, m.keys.Bottom):
		m.focusIndex(len(m.store.Snapshot().RecordsFiltered) - 1)
	}
	return m, nil
}

// handleDetailKey scrolls the detail pane.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.detailViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.detailViewport.PageUp()
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	}
	return m, nil
}

// moveFocus shifts focus by delta visible records. Without a focused record,
// moving down starts at the first record and moving up at the last.
func (m *Model) moveFocus(delta int) {
	snap := m.store.Snapshot()
	n := len(snap.RecordsFiltered)
	if n == 0 {
		return
	}
	idx := snap.FocusedIndex()
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx += delta
	}
	m.focusIndex(idx)
}

func (m *Model) focusIndex(idx int) {
	records := m.store.Snapshot().RecordsFiltered
	if len(records) == 0 {
		return
	}
	idx = min(max(idx, 0), len(records)-1)
	rec := records[idx]
	m.store.SetFocused(&rec)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderRecords())

	return b.String()
}

// Messages

type snapshotMsg state.Snapshot

type batchMsg eventlog.Batch

type statusMsg struct {
	text string
	err  bool
}

// snapshotFeed delivers store snapshots to the program. Only the latest
// snapshot is kept; older undelivered ones are dropped.
type snapshotFeed struct {
	ch          chan state.Snapshot
	done        chan struct{}
	unsubscribe func()
}

func newSnapshotFeed(store *state.Store) *snapshotFeed {
	f := &snapshotFeed{
		ch:   make(chan state.Snapshot, 1),
		done: make(chan struct{}),
	}
	f.unsubscribe = store.Subscribe(f.publish)
	return f
}

func (f *snapshotFeed) publish(snap state.Snapshot) {
	select {
	case <-f.ch:
	default:
	}
	select {
	case f.ch <- snap:
	default:
	}
}

// Close unsubscribes from the store and releases a pending wait.
func (f *snapshotFeed) Close() {
	f.unsubscribe()
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// Commands

func waitForSnapshot(f *snapshotFeed) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-f.ch:
			return snapshotMsg(snap)
		case <-f.done:
			return nil
		}
	}
}

func waitForBatch(loads <-chan eventlog.Batch) tea.Cmd {
	return func() tea.Msg {
		batch, ok := <-loads
		if !ok {
			return nil
		}
		return batchMsg(batch)
	}
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: isErr}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: fmt.Sprintf("copy failed: %v", err), err: true}
		}
		return statusMsg{text: "Copied " + truncate(text, 40)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
