// Package ui is the interactive terminal dashboard: one tab per habit with
// its heatmap, recent daily bars and record list.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/events"
	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/logger"
	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/render"
	"github.com/ramanasai/streak/internal/utils"
)

// Store is the subset of the record store the dashboard needs.
type Store interface {
	All(ctx context.Context, kind records.Kind) ([]records.Record, error)
	Add(ctx context.Context, r records.Record) (string, error)
	Delete(ctx context.Context, kind records.Kind, id string) error
}

type Options struct {
	Location      *time.Location
	SummaryDays   int
	HeatmapMonths int
	// Theme is a ThemeByName name.
	Theme string
	// Bus, when set, makes the dashboard reload a kind after any write.
	Bus    *events.Bus
	Now    func() time.Time
	Logger *slog.Logger
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
	modeHelp
)

const (
	barWidth     = 30
	listRowsBase = 8
)

type Model struct {
	ctx   context.Context
	store Store
	opts  Options
	theme Theme
	log   *slog.Logger

	tab    int
	recs   map[records.Kind][]records.Record
	errs   map[records.Kind]error
	cursor int

	mode    mode
	form    formModel
	pending records.Record

	status    string
	statusErr bool
	width     int
	height    int

	changes     <-chan events.Change
	unsubscribe func()
}

func New(ctx context.Context, store Store, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SummaryDays <= 0 {
		opts.SummaryDays = analytics.DefaultDays
	}
	if opts.HeatmapMonths <= 0 {
		opts.HeatmapMonths = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	m := Model{
		ctx:         ctx,
		store:       store,
		opts:        opts,
		theme:       ThemeByName(opts.Theme),
		log:         log,
		recs:        make(map[records.Kind][]records.Record),
		errs:        make(map[records.Kind]error),
		unsubscribe: func() {},
	}
	if opts.Bus != nil {
		m.changes, m.unsubscribe = opts.Bus.Subscribe()
	}
	return m
}

// Run starts the full-screen dashboard and blocks until the user quits.
func Run(ctx context.Context, store Store, opts Options) error {
	m := New(ctx, store, opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickNow(), m.waitForChange()}
	for _, k := range records.Kinds {
		cmds = append(cmds, m.loadCmd(k))
	}
	return tea.Batch(cmds...)
}

// ---------- messages & commands ----------

type tickMsg struct{ now time.Time }

type recordsLoadedMsg struct {
	kind records.Kind
	recs []records.Record
	err  error
}

type changeMsg struct {
	change events.Change
	ok     bool
}

type savedMsg struct {
	kind records.Kind
	id   string
	err  error
}

type deletedMsg struct {
	kind records.Kind
	id   string
	err  error
}

// the view only depends on the calendar day, a minute is plenty
func tickNow() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg{now: t} })
}

func (m Model) loadCmd(kind records.Kind) tea.Cmd {
	return func() tea.Msg {
		recs, err := m.store.All(m.ctx, kind)
		return recordsLoadedMsg{kind: kind, recs: recs, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		return changeMsg{change: c, ok: ok}
	}
}

func (m Model) saveCmd(r records.Record) tea.Cmd {
	return func() tea.Msg {
		id, err := m.store.Add(m.ctx, r)
		return savedMsg{kind: r.Kind(), id: id, err: err}
	}
}

func (m Model) deleteCmd(r records.Record) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Delete(m.ctx, r.Kind(), r.RecordID())
		return deletedMsg{kind: r.Kind(), id: r.RecordID(), err: err}
	}
}

// ---------- update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, tickNow()

	case recordsLoadedMsg:
		if msg.err != nil {
			m.log.Error("load records", slog.String("kind", msg.kind.String()), slog.Any("error", msg.err))
			m.errs[msg.kind] = msg.err
			return m, nil
		}
		delete(m.errs, msg.kind)
		m.recs[msg.kind] = msg.recs
		m.clampCursor()
		return m, nil

	case changeMsg:
		if !msg.ok {
			m.changes = nil
			return m, nil
		}
		return m, tea.Batch(m.loadCmd(msg.change.Kind), m.waitForChange())

	case savedMsg:
		if msg.err != nil {
			m.form.err = msg.err.Error()
			return m, nil
		}
		m.mode = modeBrowse
		m.setStatus(fmt.Sprintf("Saved %s record %s", msg.kind, shortID(msg.id)), false)
		return m, m.reloadWithoutBus(msg.kind)

	case deletedMsg:
		m.mode = modeBrowse
		m.pending = nil
		if msg.err != nil {
			m.setStatus("Delete failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Deleted %s record %s", msg.kind, shortID(msg.id)), false)
		return m, m.reloadWithoutBus(msg.kind)

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeHelp:
			m.mode = modeBrowse
			return m, nil
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// reloadWithoutBus refreshes kind directly when no bus delivers changes.
func (m Model) reloadWithoutBus(kind records.Kind) tea.Cmd {
	if m.changes != nil {
		return nil
	}
	return m.loadCmd(kind)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
	case "tab", "right", "l":
		m.switchTab(m.tab + 1)
	case "shift+tab", "left", "h":
		m.switchTab(m.tab - 1)
	case "1", "2", "3":
		m.switchTab(int(msg.String()[0] - '1'))
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "g", "home":
		m.cursor = 0
	case "r":
		m.setStatus("Reloading…", false)
		return m, m.loadCmd(m.kind())
	case "a", "n":
		m.form = newForm(m.kind(), LabelCandidates(m.recs[m.kind()]))
		m.mode = modeForm
		return m, textinput.Blink
	case "d", "x":
		if r := m.selected(); r != nil {
			m.pending = r
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	form, cmd, action := m.form.update(msg)
	m.form = form
	switch action {
	case formCancel:
		m.mode = modeBrowse
		m.setStatus("Cancelled", false)
		return m, nil
	case formSubmit:
		r, err := m.form.build(m.opts.Now(), m.opts.Location)
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form.err = ""
		return m, m.saveCmd(r)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.pending == nil {
			m.mode = modeBrowse
			return m, nil
		}
		return m, m.deleteCmd(m.pending)
	case "n", "esc":
		m.mode = modeBrowse
		m.pending = nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) switchTab(i int) {
	n := len(records.Kinds)
	m.tab = (i%n + n) % n
	m.cursor = 0
}

func (m *Model) clampCursor() {
	n := len(m.recs[m.kind()])
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) kind() records.Kind { return records.Kinds[m.tab] }

func (m Model) selected() records.Record {
	recs := m.recs[m.kind()]
	if m.cursor < 0 || m.cursor >= len(recs) {
		return nil
	}
	return recs[m.cursor]
}

// ---------- view ----------

func (m Model) View() string {
	t := m.theme
	base := lipgloss.JoinVertical(lipgloss.Left,
		m.tabsView(),
		"",
		m.bodyView(),
		"",
		m.footerView(),
	)

	switch m.mode {
	case modeForm:
		return overlayCenter(base, modal(t, "New "+strings.ToLower(m.kind().Title())+" record", m.form.view(t)))
	case modeConfirmDelete:
		if m.pending != nil {
			e := utils.EntryFrom(m.pending)
			body := fmt.Sprintf("%s  %s  %s\n\n%s",
				shortID(e.ID), m.when(e), utils.FormatMinutes(e.Minutes),
				t.Hint.Render("y delete • n cancel"))
			return overlayCenter(base, modal(t, "Delete record?", body))
		}
	case modeHelp:
		return overlayCenter(base, modal(t, "Keys", helpText))
	}
	return base
}

const helpText = `tab/←/→  switch habit     1-3  jump to habit
j/k      move cursor      a    add record
d        delete record    r    reload
?        this help        q    quit`

func (m Model) tabsView() string {
	t := m.theme
	parts := []string{t.Title.Render("streak")}
	for i, k := range records.Kinds {
		label := fmt.Sprintf("%d %s", i+1, k.Title())
		if i == m.tab {
			parts = append(parts, t.TabActive.Render(label))
		} else {
			parts = append(parts, t.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) bodyView() string {
	t := m.theme
	kind := m.kind()
	if err, ok := m.errs[kind]; ok {
		return t.Error.Render("Could not load records: " + err.Error())
	}

	recs := m.recs[kind]
	now := m.opts.Now()
	loc := m.opts.Location
	unit := analytics.Unit(kind)

	start, end := heatmap.Window(now, m.opts.HeatmapMonths, loc)
	grid := render.KindGrid(recs, kind, start, end, loc, m.log)
	series := analytics.Daily(recs, kind, m.opts.SummaryDays, now, loc, m.log)

	calendar := t.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Label.Render(fmt.Sprintf("Last %d months", m.opts.HeatmapMonths)),
		render.Heatmap(grid),
		render.Legend(heatmap.PaletteFor(kind)),
	))
	bars := t.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Label.Render(fmt.Sprintf("Last %d days (%s)", m.opts.SummaryDays, unit)),
		strings.TrimRight(render.Bars(series, unit, barWidth), "\n"),
		render.StatsLine(analytics.Summarize(series), unit),
	))

	return lipgloss.JoinVertical(lipgloss.Left, calendar, bars, m.listView(recs))
}

func (m Model) listView(recs []records.Record) string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Label.Render(fmt.Sprintf("Records (%d)", len(recs))))
	b.WriteString("\n")
	if len(recs) == 0 {
		b.WriteString(t.Hint.Render("Nothing logged yet. Press a to add one."))
		return b.String()
	}

	rows := m.listRows()
	first := 0
	if m.cursor >= rows {
		first = m.cursor - rows + 1
	}
	last := min(len(recs), first+rows)
	for i := first; i < last; i++ {
		e := utils.EntryFrom(recs[i])
		line := fmt.Sprintf("%-8s  %-19s  %-7s  %s", shortID(e.ID), m.when(e), utils.FormatMinutes(e.Minutes), e.Label)
		line = strings.TrimRight(line, " ")
		if i == m.cursor {
			b.WriteString(t.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + t.Value.Render(line))
		}
		if i < last-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// listRows grows the list with the terminal beyond what the charts use.
func (m Model) listRows() int {
	const chrome = 28
	if m.height > chrome+listRowsBase {
		return m.height - chrome
	}
	return listRowsBase
}

func (m Model) when(e utils.Entry) string {
	loc := m.opts.Location
	if e.When.IsZero() {
		return "?"
	}
	if e.Kind == records.KindSleep && !e.Start.IsZero() {
		return e.Start.In(loc).Format("01-02 15:04") + "→" + e.When.In(loc).Format("15:04")
	}
	return e.When.In(loc).Format("2006-01-02 15:04")
}

func (m Model) footerView() string {
	t := m.theme
	hints := t.Hint.Render("a add • d delete • tab switch • ? help • q quit")
	if m.status == "" {
		return hints
	}
	status := t.Success.Render(m.status)
	if m.statusErr {
		status = t.Error.Render(m.status)
	}
	return status + "  " + hints
}

func modal(t Theme, title, content string) string {
	return t.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, t.Title.Render(title), "", content))
}

func overlayCenter(base, modal string) string {
	// naive center overlay using vertical join with blank lines
	baseH := lipgloss.Height(base)
	mh := lipgloss.Height(modal)
	topPad := max(0, (baseH-mh)/3)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Repeat("\n", topPad), lipgloss.PlaceHorizontal(lipgloss.Width(base), lipgloss.Center, modal), "")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
