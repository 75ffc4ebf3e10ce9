package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cratedig/internal/collection"
	"cratedig/internal/domain"
	"cratedig/internal/normalize"
	"cratedig/internal/resolver"
)

// viewMode represents the active screen
type viewMode int

const (
	modeBrowse viewMode = iota
	modeSearch
	modeStats
)

const cardWidth = 26 // interior width, borders add 2

// Model is the main Bubble Tea model for the record browser
type Model struct {
	svc     *collection.Service
	tracker *collection.Tracker
	keys    KeyMap
	search  textinput.Model
	logger  *slog.Logger

	mode    viewMode
	records []*domain.Record
	cursor  int
	offset  int
	flipped map[string]bool
	width   int
	height  int

	artCh chan artResolvedMsg
}

// New creates the browser model wired to the collection service and tracker.
func New(svc *collection.Service, tracker *collection.Tracker, logger *slog.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "title, artist, genre..."
	ti.CharLimit = 80
	ti.Width = 36
	ti.Prompt = "/ "
	ti.PromptStyle = accentStyle
	ti.PlaceholderStyle = dimStyle

	m := &Model{
		svc:     svc,
		tracker: tracker,
		keys:    DefaultKeyMap(),
		search:  ti,
		logger:  logger,
		flipped: make(map[string]bool),
		artCh:   make(chan artResolvedMsg, 64),
	}
	// Workers block here rather than drop: every result must reach Update,
	// which is the only goroutine allowed to write record fields.
	tracker.OnResolved(func(rec *domain.Record, res resolver.Result) {
		m.artCh <- artResolvedMsg{rec: rec, res: res}
	})
	m.records = svc.Filtered()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return listenArt(m.artCh)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampViewport()
		m.pushViewport()
		return m, nil

	case artResolvedMsg:
		collection.ApplyResult(msg.rec, msg.res)
		return m, listenArt(m.artCh)

	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.mode == modeStats {
			m.mode = modeBrowse
			return m, nil
		}
		if m.svc.Query() != "" {
			m.svc.SetQuery("")
			m.reload(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampViewport()
		m.pushViewport()
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.records) - 1
		m.clampViewport()
		m.pushViewport()

	case key.Matches(msg, m.keys.Flip):
		if rec := m.current(); rec != nil {
			k := normalize.CacheKey(rec.Artist, rec.Title)
			m.flipped[k] = !m.flipped[k]
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.svc.Query())
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Sort):
		m.svc.SetSort(m.svc.SortMode().Next())
		m.reload(true)

	case key.Matches(msg, m.keys.Shuffle):
		m.svc.Shuffle()
		m.reload(true)

	case key.Matches(msg, m.keys.RefreshArt):
		m.tracker.RefreshAll()

	case key.Matches(msg, m.keys.Stats):
		if m.mode == modeStats {
			m.mode = modeBrowse
		} else {
			m.mode = modeStats
		}
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.search.Blur()
		m.svc.SetQuery("")
		m.reload(true)
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.svc.Query() {
		m.svc.SetQuery(q)
		m.reload(true)
	}
	return m, cmd
}

// reload refreshes the filtered slice from the service. When resetCursor
// is set the viewport jumps back to the first card.
func (m *Model) reload(resetCursor bool) {
	m.records = m.svc.Filtered()
	if resetCursor {
		m.cursor = 0
		m.offset = 0
	}
	m.clampViewport()
	m.tracker.SetRecords(m.records)
	m.pushViewport()
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clampViewport()
	m.pushViewport()
}

func (m *Model) current() *domain.Record {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return nil
	}
	return m.records[m.cursor]
}

// visibleCards returns how many cards fit in the current width.
func (m *Model) visibleCards() int {
	n := m.width / (cardWidth + 2)
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) clampViewport() {
	if len(m.records) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	vis := m.visibleCards()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vis {
		m.offset = m.cursor - vis + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pushViewport tells the tracker which cards are on screen so their
// artwork gets scheduled.
func (m *Model) pushViewport() {
	if len(m.records) == 0 {
		return
	}
	last := m.offset + m.visibleCards() - 1
	if last >= len(m.records) {
		last = len(m.records) - 1
	}
	m.tracker.SetViewport(m.offset, last)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.mode == modeStats {
		return m.statsView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.laneView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m *Model) headerView() string {
	title := titleStyle.Render("cratedig")
	count := subtitleStyle.Render(fmt.Sprintf(" %d records", len(m.records)))
	sort := dimStyle.Render("  sort: " + m.svc.SortMode().String())

	var search string
	if m.mode == modeSearch {
		search = "  " + m.search.View()
	} else if q := m.svc.Query(); q != "" {
		search = accentStyle.Render("  / " + q)
	}
	return title + count + sort + search
}

func (m *Model) laneView() string {
	if len(m.records) == 0 {
		if m.svc.Query() != "" {
			return dimStyle.Render("  no records match")
		}
		return dimStyle.Render("  no records loaded")
	}

	last := m.offset + m.visibleCards()
	if last > len(m.records) {
		last = len(m.records)
	}

	cards := make([]string, 0, last-m.offset)
	for i := m.offset; i < last; i++ {
		cards = append(cards, m.cardView(i))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) cardView(i int) string {
	rec := m.records[i]
	k := normalize.CacheKey(rec.Artist, rec.Title)

	var lines []string
	if m.flipped[k] {
		lines = cardBack(rec)
	} else {
		lines = cardFront(rec)
	}
	body := strings.Join(lines, "\n")

	style := cardStyle
	if i == m.cursor {
		style = activeCardStyle
	}
	return style.Width(cardWidth).Render(body)
}

func cardFront(rec *domain.Record) []string {
	var art string
	if rec.Cover != "" {
		art = okStyle.Render("● art")
	} else {
		art = dimStyle.Render("○ ...")
	}
	lines := []string{
		art,
		titleStyle.Render(truncate(rec.Title, cardWidth)),
		subtitleStyle.Render(truncate(rec.Artist, cardWidth)),
	}
	if rec.Genre != "" {
		lines = append(lines, dimStyle.Render(truncate(rec.Genre, cardWidth)))
	}
	return lines
}

func cardBack(rec *domain.Record) []string {
	lines := []string{accentStyle.Render(truncate(rec.Title, cardWidth))}
	add := func(label, val string) {
		if val != "" {
			lines = append(lines, dimStyle.Render(label+" ")+truncate(val, cardWidth-len(label)-1))
		}
	}
	add("label", rec.Label)
	add("format", rec.Format)
	add("color", rec.Color)
	add("genre", rec.Genre)
	add("notes", rec.Notes)
	add("link", rec.URL)
	return lines
}

func (m *Model) footerView() string {
	help := []string{
		"←/→ browse", "enter flip", "/ search", "s sort", "r shuffle",
		"R refresh art", "i stats", "q quit",
	}
	return dimStyle.Render("  " + strings.Join(help, " · "))
}

func (m *Model) statsView() string {
	st := m.svc.Stats()

	var b strings.Builder
	b.WriteString(titleStyle.Render("collection stats"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  records   %d\n", st.Total))
	b.WriteString(fmt.Sprintf("  with art  %s\n", okStyle.Render(fmt.Sprint(st.WithCover))))
	b.WriteString(fmt.Sprintf("  missing   %s\n", missStyle.Render(fmt.Sprint(st.Missing))))
	b.WriteString(fmt.Sprintf("  genres    %d\n", st.GenreCount))

	b.WriteString("\n" + subtitleStyle.Render("  top artists") + "\n")
	for _, nc := range st.TopArtists {
		b.WriteString(fmt.Sprintf("    %-24s %d\n", truncate(nc.Name, 24), nc.Count))
	}
	b.WriteString("\n" + subtitleStyle.Render("  top genres") + "\n")
	for _, nc := range st.TopGenres {
		b.WriteString(fmt.Sprintf("    %-24s %d\n", truncate(nc.Name, 24), nc.Count))
	}
	b.WriteString("\n" + dimStyle.Render("  esc/i back"))
	return b.String()
}

func truncate(s string, max int) string {
	if max < 1 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
