package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
)

// ViewState represents the current tab in the TUI.
type ViewState int

const (
	TracksView ViewState = iota
	UsersView
	ReviewsView
)

var viewNames = [...]string{"Tracks", "Users", "Reviews"}

func (v ViewState) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return ""
	}
	return viewNames[v]
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	src       Source
	view      ViewState
	tables    [3]table.Model
	loaded    [3]bool
	tracks    []models.TrackSummary
	users     []models.UserProfile
	reviews   []models.ReviewSummary
	query     string
	searching bool
	input     textinput.Model
	showing   bool
	status    string
	err       error
	width     int
	height    int
	help      help.Model
	keys      keyMap
	now       func() time.Time
}

// NewModel creates a new TUI model reading from src.
func NewModel(ctx context.Context, src Source) *Model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "title, singer or composer"
	input.CharLimit = 64

	return &Model{
		ctx:  ctx,
		src:  src,
		view: TracksView,
		tables: [3]table.Model{
			newTable(trackColumns()),
			newTable(userColumns()),
			newTable(reviewColumns()),
		},
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
		now:   time.Now,
	}
}

// Init loads every view.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		loadTracks(m.ctx, m.src, ""),
		loadUsers(m.ctx, m.src),
		loadReviews(m.ctx, m.src),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.tables {
			m.tables[i].SetWidth(max(msg.Width-4, 20))
			m.tables[i].SetHeight(max(msg.Height-8, 3))
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)

	case tracksLoadedMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.tracks = settle(m, TracksView, msg.tracks, msg.err)
		m.tables[TracksView].SetRows(trackRows(m.tracks))
		return m, nil

	case usersLoadedMsg:
		m.users = settle(m, UsersView, msg.users, msg.err)
		m.tables[UsersView].SetRows(userRows(m.users))
		return m, nil

	case reviewsLoadedMsg:
		m.reviews = settle(m, ReviewsView, msg.reviews, msg.err)
		m.tables[ReviewsView].SetRows(reviewRows(m.reviews, m.now()))
		return m, nil
	}

	return m, nil
}

// settle records the outcome of a load. An empty listing is shown as an empty table.
func settle[T any](m *Model, v ViewState, rows []T, err error) []T {
	m.loaded[v] = true
	switch {
	case errors.Is(err, shared.ErrNotFound):
		m.err = nil
		m.status = fmt.Sprintf("No %s found", strings.ToLower(v.String()))
		return nil
	case err != nil:
		m.err = err
		m.status = ""
		return nil
	}
	m.err = nil
	m.status = fmt.Sprintf("%d %s", len(rows), strings.ToLower(v.String()))
	return rows
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.showing {
			m.showing = false
			return m, nil
		}
		if m.view == TracksView && m.query != "" {
			m.query = ""
			return m, loadTracks(m.ctx, m.src, "")
		}
		return m, nil
	case m.showing:
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.view = (m.view + 1) % 3
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.view = (m.view + 2) % 3
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.showing = len(m.tables[m.view].Rows()) > 0
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.search) && m.view == TracksView:
		m.searching = true
		m.input.SetValue(m.query)
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.tables[m.view], cmd = m.tables[m.view].Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		m.query = strings.TrimSpace(m.input.Value())
		return m, loadTracks(m.ctx, m.src, m.query)
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) reload() tea.Cmd {
	switch m.view {
	case UsersView:
		return loadUsers(m.ctx, m.src)
	case ReviewsView:
		return loadReviews(m.ctx, m.src)
	default:
		return loadTracks(m.ctx, m.src, m.query)
	}
}

// View renders the tab bar, the current table or detail pane, and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\nPress r to retry, q to quit")
		return b.String()
	case !m.loaded[m.view]:
		b.WriteString("Loading...")
	case m.showing:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.tables[m.view].View())
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.view == TracksView && m.query != "" {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Filtered by %q (esc to clear)", m.query)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	helpKeys := m.keys.ShortHelp()
	if m.view == TracksView {
		helpKeys = append([]key.Binding{m.keys.search}, helpKeys...)
	}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(viewNames))
	for i := range viewNames {
		v := ViewState(i)
		if v == m.view {
			tabs = append(tabs, styles.activeTab.Render(v.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(v.String()))
		}
	}
	return styles.title.Render("trackrate") + "\n" + strings.Join(tabs, " ")
}

func (m *Model) renderDetail() string {
	i := m.tables[m.view].Cursor()
	switch m.view {
	case TracksView:
		if i < len(m.tracks) {
			return trackDetail(m.tracks[i])
		}
	case UsersView:
		if i < len(m.users) {
			return userDetail(m.users[i])
		}
	case ReviewsView:
		if i < len(m.reviews) {
			return reviewDetail(m.reviews[i], m.now())
		}
	}
	return ""
}
