package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/onboarding"
	"github.com/moviesir/moviesir/internal/services"
)

// ViewState represents the current view in the onboarding TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	OTTView
	SwipeView
	SummaryView
	DoneView
)

// deckFetchedMsg carries the swipe deck fetch outcome.
type deckFetchedMsg struct {
	movies []models.Movie
	err    error
}

// submittedMsg carries the onboarding submission outcome.
type submittedMsg struct {
	resp *services.CompleteResponse
	err  error
}

// OnboardingModel drives the first-run flow: OTT selection, the swipe deck,
// and submission of the derived taste profile.
type OnboardingModel struct {
	ctx     context.Context
	movies  *services.MovieService
	service *services.OnboardingService
	user    *models.User

	view    ViewState
	session *onboarding.Session
	cursor  int
	resp    *services.CompleteResponse

	width  int
	height int
	err    error
	help   help.Model
	keys   keyMap
}

// NewOnboardingModel creates the onboarding TUI with the provided dependencies.
func NewOnboardingModel(ctx context.Context, movies *services.MovieService, service *services.OnboardingService, user *models.User) *OnboardingModel {
	return &OnboardingModel{
		ctx:     ctx,
		movies:  movies,
		service: service,
		user:    user,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches the swipe deck.
func (m *OnboardingModel) Init() tea.Cmd {
	return m.fetchDeck()
}

func (m *OnboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case OTTView:
			return m.handleOTTKeys(msg)
		case SwipeView:
			return m.handleSwipeKeys(msg)
		case SummaryView:
			return m.handleSummaryKeys(msg)
		case DoneView:
			if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.enter) {
				return m, tea.Quit
			}
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case deckFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.session = onboarding.NewSession(msg.movies)
		m.view = OTTView
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.resp = msg.resp
		m.view = DoneView
		return m, nil
	}

	return m, nil
}

func (m *OnboardingModel) handleOTTKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(onboarding.Platforms)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		m.session.ToggleOTT(onboarding.Platforms[m.cursor])
	case key.Matches(msg, m.keys.enter):
		m.view = SwipeView
	}
	return m, nil
}

func (m *OnboardingModel) handleSwipeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = OTTView
		return m, nil
	case key.Matches(msg, m.keys.yes), key.Matches(msg, m.keys.right):
		m.session.Swipe(true)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.left):
		m.session.Swipe(false)
	}

	if m.session.Done() {
		m.view = SummaryView
	}
	return m, nil
}

func (m *OnboardingModel) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.session.Reset()
		m.view = OTTView
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.yes), key.Matches(msg, m.keys.enter):
		return m, m.submit()
	}
	return m, nil
}

func (m *OnboardingModel) fetchDeck() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.movies.OnboardingMovies(m.ctx, 0)
		return deckFetchedMsg{movies: movies, err: err}
	}
}

func (m *OnboardingModel) submit() tea.Cmd {
	req := m.session.CompleteRequest(m.user.ID)
	return func() tea.Msg {
		resp, err := m.service.Complete(m.ctx, req)
		return submittedMsg{resp: resp, err: err}
	}
}

func (m *OnboardingModel) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.help.Render("영화를 불러오는 중...")
	case OTTView:
		return m.renderOTT()
	case SwipeView:
		return m.renderSwipe()
	case SummaryView:
		return m.renderSummary()
	case DoneView:
		return m.renderDone()
	default:
		return ""
	}
}

func (m *OnboardingModel) renderOTT() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("어떤 OTT를 사용하시나요? 🎯"))
	b.WriteString("\n")

	selected := make(map[string]bool)
	for _, p := range m.session.OTT() {
		selected[p] = true
	}

	for i, platform := range onboarding.Platforms {
		marker := "[ ]"
		if selected[platform] {
			marker = styles.ok.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", marker, platform)
		if i == m.cursor {
			line = "> " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *OnboardingModel) renderSwipe() string {
	movie, ok := m.session.Current()
	if !ok {
		return ""
	}

	done, total := m.session.Progress()

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("취향을 알려주세요 (%d/%d)", done+1, total)))
	b.WriteString("\n")
	b.WriteString(styles.ok.Render(movie.Title) + "\n")
	if len(movie.Genres) > 0 {
		b.WriteString(strings.Join(movie.Genres, ", ") + "\n")
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *OnboardingModel) renderSummary() string {
	req := m.session.CompleteRequest(m.user.ID)

	var b strings.Builder
	b.WriteString(styles.title.Render("거의 다 왔어요! 🎉"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("OTT: %s\n", joinOrNone(req.OTT)))
	b.WriteString(fmt.Sprintf("좋아요: %s\n", joinOrNone(req.LikedGenres)))
	b.WriteString(fmt.Sprintf("별로예요: %s\n", joinOrNone(req.DislikedGenres)))

	b.WriteString("\n" + styles.warn.Render("이대로 완료할까요?") + "\n")

	submitKey := key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "submit"))
	helpKeys := []key.Binding{submitKey, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *OnboardingModel) renderDone() string {
	message := "온보딩이 완료되었어요!"
	if m.resp != nil && m.resp.Message != "" {
		message = m.resp.Message
	}
	return styles.ok.Render("✓ "+message) + "\n\n" + styles.help.Render("press q to quit")
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "없음"
	}
	return strings.Join(values, ", ")
}
