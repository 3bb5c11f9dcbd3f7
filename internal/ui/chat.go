package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moviesir/moviesir/internal/chat"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/recommend"
	"github.com/moviesir/moviesir/internal/shared"
)

// chatMessage is one line of the transcript.
type chatMessage struct {
	id       string
	fromUser bool
	text     string
}

func botMessage(text string) chatMessage {
	return chatMessage{id: shared.GenerateID(), text: text}
}

func userMessage(text string) chatMessage {
	return chatMessage{id: shared.GenerateID(), fromUser: true, text: text}
}

// typingDoneMsg fires when the bot's typing delay elapses.
type typingDoneMsg struct{}

// recommendDoneMsg carries the outcome of the recommend call.
type recommendDoneMsg struct {
	result *recommend.Result
	err    error
}

// ChatModel drives the conversational recommender.
type ChatModel struct {
	ctx      context.Context
	conv     *chat.Conversation
	primary  recommend.Strategy
	fallback recommend.Strategy
	user     *models.User

	typingDelay time.Duration
	messages    []chatMessage
	replies     []string
	cursor      int
	pending     *chat.Turn
	typing      bool
	recommend   bool
	lastResult  *recommend.Result

	input     textinput.Model
	inputMode bool

	width  int
	height int
	err    error
	help   help.Model
	keys   keyMap
}

// NewChatModel creates the chat TUI. The fallback strategy may be nil, in
// which case recommend failures surface directly.
func NewChatModel(ctx context.Context, user *models.User, primary, fallback recommend.Strategy, typingDelay time.Duration) *ChatModel {
	if typingDelay <= 0 {
		typingDelay = 600 * time.Millisecond
	}

	input := textinput.New()
	input.Placeholder = "메시지를 입력하거나 버튼을 클릭하세요..."
	input.CharLimit = 200

	conv := chat.NewConversation()
	greeting := conv.Greeting()

	return &ChatModel{
		ctx:         ctx,
		conv:        conv,
		primary:     primary,
		fallback:    fallback,
		user:        user,
		typingDelay: typingDelay,
		messages:    []chatMessage{botMessage(greeting.Message)},
		replies:     greeting.QuickReplies,
		input:       input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return nil
}

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKeys(msg)
		}
		return m.handleKeys(msg)

	case typingDoneMsg:
		return m.finishTyping()

	case recommendDoneMsg:
		return m.finishRecommend(msg)
	}

	return m, nil
}

func (m *ChatModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case m.typing || m.recommend:
		// Input is ignored while the bot is busy.
		return m, nil
	case key.Matches(msg, m.keys.input):
		m.inputMode = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.right), key.Matches(msg, m.keys.down):
		if m.cursor < len(m.replies)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if len(m.replies) == 0 {
			return m, nil
		}
		return m.submit(m.replies[m.cursor])
	}
	return m, nil
}

func (m *ChatModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.inputMode = false
		m.input.Blur()
		m.input.Reset()
		if text == "" {
			return m, nil
		}

		m.messages = append(m.messages, userMessage(text))
		reply, ok := chat.MatchIntent(text)
		if !ok {
			m.messages = append(m.messages, botMessage("아래 버튼으로 대화를 이어가주세요!"))
			return m, nil
		}
		return m.apply(reply)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit echoes the quick reply into the transcript and advances the flow.
func (m *ChatModel) submit(reply string) (tea.Model, tea.Cmd) {
	m.messages = append(m.messages, userMessage(reply))
	return m.apply(reply)
}

func (m *ChatModel) apply(reply string) (tea.Model, tea.Cmd) {
	turn, err := m.conv.Apply(reply)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidTransition) {
			m.messages = append(m.messages, botMessage("아래 버튼으로 대화를 이어가주세요!"))
			return m, nil
		}
		m.err = err
		return m, tea.Quit
	}

	m.pending = &turn
	m.typing = true
	m.replies = nil
	m.cursor = 0
	return m, tea.Tick(m.typingDelay, func(time.Time) tea.Msg { return typingDoneMsg{} })
}

func (m *ChatModel) finishTyping() (tea.Model, tea.Cmd) {
	m.typing = false
	if m.pending == nil {
		return m, nil
	}

	turn := *m.pending
	m.pending = nil
	m.messages = append(m.messages, botMessage(turn.Message))
	m.replies = turn.QuickReplies
	m.cursor = 0

	if turn.Recommend {
		m.recommend = true
		m.messages = append(m.messages, botMessage("잠시만요, 맞춤 영화를 찾고 있어요... 🔍"))
		return m, m.runRecommend()
	}
	return m, nil
}

func (m *ChatModel) runRecommend() tea.Cmd {
	req := recommend.Request{User: m.user, Filters: m.conv.Filters()}
	return func() tea.Msg {
		result, err := m.primary.Recommend(m.ctx, req)
		if err != nil && m.fallback != nil && !errors.Is(err, shared.ErrSessionExpired) {
			result, err = m.fallback.Recommend(m.ctx, req)
		}
		return recommendDoneMsg{result: result, err: err}
	}
}

func (m *ChatModel) finishRecommend(msg recommendDoneMsg) (tea.Model, tea.Cmd) {
	m.recommend = false
	if msg.err != nil {
		m.err = msg.err
		return m, tea.Quit
	}

	m.lastResult = msg.result
	turn := m.conv.Complete(msg.result.Movies())

	for i, pick := range msg.result.Picks {
		m.messages = append(m.messages, botMessage(fmt.Sprintf("%d. %s\n   %s", i+1, pick.Movie.Title, pick.Reason)))
	}
	m.messages = append(m.messages, botMessage(turn.Message))
	m.replies = turn.QuickReplies
	m.cursor = 0
	return m, nil
}

func (m *ChatModel) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("MovieSir 🎬"))
	b.WriteString("\n")

	for _, message := range m.transcript() {
		if message.fromUser {
			b.WriteString(styles.user.Render("나: ") + message.text + "\n")
		} else {
			b.WriteString(styles.bot.Render("무비서: ") + message.text + "\n")
		}
	}

	if m.typing || m.recommend {
		b.WriteString(styles.help.Render("무비서가 입력 중...") + "\n")
	}

	if m.inputMode {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(styles.help.Render("enter 전송 · esc 취소"))
		return b.String()
	}

	if len(m.replies) > 0 && !m.typing && !m.recommend {
		b.WriteString("\n")
		for i, reply := range m.replies {
			label := fmt.Sprintf("[ %s ]", reply)
			if i == m.cursor {
				label = styles.ok.Render(label)
			}
			b.WriteString(label + " ")
		}
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.input, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

// transcript trims the message log to what fits the terminal height.
func (m *ChatModel) transcript() []chatMessage {
	limit := m.height - 8
	if limit <= 0 || len(m.messages) <= limit {
		return m.messages
	}
	return m.messages[len(m.messages)-limit:]
}
