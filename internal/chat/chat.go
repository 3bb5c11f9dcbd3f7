// Package chat implements the recommendation chatbot's conversation flow as
// an explicit state machine. The flow walks greeting, genre selection, time
// selection and result; every input is validated against the current state,
// and the running filter selection feeds the recommend call the caller runs
// between [Conversation.Apply] and [Conversation.Complete].
package chat

import (
	"fmt"
	"strings"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

// State is a conversation phase.
type State int

const (
	StateGreeting State = iota
	StateGenre
	StateTime
	StateResult
)

func (s State) String() string {
	switch s {
	case StateGreeting:
		return "greeting"
	case StateGenre:
		return "genre"
	case StateTime:
		return "time"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// Quick replies that drive transitions.
const (
	ReplyRecommend = "영화 추천받기"
	ReplyGenreDone = "선택 완료"
	ReplyRetry     = "다시 추천받기"
	ReplyStartOver = "처음으로"
)

// Genres offered during genre selection, in display order.
var Genres = []string{
	"액션", "SF", "드라마", "로맨스", "애니메이션", "공포",
	"스릴러", "모험", "범죄", "판타지", "가족", "코미디",
}

// TimeOption is one selectable runtime ceiling.
type TimeOption struct {
	Label   string
	Minutes int
}

// TimeOptions offered during time selection, in display order.
var TimeOptions = []TimeOption{
	{Label: "1시간", Minutes: 60},
	{Label: "1시간 30분", Minutes: 90},
	{Label: "2시간", Minutes: 120},
	{Label: "2시간 30분", Minutes: 150},
	{Label: "3시간", Minutes: 180},
}

// Turn is the bot's side of one exchange: the message to show, the quick
// replies to offer, and whether the caller should now run the recommend call
// and report back through [Conversation.Complete].
type Turn struct {
	Message      string
	QuickReplies []string
	Recommend    bool
}

// Conversation holds one chatbot session's state. Not safe for concurrent
// use; a conversation belongs to one chat surface.
type Conversation struct {
	state   State
	genres  []string
	runtime int
}

// NewConversation starts a session in the greeting state.
func NewConversation() *Conversation {
	return &Conversation{runtime: models.DefaultRuntimeMinutes}
}

// State returns the current phase.
func (c *Conversation) State() State { return c.state }

// SelectedGenres returns the running genre selection.
func (c *Conversation) SelectedGenres() []string {
	return append([]string(nil), c.genres...)
}

// Filters materializes the conversation's selections for the recommend call.
func (c *Conversation) Filters() models.RecommendationFilters {
	filters := models.NewRecommendationFilters()
	filters.RuntimeMinutes = c.runtime
	filters.SetGenres(c.genres)
	return filters
}

// Greeting returns the opening turn without consuming any input.
func (c *Conversation) Greeting() Turn {
	return Turn{
		Message:      "안녕하세요! 🎬\n오늘은 어떤 영화를 보고 싶으세요?",
		QuickReplies: []string{ReplyRecommend},
	}
}

// Apply advances the conversation with one user reply. Inputs that do not
// belong to the current state return [shared.ErrInvalidTransition] and leave
// the state untouched.
func (c *Conversation) Apply(reply string) (Turn, error) {
	switch c.state {
	case StateGreeting:
		return c.applyGreeting(reply)
	case StateGenre:
		return c.applyGenre(reply)
	case StateTime:
		return c.applyTime(reply)
	case StateResult:
		return c.applyResult(reply)
	default:
		return Turn{}, fmt.Errorf("%w: state %s", shared.ErrInvalidTransition, c.state)
	}
}

func (c *Conversation) applyGreeting(reply string) (Turn, error) {
	if reply != ReplyRecommend {
		return Turn{}, fmt.Errorf("%w: %q in %s", shared.ErrInvalidTransition, reply, c.state)
	}

	c.reset()
	c.state = StateGenre
	return Turn{
		Message:      "어떤 장르를 좋아하세요? 😊\n최대 3개까지 선택 가능해요!",
		QuickReplies: genreReplies(),
	}, nil
}

func (c *Conversation) applyGenre(reply string) (Turn, error) {
	if reply == ReplyGenreDone {
		c.state = StateTime
		if len(c.genres) == 0 {
			return Turn{
				Message:      "장르를 선택하지 않으면 모든 장르에서 추천해드릴게요!\n시간이 얼마나 있으세요?",
				QuickReplies: timeReplies(),
			}, nil
		}
		return Turn{
			Message:      fmt.Sprintf("%s 장르로 선택하셨네요! 👍\n시간이 얼마나 있으세요?", strings.Join(c.genres, ", ")),
			QuickReplies: timeReplies(),
		}, nil
	}

	if !knownGenre(reply) {
		return Turn{}, fmt.Errorf("%w: %q in %s", shared.ErrInvalidTransition, reply, c.state)
	}

	if idx := indexOf(c.genres, reply); idx >= 0 {
		c.genres = append(c.genres[:idx], c.genres[idx+1:]...)
	} else if len(c.genres) >= models.MaxFilterGenres {
		return Turn{
			Message:      fmt.Sprintf("최대 %d개까지 선택 가능해요!\n현재 선택: %s", models.MaxFilterGenres, strings.Join(c.genres, ", ")),
			QuickReplies: genreReplies(),
		}, nil
	} else {
		c.genres = append(c.genres, reply)
	}

	if len(c.genres) == 0 {
		return Turn{Message: "장르를 선택해주세요!", QuickReplies: genreReplies()}, nil
	}
	return Turn{
		Message:      fmt.Sprintf("현재 선택: %s\n더 선택하거나 \"%s\"를 눌러주세요!", strings.Join(c.genres, ", "), ReplyGenreDone),
		QuickReplies: genreReplies(),
	}, nil
}

func (c *Conversation) applyTime(reply string) (Turn, error) {
	for _, option := range TimeOptions {
		if option.Label == reply {
			c.runtime = option.Minutes
			return Turn{
				Message:   fmt.Sprintf("%s 이하의 영화를 찾아볼게요!", option.Label),
				Recommend: true,
			}, nil
		}
	}
	return Turn{}, fmt.Errorf("%w: %q in %s", shared.ErrInvalidTransition, reply, c.state)
}

func (c *Conversation) applyResult(reply string) (Turn, error) {
	switch reply {
	case ReplyRetry:
		c.reset()
		c.state = StateGenre
		return Turn{
			Message:      "다시 추천해드릴게요! 😊\n어떤 장르를 좋아하세요?",
			QuickReplies: genreReplies(),
		}, nil
	case ReplyStartOver:
		c.reset()
		c.state = StateGreeting
		return Turn{
			Message:      "처음으로 돌아왔어요! 🎬\n영화 추천이 필요하시면 말씀해주세요!",
			QuickReplies: []string{ReplyRecommend},
		}, nil
	default:
		return Turn{}, fmt.Errorf("%w: %q in %s", shared.ErrInvalidTransition, reply, c.state)
	}
}

// Complete reports the recommend call's outcome, moving the conversation to
// the result state. An empty list is a normal outcome, not an error.
func (c *Conversation) Complete(movies []models.Movie) Turn {
	c.state = StateResult

	message := fmt.Sprintf("🎯 추천 영화 %d개를 찾았어요!", len(movies))
	if len(movies) == 0 {
		message = "조건에 맞는 영화를 찾지 못했어요 😢\n다른 조건으로 다시 시도해보세요!"
	}
	return Turn{
		Message:      message,
		QuickReplies: []string{ReplyRetry, ReplyStartOver},
	}
}

// MatchIntent maps free-form text to a quick reply by keyword. The second
// return is false when no intent matched.
func MatchIntent(text string) (string, bool) {
	switch {
	case strings.Contains(text, "추천") || strings.Contains(text, "영화"):
		return ReplyRecommend, true
	case strings.Contains(text, "처음") || strings.Contains(text, "다시"):
		return ReplyStartOver, true
	default:
		return "", false
	}
}

func genreReplies() []string {
	return append(append([]string(nil), Genres...), ReplyGenreDone)
}

func timeReplies() []string {
	replies := make([]string, len(TimeOptions))
	for i, option := range TimeOptions {
		replies[i] = option.Label
	}
	return replies
}

func knownGenre(name string) bool {
	return indexOf(Genres, name) >= 0
}

func indexOf(list []string, target string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}

func (c *Conversation) reset() {
	c.genres = nil
	c.runtime = models.DefaultRuntimeMinutes
}
