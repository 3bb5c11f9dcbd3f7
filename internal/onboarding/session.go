package onboarding

import (
	"fmt"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/services"
	"github.com/moviesir/moviesir/internal/shared"
)

// Platforms lists the selectable OTT services, in display order.
var Platforms = []string{
	"netflix", "disney", "prime", "wavve", "tving", "watcha", "apple", "coupang",
}

func validPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Session is one run of the onboarding flow: the OTT selection, the swipe
// deck with its cursor, and the ordered swipe history the preference vector
// derives from. It is not safe for concurrent use; a session belongs to one
// flow at a time.
type Session struct {
	deck   []models.Movie
	cursor int
	ott    []string
	events []SwipeEvent
	vector []float64
}

// NewSession starts a fresh flow over the given swipe deck.
func NewSession(deck []models.Movie) *Session {
	return &Session{
		deck:   deck,
		vector: make([]float64, VectorSize),
	}
}

// ToggleOTT flips a platform's selection. Unknown platforms are rejected.
func (s *Session) ToggleOTT(platform string) error {
	if !validPlatform(platform) {
		return fmt.Errorf("%w: unknown platform %q", shared.ErrInvalidArgument, platform)
	}

	for i, p := range s.ott {
		if p == platform {
			s.ott = append(s.ott[:i], s.ott[i+1:]...)
			return nil
		}
	}
	s.ott = append(s.ott, platform)
	return nil
}

// OTT returns the selected platforms in selection order.
func (s *Session) OTT() []string {
	return append([]string(nil), s.ott...)
}

// Current returns the card under the cursor, or false when the deck is done.
func (s *Session) Current() (models.Movie, bool) {
	if s.cursor >= len(s.deck) {
		return models.Movie{}, false
	}
	return s.deck[s.cursor], true
}

// Progress reports how many cards have been swiped out of the deck total.
func (s *Session) Progress() (done, total int) {
	return s.cursor, len(s.deck)
}

// Done reports whether every card has been swiped.
func (s *Session) Done() bool {
	return s.cursor >= len(s.deck)
}

// Swipe records a verdict on the current card and advances the cursor. Each
// genre on the card gets an event, and the vector is updated in place so a
// later swipe on the same genre overwrites the earlier verdict.
func (s *Session) Swipe(liked bool) error {
	movie, ok := s.Current()
	if !ok {
		return fmt.Errorf("%w: swipe deck exhausted", shared.ErrInvalidTransition)
	}

	for _, genre := range movie.Genres {
		event := SwipeEvent{MovieID: movie.ID, Genre: genre, Liked: liked}
		s.events = append(s.events, event)
		if idx, ok := genreIndex[genre]; ok {
			s.vector[idx] = event.slot()
		}
	}

	s.cursor++
	return nil
}

// Events returns a copy of the ordered swipe history.
func (s *Session) Events() []SwipeEvent {
	return append([]SwipeEvent(nil), s.events...)
}

// Vector returns a copy of the current preference vector.
func (s *Session) Vector() []float64 {
	return append([]float64(nil), s.vector...)
}

// Recompute rebuilds the vector from the event history. The result always
// equals the incrementally maintained vector; it exists so a restored or
// repaired session can be brought back to a consistent state.
func (s *Session) Recompute() {
	s.vector = ComputeVector(s.events)
}

// Reset discards all state and restarts the flow over the same deck.
func (s *Session) Reset() {
	s.cursor = 0
	s.ott = nil
	s.events = nil
	s.vector = make([]float64, VectorSize)
}

// CompleteRequest assembles the backend submission for the given user.
func (s *Session) CompleteRequest(userID int64) services.CompleteRequest {
	liked, disliked := Verdicts(s.events)
	return services.CompleteRequest{
		UserID:           userID,
		OTT:              s.OTT(),
		LikedGenres:      liked,
		DislikedGenres:   disliked,
		PreferenceVector: s.Vector(),
	}
}
