// Package onboarding drives the first-run flow: OTT platform selection, the
// movie swipe deck, and the taste profile derived from it. The profile is a
// fixed-width preference vector computed from swipe verdicts, where the most
// recent verdict for a genre always wins.
package onboarding

// VectorSize is the width of the preference vector.
const VectorSize = 10

// genreIndex maps the deck's genre labels to preference vector slots. Genres
// outside the map contribute nothing to the vector.
var genreIndex = map[string]int{
	"Action":      0,
	"Comedy":      1,
	"Drama":       2,
	"Sci-Fi":      3,
	"Horror":      4,
	"Romance":     5,
	"Thriller":    6,
	"Fantasy":     7,
	"Animation":   8,
	"Documentary": 9,
}

// GenreIndex returns the vector slot for a genre label.
func GenreIndex(genre string) (int, bool) {
	idx, ok := genreIndex[genre]
	return idx, ok
}

// SwipeEvent is one recorded verdict: a swipe on a card stamps one event per
// genre on that card.
type SwipeEvent struct {
	MovieID int64
	Genre   string
	Liked   bool
}

// slot returns the verdict's vector contribution.
func (e SwipeEvent) slot() float64 {
	if e.Liked {
		return 1
	}
	return -1
}

// ComputeVector replays the events in order into a fresh vector. Later
// events overwrite earlier ones for the same genre, so replaying the full
// history always matches the incrementally maintained vector.
func ComputeVector(events []SwipeEvent) []float64 {
	vector := make([]float64, VectorSize)
	for _, event := range events {
		if idx, ok := genreIndex[event.Genre]; ok {
			vector[idx] = event.slot()
		}
	}
	return vector
}

// Verdicts reduces the event history to the final per-genre verdicts,
// ordered by each genre's first appearance.
func Verdicts(events []SwipeEvent) (liked, disliked []string) {
	final := make(map[string]bool, len(events))
	var order []string
	for _, event := range events {
		if _, seen := final[event.Genre]; !seen {
			order = append(order, event.Genre)
		}
		final[event.Genre] = event.Liked
	}

	for _, genre := range order {
		if final[genre] {
			liked = append(liked, genre)
		} else {
			disliked = append(disliked, genre)
		}
	}
	return liked, disliked
}
