package models

// MovieSource discriminates which backend surface a [Movie] was normalized
// from. The catalog, chatbot, and onboarding endpoints each return a different
// wire shape; all are converted to Movie at the API boundary and tagged here.
type MovieSource int

const (
	SourceCatalog MovieSource = iota
	SourceRecommend
	SourceOnboarding
)

func (s MovieSource) String() string {
	switch s {
	case SourceCatalog:
		return "catalog"
	case SourceRecommend:
		return "recommend"
	case SourceOnboarding:
		return "onboarding"
	default:
		return "unknown"
	}
}

// Movie is the single internal movie shape. Fields absent from a given wire
// variant are zero: a catalog movie has no runtime, an onboarding card has no
// rating or description. Instances are immutable once fetched.
type Movie struct {
	Source         MovieSource `json:"source"`
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Genres         []string    `json:"genres"`
	Year           int         `json:"year,omitempty"`
	Rating         float64     `json:"rating,omitempty"`
	Popularity     float64     `json:"popularity,omitempty"`
	RuntimeMinutes int         `json:"runtime,omitempty"`
	Poster         string      `json:"poster,omitempty"`
	Description    string      `json:"description,omitempty"`
}

// HasGenre reports whether the movie carries the named genre.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// HasAnyGenre reports whether the movie's genre set intersects the given list.
func (m Movie) HasAnyGenre(genres []string) bool {
	for _, g := range genres {
		if m.HasGenre(g) {
			return true
		}
	}
	return false
}
