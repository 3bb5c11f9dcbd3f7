// Wire shapes returned by the MovieSir backend and their normalization into
// the internal [models.Movie] form. The backend speaks three movie dialects;
// each converts here, tagged with its [models.MovieSource].
package services

import (
	"time"

	"github.com/moviesir/moviesir/internal/models"
)

// catalogMovie is the shape served by GET /movies and GET /movies/{id}.
type catalogMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Popularity  float64  `json:"popularity"`
	Poster      string   `json:"poster"`
	Description string   `json:"description"`
}

func (m catalogMovie) normalize() models.Movie {
	return models.Movie{
		Source:      models.SourceCatalog,
		ID:          m.ID,
		Title:       m.Title,
		Genres:      m.Genres,
		Year:        m.Year,
		Rating:      m.Rating,
		Popularity:  m.Popularity,
		Poster:      m.Poster,
		Description: m.Description,
	}
}

// recommendedMovie is the shape served by POST /chatbot/recommend.
type recommendedMovie struct {
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	Runtime     int      `json:"runtime"`
	Genres      []string `json:"genres"`
	PosterURL   string   `json:"poster_url"`
	VoteAverage float64  `json:"vote_average"`
	Overview    string   `json:"overview"`
}

func (m recommendedMovie) normalize() models.Movie {
	return models.Movie{
		Source:         models.SourceRecommend,
		ID:             m.MovieID,
		Title:          m.Title,
		Genres:         m.Genres,
		RuntimeMinutes: m.Runtime,
		Rating:         m.VoteAverage,
		Poster:         m.PosterURL,
		Description:    m.Overview,
	}
}

// onboardingMovie is the deck card shape served by GET /movies/onboarding.
type onboardingMovie struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	PosterURL  string   `json:"posterUrl"`
	Popularity float64  `json:"popularity"`
}

func (m onboardingMovie) normalize() models.Movie {
	return models.Movie{
		Source:     models.SourceOnboarding,
		ID:         m.ID,
		Title:      m.Title,
		Genres:     m.Genres,
		Poster:     m.PosterURL,
		Popularity: m.Popularity,
	}
}

// watchHistoryEntry is the wire shape of a watch history record.
type watchHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	MovieID   int64     `json:"movieId"`
	WatchedAt time.Time `json:"watchedAt"`
	Rating    float64   `json:"rating"`
}

func (e watchHistoryEntry) normalize() models.WatchHistoryEntry {
	return models.WatchHistoryEntry(e)
}

// recommendationRecord is the wire shape of a recommendation record.
type recommendationRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	MovieID       int64     `json:"movieId"`
	RecommendedAt time.Time `json:"recommendedAt"`
	Reason        string    `json:"reason"`
}

func (r recommendationRecord) normalize() models.Recommendation {
	return models.Recommendation(r)
}
