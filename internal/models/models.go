package models

import (
	"time"

	"golang.org/x/oauth2"
)

// Profile holds a user's stated preferences.
type Profile struct {
	FavoriteGenres []string `json:"favoriteGenres"`
	OTTServices    []string `json:"ottServices"`
}

// User represents a MovieSir account as returned by the backend.
type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"createdAt"`
	Profile   Profile `json:"profile"`
}

// Session is the client-held authentication state: the bearer token pair and
// the signed-in user. It is created on login or signup confirmation, has its
// access token replaced in place on refresh, and is destroyed on logout or an
// unrecoverable refresh failure. Ownership belongs to the session store.
type Session struct {
	Token oauth2.Token
	User  User
}

// AccessToken returns the current bearer credential, empty when absent.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	return s.Token.AccessToken
}

// RefreshToken returns the refresh credential, empty when absent.
func (s *Session) RefreshToken() string {
	if s == nil {
		return ""
	}
	return s.Token.RefreshToken
}

// WatchHistoryEntry is an append-only record of a watched movie.
type WatchHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	MovieID   int64     `json:"movieId"`
	WatchedAt time.Time `json:"watchedAt"`
	Rating    float64   `json:"rating"`
}

// WatchHistoryWithMovie joins a history entry with its movie record.
type WatchHistoryWithMovie struct {
	WatchHistoryEntry
	Movie Movie `json:"movie"`
}

// Recommendation is a recorded recommendation with the reason it was made.
type Recommendation struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	MovieID       int64     `json:"movieId"`
	RecommendedAt time.Time `json:"recommendedAt"`
	Reason        string    `json:"reason"`
}

// RecommendationWithMovie joins a recommendation with its movie record.
type RecommendationWithMovie struct {
	Recommendation
	Movie Movie `json:"movie"`
}

// Runtime bounds accepted by the chatbot recommend endpoint.
const (
	MinRuntimeMinutes = 30
	MaxRuntimeMinutes = 180

	// DefaultRuntimeMinutes is the filter state after a reset.
	DefaultRuntimeMinutes = 120

	// MaxFilterGenres caps simultaneous genre selections.
	MaxFilterGenres = 3
)

// RecommendationFilters is the transient chatbot filter state. It is owned by
// the active conversation and reset whenever the flow restarts.
type RecommendationFilters struct {
	RuntimeMinutes int   `json:"runtime"`
	GenreIDs       []int `json:"genres"`
	IncludeAdult   bool  `json:"include_adult"`
}

// NewRecommendationFilters returns filters in their reset state.
func NewRecommendationFilters() RecommendationFilters {
	return RecommendationFilters{RuntimeMinutes: DefaultRuntimeMinutes}
}

// Reset restores the filter defaults.
func (f *RecommendationFilters) Reset() {
	f.RuntimeMinutes = DefaultRuntimeMinutes
	f.GenreIDs = nil
	f.IncludeAdult = false
}

// SetGenres replaces the genre selection, resolving names to backend ids and
// keeping at most [MaxFilterGenres] entries. Unknown names are skipped.
func (f *RecommendationFilters) SetGenres(names []string) {
	f.GenreIDs = nil
	for _, name := range names {
		if len(f.GenreIDs) >= MaxFilterGenres {
			break
		}
		if id, ok := GenreID(name); ok {
			f.GenreIDs = append(f.GenreIDs, id)
		}
	}
}

// UserStats aggregates a user's watch history.
type UserStats struct {
	TotalWatched   int            `json:"totalWatched"`
	AverageRating  float64        `json:"averageRating"`
	FavoriteGenre  string         `json:"favoriteGenre"`
	WatchedByGenre map[string]int `json:"watchedByGenre"`
}
