package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

// bucketSize caps each ranking bucket.
const bucketSize = 3

// CatalogSource is the slice of the movie service the fallback needs.
type CatalogSource interface {
	Movies(ctx context.Context) ([]models.Movie, error)
	WatchHistory(ctx context.Context, userID int64) ([]models.WatchHistoryEntry, error)
}

// ProfileSource resolves the user's current profile. The stored session may
// lag behind, so the fallback always fetches fresh favorite genres.
type ProfileSource interface {
	User(ctx context.Context, id int64) (*models.User, error)
}

// FallbackStrategy ranks the raw catalog locally when the backend
// recommender cannot serve. It fetches the catalog, the user's watch history
// and the user's profile concurrently and ranks what remains; any of the
// three fetches failing fails the whole strategy, never a partial result.
type FallbackStrategy struct {
	source   CatalogSource
	profiles ProfileSource
	logger   *log.Logger
}

// NewFallbackStrategy creates a FallbackStrategy over the given sources.
func NewFallbackStrategy(source CatalogSource, profiles ProfileSource, logger *log.Logger) *FallbackStrategy {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FallbackStrategy{source: source, profiles: profiles, logger: logger}
}

func (s *FallbackStrategy) Name() string { return "fallback" }

func (s *FallbackStrategy) Recommend(ctx context.Context, req Request) (*Result, error) {
	if req.User == nil {
		return nil, fmt.Errorf("%w: no signed-in user", shared.ErrRecommendFailed)
	}

	var (
		wg         sync.WaitGroup
		inventory  []models.Movie
		history    []models.WatchHistoryEntry
		user       *models.User
		invErr     error
		historyErr error
		userErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		inventory, invErr = s.source.Movies(ctx)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = s.source.WatchHistory(ctx, req.User.ID)
	}()
	go func() {
		defer wg.Done()
		user, userErr = s.profiles.User(ctx, req.User.ID)
	}()
	wg.Wait()

	if invErr != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRecommendFailed, invErr)
	}
	if historyErr != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRecommendFailed, historyErr)
	}
	if userErr != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRecommendFailed, userErr)
	}

	result := Rank(inventory, history, user.Profile.FavoriteGenres)
	s.logger.Debug("fallback ranking complete", "inventory", len(inventory), "watched", len(history), "picks", len(result.Picks))
	return &result, nil
}

// Rank orders the not-yet-watched slice of the inventory into two disjoint
// buckets: up to three taste picks (favorite-genre matches by rating,
// backfilled with top-rated titles when matches run short) followed by up to
// three popularity picks from whatever remains. A movie appears at most once
// across both buckets.
func Rank(inventory []models.Movie, history []models.WatchHistoryEntry, favoriteGenres []string) Result {
	watched := make(map[int64]bool, len(history))
	for _, entry := range history {
		watched[entry.MovieID] = true
	}

	unwatched := make([]models.Movie, 0, len(inventory))
	for _, movie := range inventory {
		if !watched[movie.ID] {
			unwatched = append(unwatched, movie)
		}
	}

	result := Result{Strategy: "fallback"}
	picked := make(map[int64]bool, 2*bucketSize)

	// Stable sorts keep ties in catalog order.
	byRating := append([]models.Movie(nil), unwatched...)
	sort.SliceStable(byRating, func(i, j int) bool {
		return byRating[i].Rating > byRating[j].Rating
	})

	for _, movie := range byRating {
		if len(result.Picks) >= bucketSize {
			break
		}
		if movie.HasAnyGenre(favoriteGenres) {
			result.Picks = append(result.Picks, Pick{Movie: movie, Reason: ReasonGenreMatch})
			picked[movie.ID] = true
		}
	}

	// Backfill when genre matches run short.
	for _, movie := range byRating {
		if len(result.Picks) >= bucketSize {
			break
		}
		if !picked[movie.ID] {
			result.Picks = append(result.Picks, Pick{Movie: movie, Reason: ReasonTopRated})
			picked[movie.ID] = true
		}
	}

	byPopularity := append([]models.Movie(nil), unwatched...)
	sort.SliceStable(byPopularity, func(i, j int) bool {
		return byPopularity[i].Popularity > byPopularity[j].Popularity
	})

	popular := 0
	for _, movie := range byPopularity {
		if popular >= bucketSize {
			break
		}
		if !picked[movie.ID] {
			result.Picks = append(result.Picks, Pick{Movie: movie, Reason: ReasonPopular})
			picked[movie.ID] = true
			popular++
		}
	}

	return result
}
