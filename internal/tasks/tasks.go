// package tasks implements long-running, multi-request operations over the
// MovieSir backend.
//
// The core abstraction is ProfileEngine, which joins a user's flat history
// and recommendation records with their movie data and derives viewing
// statistics. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
	"golang.org/x/time/rate"
)

// MovieSource is the slice of the movie service the engine depends on.
type MovieSource interface {
	Movie(ctx context.Context, id int64) (*models.Movie, error)
	WatchHistory(ctx context.Context, userID int64) ([]models.WatchHistoryEntry, error)
	Recommendations(ctx context.Context, userID int64) ([]models.Recommendation, error)
}

// EnrichOpts contains configuration for enrichment runs.
type EnrichOpts struct {
	NumWorkers int     // Concurrent movie fetches (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

func (o *EnrichOpts) normalize() {
	if o.NumWorkers <= 0 {
		o.NumWorkers = 5
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
}

// EntryError records a history entry whose movie fetch failed.
type EntryError struct {
	MovieID int64
	Err     error
}

// HistoryResult is an enriched watch history: entries joined with their
// movies, newest first, plus the stats derived from them. Entries whose
// movie could not be fetched land in Errors instead of Entries.
type HistoryResult struct {
	Entries []models.WatchHistoryWithMovie
	Stats   models.UserStats
	Errors  []EntryError
}

// RecommendationsResult is the recommendation log joined with movie data,
// newest first.
type RecommendationsResult struct {
	Entries []models.RecommendationWithMovie
	Errors  []EntryError
}

// ProfileEngine runs the join-heavy profile operations.
type ProfileEngine struct {
	source MovieSource
}

// NewProfileEngine creates a ProfileEngine over the given source.
func NewProfileEngine(source MovieSource) *ProfileEngine {
	return &ProfileEngine{source: source}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ProfileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// EnrichHistory fetches the user's watch history and joins each entry with
// its movie record using a rate-limited worker pool. Individual fetch
// failures degrade that entry into Errors; only the history fetch itself
// failing fails the whole run.
func (e *ProfileEngine) EnrichHistory(ctx context.Context, progress chan<- ProgressUpdate, userID int64, opts EnrichOpts) (*HistoryResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}
	opts.normalize()

	e.sendProgress(progress, fetchHistoryUpdate(1, 1))
	history, err := e.source.WatchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	movies, errs := e.fetchMovies(ctx, progress, movieIDs(history), opts)

	result := &HistoryResult{Errors: errs}
	for _, entry := range history {
		if movie, ok := movies[entry.MovieID]; ok {
			result.Entries = append(result.Entries, models.WatchHistoryWithMovie{WatchHistoryEntry: entry, Movie: movie})
		}
	}
	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].WatchedAt.After(result.Entries[j].WatchedAt)
	})

	e.sendProgress(progress, computeStatsUpdate(1, 1))
	result.Stats = Stats(result.Entries)
	return result, nil
}

// EnrichRecommendations joins the user's recommendation log with movie data.
func (e *ProfileEngine) EnrichRecommendations(ctx context.Context, progress chan<- ProgressUpdate, userID int64, opts EnrichOpts) (*RecommendationsResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}
	opts.normalize()

	e.sendProgress(progress, fetchRecommendationsUpdate(1, 1))
	records, err := e.source.Recommendations(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		if !seen[r.MovieID] {
			seen[r.MovieID] = true
			ids = append(ids, r.MovieID)
		}
	}

	movies, errs := e.fetchMovies(ctx, progress, ids, opts)

	result := &RecommendationsResult{Errors: errs}
	for _, record := range records {
		if movie, ok := movies[record.MovieID]; ok {
			result.Entries = append(result.Entries, models.RecommendationWithMovie{Recommendation: record, Movie: movie})
		}
	}
	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].RecommendedAt.After(result.Entries[j].RecommendedAt)
	})

	return result, nil
}

type movieFetch struct {
	id    int64
	movie *models.Movie
	err   error
}

// fetchMovies resolves movie ids through a rate-limited worker pool.
func (e *ProfileEngine) fetchMovies(ctx context.Context, progress chan<- ProgressUpdate, ids []int64, opts EnrichOpts) (map[int64]models.Movie, []EntryError) {
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan int64, len(ids))
	results := make(chan movieFetch, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					results <- movieFetch{id: id, err: err}
					continue
				}
				movie, err := e.source.Movie(ctx, id)
				results <- movieFetch{id: id, movie: movie, err: err}
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	movies := make(map[int64]models.Movie, len(ids))
	var errs []EntryError
	step := 0
	for fetch := range results {
		step++
		if fetch.err != nil {
			errs = append(errs, EntryError{MovieID: fetch.id, Err: fetch.err})
			e.sendProgress(progress, fetchMovieFailedUpdate(step, len(ids), fetch.id, fetch.err))
			continue
		}
		movies[fetch.id] = *fetch.movie
		e.sendProgress(progress, fetchMovieUpdate(step, len(ids), fetch.movie.Title))
	}
	return movies, errs
}

func movieIDs(history []models.WatchHistoryEntry) []int64 {
	ids := make([]int64, 0, len(history))
	seen := make(map[int64]bool, len(history))
	for _, entry := range history {
		if !seen[entry.MovieID] {
			seen[entry.MovieID] = true
			ids = append(ids, entry.MovieID)
		}
	}
	return ids
}

// Stats derives viewing statistics from an enriched history.
func Stats(entries []models.WatchHistoryWithMovie) models.UserStats {
	stats := models.UserStats{
		TotalWatched:   len(entries),
		WatchedByGenre: make(map[string]int),
	}
	if len(entries) == 0 {
		return stats
	}

	var ratingSum float64
	for _, entry := range entries {
		ratingSum += entry.Rating
		for _, genre := range entry.Movie.Genres {
			stats.WatchedByGenre[genre]++
		}
	}
	stats.AverageRating = ratingSum / float64(len(entries))

	best := 0
	for genre, count := range stats.WatchedByGenre {
		if count > best || (count == best && genre < stats.FavoriteGenre) {
			best = count
			stats.FavoriteGenre = genre
		}
	}
	return stats
}
