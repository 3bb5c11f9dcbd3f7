package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/moviesir/moviesir/internal/formatter"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/moviesir/moviesir/internal/tasks"
	"github.com/urfave/cli/v3"
)

// enrichHistory runs the profile engine with progress echoed to the terminal.
func (r *Runner) enrichHistory(ctx context.Context, userID int64) (*tasks.HistoryResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchHistory:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchMovies:
				r.writePlain("   %s\n", update.Message)
			case tasks.ComputeStats:
				r.writePlain("📊 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.EnrichHistory(ctx, progressCh, userID, tasks.EnrichOpts{
		RateLimit: r.config.API.RateLimit,
	})
	close(progressCh)
	return result, err
}

// HistoryList shows the watch history joined with movie details.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	result, err := r.enrichHistory(ctx, user.ID)
	if err != nil {
		return err
	}

	if dir := cmd.String("export"); dir != "" {
		files, err := formatter.WriteHistoryExport(result, dir)
		if err != nil {
			return err
		}
		for _, file := range files {
			r.logger.Info("history exported", "file", file)
		}
	}

	switch cmd.String("format") {
	case "json":
		return r.writeJSON(result, true)
	case "markdown":
		return r.writePlain("%s", formatter.HistoryToMarkdown(result))
	default:
		if len(result.Entries) == 0 {
			return r.writePlainln("시청 기록이 없어요.")
		}
		for i, entry := range result.Entries {
			r.writePlain("%d. %s (%d) - ★%.1f - %s\n",
				i+1, entry.Movie.Title, entry.Movie.Year, entry.Rating,
				entry.WatchedAt.Format("2006-01-02"))
		}
		for _, failed := range result.Errors {
			r.writePlain("   ✗ movie %d: %v\n", failed.MovieID, failed.Err)
		}
		return nil
	}
}

// HistoryAdd records a watched movie.
func (r *Runner) HistoryAdd(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	movieID, err := strconv.ParseInt(cmd.StringArg("movie-id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: movie id must be a number", shared.ErrInvalidArgument)
	}

	rating := cmd.Float("rating")
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", shared.ErrInvalidArgument)
	}

	entry, err := r.movies.AddWatchHistory(ctx, user.ID, movieID, rating)
	if err != nil {
		return err
	}

	r.logger.Info("watch history recorded", "movie_id", entry.MovieID, "rating", entry.Rating)
	return r.writePlainln("✓ 시청 기록을 저장했어요.")
}

// HistoryStats shows aggregate viewing statistics.
func (r *Runner) HistoryStats(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	result, err := r.enrichHistory(ctx, user.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := formatter.StatsToJSON(result.Stats)
		if err != nil {
			return err
		}
		return r.writePlainln("%s", data)
	}

	stats := result.Stats
	r.writePlain("본 영화: %d편\n", stats.TotalWatched)
	if stats.TotalWatched > 0 {
		r.writePlain("평균 평점: ★%.1f\n", stats.AverageRating)
	}
	if stats.FavoriteGenre != "" {
		r.writePlain("최애 장르: %s\n", stats.FavoriteGenre)
	}
	genres := make([]string, 0, len(stats.WatchedByGenre))
	for genre := range stats.WatchedByGenre {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	for _, genre := range genres {
		r.writePlain("  %s: %d편\n", genre, stats.WatchedByGenre[genre])
	}
	return nil
}
