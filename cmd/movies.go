package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/moviesir/moviesir/internal/formatter"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/recommend"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/urfave/cli/v3"
)

// MoviesList prints the movie catalog in the requested format.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.movies.Movies(ctx)
	if err != nil {
		return err
	}

	if base := cmd.String("save"); base != "" {
		file, err := formatter.WriteMoviesCSV(movies, base)
		if err != nil {
			return err
		}
		r.logger.Info("catalog exported", "file", file)
	}

	switch cmd.String("format") {
	case "json":
		return r.writeJSON(movies, true)
	case "csv":
		data, err := formatter.MoviesToCSV(movies)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "markdown":
		return r.writePlain("%s", formatter.MoviesToMarkdown("영화 목록", movies))
	default:
		return r.writePlain("%s", formatter.MoviesToText(movies))
	}
}

// MoviesShow prints a single movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := strconv.ParseInt(cmd.StringArg("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: movie id must be a number", shared.ErrInvalidArgument)
	}

	movie, err := r.movies.Movie(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	r.writePlain("%s (%d)\n", movie.Title, movie.Year)
	if len(movie.Genres) > 0 {
		r.writePlain("장르: %v\n", movie.Genres)
	}
	if movie.RuntimeMinutes > 0 {
		r.writePlain("러닝타임: %s\n", shared.FormatRuntime(movie.RuntimeMinutes))
	}
	if movie.Rating > 0 {
		r.writePlain("평점: %.1f\n", movie.Rating)
	}
	if movie.Description != "" {
		r.writePlainln("%s", movie.Description)
	}
	return nil
}

// Recommend runs a one-shot recommendation from the command line.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	filters := r.buildFilters(int(cmd.Int("runtime")), cmd.StringSlice("genre"))
	req := recommend.Request{User: user, Filters: filters}

	var strategy recommend.Strategy
	if cmd.Bool("local") {
		strategy = recommend.NewFallbackStrategy(r.movies, r.users, r.logger)
	} else {
		strategy = recommend.NewBackendStrategy(r.movies)
	}

	result, err := strategy.Recommend(ctx, req)
	if err != nil && !cmd.Bool("local") && !errors.Is(err, shared.ErrSessionExpired) {
		// The backend recommender being down is not fatal: rank locally.
		r.logger.Warn("backend recommender unavailable, ranking locally", "error", err)
		result, err = recommend.NewFallbackStrategy(r.movies, r.users, r.logger).Recommend(ctx, req)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.writePlain("%s", formatter.PicksToText(result))
}

func (r *Runner) buildFilters(runtime int, genres []string) models.RecommendationFilters {
	filters := models.NewRecommendationFilters()
	if runtime > 0 {
		filters.RuntimeMinutes = runtime
	}
	filters.SetGenres(genres)
	return filters
}
