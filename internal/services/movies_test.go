package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

func newMovieFixture(t *testing.T, handler http.HandlerFunc) *MovieService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, nil, newMemorySessions("access-1", "refresh-1"), nil)
	return NewMovieService(client, nil)
}

func TestMovieCatalog(t *testing.T) {
	t.Run("normalizes catalog movies", func(t *testing.T) {
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "title": "인셉션", "genres": []string{"SF", "Thriller"}, "year": 2010, "rating": 8.8, "popularity": 91.2, "poster": "/inception.jpg"},
			})
		})

		movies, err := svc.Movies(context.Background())
		if err != nil {
			t.Fatalf("Movies failed: %v", err)
		}
		if len(movies) != 1 {
			t.Fatalf("got %d movies, want 1", len(movies))
		}
		if movies[0].Source != models.SourceCatalog {
			t.Errorf("source = %v, want catalog", movies[0].Source)
		}
		if movies[0].Title != "인셉션" || movies[0].Rating != 8.8 {
			t.Errorf("movie = %+v", movies[0])
		}
	})

	t.Run("missing movie maps to not found", func(t *testing.T) {
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.Movie(context.Background(), 999)
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Fatalf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("onboarding deck defaults to ten cards", func(t *testing.T) {
		var gotLimit string
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit")
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 3, "title": "토이 스토리", "genres": []string{"Animation"}, "posterUrl": "/toy.jpg", "popularity": 80.0},
			})
		})

		movies, err := svc.OnboardingMovies(context.Background(), 0)
		if err != nil {
			t.Fatalf("OnboardingMovies failed: %v", err)
		}
		if gotLimit != "10" {
			t.Errorf("limit = %q, want 10", gotLimit)
		}
		if movies[0].Source != models.SourceOnboarding || movies[0].Poster != "/toy.jpg" {
			t.Errorf("movie = %+v", movies[0])
		}
	})
}

func TestRecommend(t *testing.T) {
	t.Run("sends filters and normalizes results", func(t *testing.T) {
		var gotBody map[string]any
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{
				"recommendations": []map[string]any{
					{"movie_id": 11, "title": "매드 맥스", "runtime": 120, "genres": []string{"Action"}, "poster_url": "/mm.jpg", "vote_average": 8.1, "overview": "질주"},
				},
				"total":           1,
				"filters_applied": map[string]any{"runtime": 120, "genres": []int{1, 15}, "include_adult": false},
			})
		})

		filters := models.NewRecommendationFilters()
		filters.SetGenres([]string{"액션", "SF"})

		result, err := svc.Recommend(context.Background(), filters)
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}

		if gotBody["runtime"] != float64(120) {
			t.Errorf("runtime sent = %v, want 120", gotBody["runtime"])
		}
		genres, _ := gotBody["genres"].([]any)
		if len(genres) != 2 || genres[0] != float64(1) || genres[1] != float64(15) {
			t.Errorf("genres sent = %v, want [1 15]", gotBody["genres"])
		}
		if gotBody["include_adult"] != false {
			t.Errorf("include_adult sent = %v, want false", gotBody["include_adult"])
		}

		if result.Total != 1 || len(result.Movies) != 1 {
			t.Fatalf("result = %+v", result)
		}
		movie := result.Movies[0]
		if movie.Source != models.SourceRecommend || movie.ID != 11 || movie.RuntimeMinutes != 120 || movie.Rating != 8.1 {
			t.Errorf("movie = %+v", movie)
		}
		if result.FiltersApplied.RuntimeMinutes != 120 || len(result.FiltersApplied.GenreIDs) != 2 {
			t.Errorf("filtersApplied = %+v", result.FiltersApplied)
		}
	})

	t.Run("404 yields an empty result", func(t *testing.T) {
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "조건에 맞는 영화가 없습니다"})
		})

		result, err := svc.Recommend(context.Background(), models.NewRecommendationFilters())
		if err != nil {
			t.Fatalf("404 should not be an error: %v", err)
		}
		if len(result.Movies) != 0 || result.Total != 0 {
			t.Errorf("result = %+v, want empty", result)
		}
	})

	t.Run("server failure maps to recommend error", func(t *testing.T) {
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := svc.Recommend(context.Background(), models.NewRecommendationFilters())
		if !errors.Is(err, shared.ErrRecommendFailed) {
			t.Fatalf("expected ErrRecommendFailed, got %v", err)
		}
	})
}

func TestWatchHistory(t *testing.T) {
	t.Run("round trips history records", func(t *testing.T) {
		svc := newMovieFixture(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/watchHistory" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			switch r.Method {
			case http.MethodGet:
				if got := r.URL.Query().Get("userId"); got != "7" {
					t.Errorf("userId = %q, want 7", got)
				}
				json.NewEncoder(w).Encode([]map[string]any{
					{"id": 1, "userId": 7, "movieId": 11, "watchedAt": "2026-08-01T12:00:00Z", "rating": 4.5},
				})
			case http.MethodPost:
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				if body["userId"] != float64(7) {
					t.Errorf("userId sent = %v, want 7", body["userId"])
				}
				if watchedAt, _ := body["watchedAt"].(string); watchedAt == "" {
					t.Error("watchedAt missing from body")
				}
				json.NewEncoder(w).Encode(map[string]any{
					"id": 2, "userId": 7, "movieId": body["movieId"], "watchedAt": "2026-08-02T12:00:00Z", "rating": body["rating"],
				})
			}
		})

		entries, err := svc.WatchHistory(context.Background(), 7)
		if err != nil {
			t.Fatalf("WatchHistory failed: %v", err)
		}
		if len(entries) != 1 || entries[0].MovieID != 11 || entries[0].Rating != 4.5 {
			t.Errorf("entries = %+v", entries)
		}

		entry, err := svc.AddWatchHistory(context.Background(), 7, 23, 5.0)
		if err != nil {
			t.Fatalf("AddWatchHistory failed: %v", err)
		}
		if entry.ID != 2 || entry.MovieID != 23 || entry.Rating != 5.0 {
			t.Errorf("entry = %+v", entry)
		}
	})
}
