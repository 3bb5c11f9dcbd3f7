package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/recommend"
	"github.com/moviesir/moviesir/internal/tasks"
	tu "github.com/moviesir/moviesir/internal/testing"
)

func sampleMovies() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "인셉션", Genres: []string{"SF", "스릴러"}, Year: 2010, Rating: 8.8, Popularity: 91.2, RuntimeMinutes: 148},
		{ID: 2, Title: "토이 스토리", Genres: []string{"애니메이션"}, Year: 1995, Rating: 8.3, Popularity: 75.0},
	}
}

func TestMoviesToCSV(t *testing.T) {
	data, err := MoviesToCSV(sampleMovies())
	if err != nil {
		t.Fatalf("MoviesToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3", len(records))
	}
	if records[1][1] != "인셉션" || records[1][2] != "SF; 스릴러" {
		t.Errorf("row = %v", records[1])
	}
	if records[2][4] != "8.3" {
		t.Errorf("rating cell = %q", records[2][4])
	}
}

func TestMoviesToMarkdown(t *testing.T) {
	out := string(MoviesToMarkdown("추천 영화", sampleMovies()))

	if !strings.HasPrefix(out, "# 추천 영화\n") {
		t.Errorf("missing heading: %q", out)
	}
	if !strings.Contains(out, "1. 인셉션 (2010) - SF, 스릴러 [2시간 28분]") {
		t.Errorf("movie line wrong:\n%s", out)
	}
	if !strings.Contains(out, "**Movies**: 2") {
		t.Errorf("missing count:\n%s", out)
	}
}

func TestMoviesToText(t *testing.T) {
	out := string(MoviesToText(sampleMovies()))
	if !strings.Contains(out, "1. 인셉션 (★ 8.8)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestPicksToText(t *testing.T) {
	t.Run("renders picks with reasons", func(t *testing.T) {
		result := &recommend.Result{Picks: []recommend.Pick{
			{Movie: models.Movie{Title: "매드 맥스"}, Reason: recommend.ReasonGenreMatch},
		}}
		out := string(PicksToText(result))
		if !strings.Contains(out, "매드 맥스") || !strings.Contains(out, recommend.ReasonGenreMatch) {
			t.Errorf("output:\n%s", out)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		out := string(PicksToText(&recommend.Result{}))
		if !strings.Contains(out, "찾지 못했어요") {
			t.Errorf("output:\n%s", out)
		}
	})
}

func TestHistoryRendering(t *testing.T) {
	watched := time.Date(2026, 8, 15, 20, 0, 0, 0, time.UTC)
	result := &tasks.HistoryResult{
		Entries: []models.WatchHistoryWithMovie{
			{
				WatchHistoryEntry: models.WatchHistoryEntry{WatchedAt: watched, Rating: 4.5},
				Movie:             models.Movie{Title: "인셉션", Genres: []string{"SF"}},
			},
		},
		Stats: models.UserStats{TotalWatched: 1, AverageRating: 4.5, FavoriteGenre: "SF"},
	}

	t.Run("markdown includes stats and entries", func(t *testing.T) {
		out := string(HistoryToMarkdown(result))
		if !strings.Contains(out, "**Favorite genre**: SF") {
			t.Errorf("missing stats:\n%s", out)
		}
		if !strings.Contains(out, "2026-08-15 - 인셉션 (★ 4.5)") {
			t.Errorf("missing entry:\n%s", out)
		}
	})

	t.Run("csv round trips", func(t *testing.T) {
		data, err := HistoryToCSV(result.Entries)
		if err != nil {
			t.Fatalf("HistoryToCSV failed: %v", err)
		}
		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if records[1][0] != "2026-08-15" || records[1][1] != "인셉션" {
			t.Errorf("row = %v", records[1])
		}
	})
}

func TestWriteHistoryExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	result := &tasks.HistoryResult{Stats: models.UserStats{WatchedByGenre: map[string]int{}}}

	files, err := WriteHistoryExport(result, dir)
	if err != nil {
		t.Fatalf("WriteHistoryExport failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
	for _, f := range files {
		if !strings.HasPrefix(f, dir) {
			t.Errorf("file %s outside %s", f, dir)
		}
		tu.AssertFileExists(t, f)
	}
}
