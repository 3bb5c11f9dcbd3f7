// package formatter renders movie lists, watch history and recommendation
// picks to various formats (CSV, Markdown, plain text) for display and export.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/recommend"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/moviesir/moviesir/internal/tasks"
)

// MoviesToCSV converts a movie list to CSV with columns: ID, Title, Genres, Year, Rating, Popularity
func MoviesToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genres", "Year", "Rating", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			strconv.FormatInt(movie.ID, 10),
			movie.Title,
			strings.Join(movie.Genres, "; "),
			strconv.Itoa(movie.Year),
			strconv.FormatFloat(movie.Rating, 'f', 1, 64),
			strconv.FormatFloat(movie.Popularity, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MoviesToMarkdown converts a movie list to Markdown under the given heading
func MoviesToMarkdown(title string, movies []models.Movie) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	for i, movie := range movies {
		line := fmt.Sprintf("%d. %s", i+1, movie.Title)
		if movie.Year > 0 {
			line += fmt.Sprintf(" (%d)", movie.Year)
		}
		if len(movie.Genres) > 0 {
			line += fmt.Sprintf(" - %s", strings.Join(movie.Genres, ", "))
		}
		if movie.RuntimeMinutes > 0 {
			line += fmt.Sprintf(" [%s]", shared.FormatRuntime(movie.RuntimeMinutes))
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// MoviesToText converts a movie list to plain text
func MoviesToText(movies []models.Movie) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(movies)))
	for i, movie := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, movie.Title))
		if movie.Rating > 0 {
			buf.WriteString(fmt.Sprintf(" (★ %.1f)", movie.Rating))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// PicksToText renders recommendation picks with their reasons
func PicksToText(result *recommend.Result) []byte {
	var buf bytes.Buffer

	if len(result.Picks) == 0 {
		buf.WriteString("조건에 맞는 영화를 찾지 못했어요\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("추천 영화 %d개\n\n", len(result.Picks)))
	for i, pick := range result.Picks {
		buf.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, pick.Movie.Title, pick.Reason))
	}

	return buf.Bytes()
}

// HistoryToCSV converts enriched watch history to CSV
func HistoryToCSV(entries []models.WatchHistoryWithMovie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"WatchedAt", "Title", "Genres", "Rating"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.WatchedAt.Format("2006-01-02"),
			entry.Movie.Title,
			strings.Join(entry.Movie.Genres, "; "),
			strconv.FormatFloat(entry.Rating, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown renders an enriched history with its stats summary
func HistoryToMarkdown(result *tasks.HistoryResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("# 시청 기록\n\n")
	buf.WriteString(fmt.Sprintf("**Watched**: %d\n", result.Stats.TotalWatched))
	buf.WriteString(fmt.Sprintf("**Average rating**: %.1f\n", result.Stats.AverageRating))
	if result.Stats.FavoriteGenre != "" {
		buf.WriteString(fmt.Sprintf("**Favorite genre**: %s\n", result.Stats.FavoriteGenre))
	}
	buf.WriteString("\n")

	for i, entry := range result.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (★ %.1f)\n", i+1, entry.WatchedAt.Format("2006-01-02"), entry.Movie.Title, entry.Rating))
	}

	if len(result.Errors) > 0 {
		buf.WriteString(fmt.Sprintf("\n_%d entries could not be resolved_\n", len(result.Errors)))
	}

	return buf.Bytes()
}

// StatsToJSON generates a JSON representation of viewing stats
func StatsToJSON(stats models.UserStats) ([]byte, error) {
	return shared.MarshalJSON(stats, true)
}

// WriteMoviesCSV writes a movie list to {base}.csv, defaulting the base name.
func WriteMoviesCSV(movies []models.Movie, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "movies"
	}

	csvData, err := MoviesToCSV(movies)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	file := baseFilepath + ".csv"
	if err := os.WriteFile(file, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return file, nil
}

// WriteHistoryExport writes an enriched history to Markdown and CSV files in
// the given directory, returning the created paths.
func WriteHistoryExport(result *tasks.HistoryResult, outputDir string) ([]string, error) {
	if outputDir == "" {
		outputDir = "watch_history"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var files []string

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, HistoryToMarkdown(result), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	files = append(files, mdFile)

	csvData, err := HistoryToCSV(result.Entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}
	csvFile := fmt.Sprintf("%s/history.csv", outputDir)
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	files = append(files, csvFile)

	return files, nil
}
