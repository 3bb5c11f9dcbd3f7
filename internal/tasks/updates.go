package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchHistory Phase = iota
	FetchRecommendations
	FetchMovies
	ComputeStats
)

func (p Phase) String() string {
	switch p {
	case FetchHistory:
		return "fetch_history"
	case FetchRecommendations:
		return "fetch_recommendations"
	case FetchMovies:
		return "fetch_movies"
	case ComputeStats:
		return "compute_stats"
	default:
		return ""
	}
}

func fetchHistoryUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    step,
		Total:   total,
		Message: "Fetching watch history...",
	}
}

func fetchRecommendationsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    step,
		Total:   total,
		Message: "Fetching recommendation log...",
	}
}

func fetchMovieUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, title),
	}
}

func fetchMovieFailedUpdate(step, total int, movieID int64, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ movie %d: %v", step, total, movieID, err),
	}
}

func computeStatsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ComputeStats,
		Step:    step,
		Total:   total,
		Message: "Computing viewing stats...",
	}
}
