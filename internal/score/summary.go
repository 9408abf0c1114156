package score

import (
	"fmt"
	"time"
)

// Stats are per-session counters gathered by the engine.
type Stats struct {
	Kills    int
	Level    int
	Duration time.Duration // time spent playing, pauses excluded
}

// Summary is what the results view shows after a session ends.
type Summary struct {
	Score     int
	HighScore int // max(Score, previous high score)
	NewRecord bool
	Rating    string
	Stats     Stats
}

var ratings = []struct {
	min   int
	title string
}{
	{10000, "Legendary Pilot!"},
	{5000, "Ace Pilot!"},
	{2000, "Excellent Pilot!"},
	{1000, "Qualified Pilot"},
	{500, "Rookie Pilot"},
}

// Rating returns the title earned by a final score.
func Rating(score int) string {
	for _, r := range ratings {
		if score >= r.min {
			return r.title
		}
	}
	return "Keep Trying"
}

// Encouragement returns a one-line message for the results view.
func Encouragement(score int) string {
	switch {
	case score < 1000:
		return "Keep practicing and you will become a great pilot!"
	case score < 5000:
		return "Nice flying! Try for a higher score!"
	default:
		return "Amazing skills! You are a true ace!"
	}
}

// Summarize builds a Summary without touching any store.
func Summarize(final, previousHigh int, stats Stats) Summary {
	high := previousHigh
	if final > high {
		high = final
	}
	return Summary{
		Score:     final,
		HighScore: high,
		NewRecord: final > previousHigh,
		Rating:    Rating(final),
		Stats:     stats,
	}
}

// Record stores final if it beats the stored high score and returns the
// resulting summary. A failing read counts as no record; a failing write is
// returned alongside the (still valid) summary.
func Record(store Store, final int, stats Stats) (Summary, error) {
	prev, _, err := store.SaveIfHigher(final)
	sum := Summarize(final, prev, stats)
	if err != nil {
		return sum, fmt.Errorf("save high score: %w", err)
	}
	return sum, nil
}
