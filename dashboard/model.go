// Package dashboard models the user dashboard records written by the browser
// extension and renders a terminal summary of them.
package dashboard

import "time"

// Stats is the per-user summary document.
type Stats struct {
	TotalSitesAnalyzed int
	AverageEcoScore    float64
	HighScoreSites     int
	TotalScoreSum      *float64
	LastActive         time.Time
	CreatedAt          time.Time
}

// DefaultStats returns the stats shown for a user with no data yet.
func DefaultStats() Stats {
	return Stats{}
}

// Category is one ESG pillar of a breakdown.
type Category struct {
	Score      float64
	Highlights []string
	Concerns   []string
}

// Breakdown is the optional ESG detail of an analysis.
type Breakdown struct {
	Environmental Category
	Social        Category
	Governance    Category
}

// HistoryEntry is one analyzed site. ID is the document id, normally the domain.
type HistoryEntry struct {
	ID          string
	Domain      string
	CompanyName string
	Score       float64
	Grade       string
	Summary     string
	Timestamp   time.Time // zero when the record carries none
	Sources     []string
	Breakdown   *Breakdown
}

// Data bundles stats and history, history most recent first.
type Data struct {
	Stats   Stats
	History []HistoryEntry
}

// Recent returns a copy of d holding at most n history entries. n <= 0 keeps all.
func (d *Data) Recent(n int) *Data {
	out := &Data{Stats: d.Stats, History: d.History}
	if n > 0 && len(out.History) > n {
		out.History = out.History[:n]
	}
	return out
}

// Band classifies a score for display.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// HighScoreThreshold is the score at which a site counts as high scoring.
const HighScoreThreshold = 70

// ScoreBand returns the display band of a score: high from 70, medium from 40.
func ScoreBand(score float64) Band {
	switch {
	case score >= HighScoreThreshold:
		return BandHigh
	case score >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// Tally recomputes summary counts from history: the number of sites, the mean
// score rounded to an integer, and the number of high scoring sites.
func Tally(history []HistoryEntry) (total, avg, high int) {
	if len(history) == 0 {
		return 0, 0, 0
	}
	var sum float64
	for _, h := range history {
		sum += h.Score
		if h.Score >= HighScoreThreshold {
			high++
		}
	}
	total = len(history)
	avg = int(sum/float64(total) + 0.5)
	return total, avg, high
}
