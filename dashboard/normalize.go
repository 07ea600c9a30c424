package dashboard

import (
	"sort"
	"strconv"
	"time"
)

// NormalizeStats converts a raw stats document. A nil document yields the
// defaults; every field missing or of the wrong type falls back to its default.
func NormalizeStats(raw map[string]any) Stats {
	s := DefaultStats()
	if raw == nil {
		return s
	}
	if v, ok := number(raw["totalSitesAnalyzed"]); ok {
		s.TotalSitesAnalyzed = int(v)
	}
	if v, ok := number(raw["averageEcoScore"]); ok {
		s.AverageEcoScore = v
	}
	if v, ok := number(raw["highScoreSites"]); ok {
		s.HighScoreSites = int(v)
	}
	if v, ok := number(raw["totalScoreSum"]); ok {
		s.TotalScoreSum = &v
	}
	if t, ok := ParseTimestamp(raw["lastActive"]); ok {
		s.LastActive = t
	}
	if t, ok := ParseTimestamp(raw["createdAt"]); ok {
		s.CreatedAt = t
	}
	return s
}

// NormalizeHistory converts one raw history document stored under id.
func NormalizeHistory(id string, raw map[string]any) HistoryEntry {
	e := HistoryEntry{ID: id}

	e.Domain = firstString(id, raw["domain"])
	e.CompanyName = firstString(id, raw["companyName"], raw["domain"])
	e.Grade = firstString("N/A", raw["ecoGrade"], raw["grade"])
	e.Summary = firstString("", raw["summary"])

	if v, ok := number(raw["ecoScore"]); ok {
		e.Score = v
	} else if v, ok := number(raw["score"]); ok {
		e.Score = v
	}

	for _, key := range []string{"timestamp", "createdAt", "analyzedAt"} {
		if t, ok := ParseTimestamp(raw[key]); ok {
			e.Timestamp = t
			break
		}
	}

	e.Sources = stringSlice(raw["sources"])
	if e.Sources == nil {
		e.Sources = []string{}
	}

	if b, ok := raw["breakdown"].(map[string]any); ok {
		e.Breakdown = &Breakdown{
			Environmental: category(b["environmental"]),
			Social:        category(b["social"]),
			Governance:    category(b["governance"]),
		}
	}
	return e
}

// SortHistory orders entries most recent first. Entries without a timestamp go
// last; ties keep their input order.
func SortHistory(history []HistoryEntry) {
	sort.SliceStable(history, func(i, j int) bool {
		a, b := history[i].Timestamp, history[j].Timestamp
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// ParseTimestamp accepts an RFC 3339 string, a {seconds, nanoseconds} map (with
// or without leading underscores) or epoch milliseconds.
func ParseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return ts.UTC(), true
	case float64:
		ms := int64(t)
		return time.UnixMilli(ms).UTC(), true
	case map[string]any:
		sec, ok := number(t["seconds"])
		if !ok {
			sec, ok = number(t["_seconds"])
		}
		if !ok {
			return time.Time{}, false
		}
		nsec, ok := number(t["nanoseconds"])
		if !ok {
			nsec, _ = number(t["_nanoseconds"])
		}
		return time.Unix(int64(sec), int64(nsec)).UTC(), true
	}
	return time.Time{}, false
}

// number reads a JSON number, or a string holding one.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// firstString returns the first candidate that is a string, or def.
func firstString(def string, candidates ...any) string {
	for _, c := range candidates {
		if s, ok := c.(string); ok {
			return s
		}
	}
	return def
}

// stringSlice returns v as []string when it is an array of strings, else nil.
func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

func category(v any) Category {
	m, ok := v.(map[string]any)
	if !ok {
		return Category{}
	}
	c := Category{
		Highlights: stringSlice(m["highlights"]),
		Concerns:   stringSlice(m["concerns"]),
	}
	c.Score, _ = number(m["score"])
	return c
}
