package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatsDefaults(t *testing.T) {
	assert.Equal(t, DefaultStats(), NormalizeStats(nil))

	s := NormalizeStats(map[string]any{
		"totalSitesAnalyzed": "not a number either",
		"averageEcoScore":    nil,
	})
	assert.Zero(t, s.TotalSitesAnalyzed)
	assert.Zero(t, s.AverageEcoScore)
	assert.Nil(t, s.TotalScoreSum)
	assert.True(t, s.LastActive.IsZero())
}

func TestNormalizeStatsFields(t *testing.T) {
	s := NormalizeStats(map[string]any{
		"totalSitesAnalyzed": 12.0,
		"averageEcoScore":    64.5,
		"highScoreSites":     4.0,
		"totalScoreSum":      774.0,
		"lastActive":         "2025-03-01T10:00:00Z",
		"createdAt":          map[string]any{"seconds": 1700000000.0, "nanoseconds": 0.0},
	})
	assert.Equal(t, 12, s.TotalSitesAnalyzed)
	assert.Equal(t, 64.5, s.AverageEcoScore)
	assert.Equal(t, 4, s.HighScoreSites)
	require.NotNil(t, s.TotalScoreSum)
	assert.Equal(t, 774.0, *s.TotalScoreSum)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), s.LastActive)
	assert.Equal(t, int64(1700000000), s.CreatedAt.Unix())
}

func TestNormalizeHistoryFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want HistoryEntry
	}{
		{
			name: "empty document",
			raw:  map[string]any{},
			want: HistoryEntry{ID: "acme.com", Domain: "acme.com", CompanyName: "acme.com", Grade: "N/A", Sources: []string{}},
		},
		{
			name: "company falls back to domain",
			raw:  map[string]any{"domain": "shop.acme.com", "score": 55.0, "grade": "B"},
			want: HistoryEntry{ID: "acme.com", Domain: "shop.acme.com", CompanyName: "shop.acme.com", Score: 55, Grade: "B", Sources: []string{}},
		},
		{
			name: "eco fields win",
			raw: map[string]any{
				"companyName": "Acme Corp",
				"ecoScore":    81.0,
				"score":       10.0,
				"ecoGrade":    "A",
				"grade":       "F",
				"summary":     "Strong renewables",
				"sources":     []any{"https://a.example", "https://b.example"},
			},
			want: HistoryEntry{
				ID: "acme.com", Domain: "acme.com", CompanyName: "Acme Corp", Score: 81, Grade: "A",
				Summary: "Strong renewables", Sources: []string{"https://a.example", "https://b.example"},
			},
		},
		{
			name: "sources must be strings",
			raw:  map[string]any{"sources": []any{"ok", 3.0}},
			want: HistoryEntry{ID: "acme.com", Domain: "acme.com", CompanyName: "acme.com", Grade: "N/A", Sources: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHistory("acme.com", tt.raw))
		})
	}
}

func TestNormalizeHistoryTimestampOrder(t *testing.T) {
	e := NormalizeHistory("x", map[string]any{
		"createdAt":  "2024-01-01T00:00:00Z",
		"analyzedAt": "2023-01-01T00:00:00Z",
	})
	assert.Equal(t, 2024, e.Timestamp.Year())

	e = NormalizeHistory("x", map[string]any{"analyzedAt": 1700000000000.0})
	assert.Equal(t, int64(1700000000), e.Timestamp.Unix())
}

func TestNormalizeHistoryBreakdown(t *testing.T) {
	e := NormalizeHistory("x", map[string]any{
		"breakdown": map[string]any{
			"environmental": map[string]any{"score": 70.0, "highlights": []any{"solar"}, "concerns": []any{}},
			"social":        map[string]any{"score": 50.0},
		},
	})
	require.NotNil(t, e.Breakdown)
	assert.Equal(t, 70.0, e.Breakdown.Environmental.Score)
	assert.Equal(t, []string{"solar"}, e.Breakdown.Environmental.Highlights)
	assert.Equal(t, 50.0, e.Breakdown.Social.Score)
	assert.Zero(t, e.Breakdown.Governance.Score)

	assert.Nil(t, NormalizeHistory("x", map[string]any{}).Breakdown)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 6, 1, 12, 0, 0, 500000000, time.UTC)
	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"rfc3339", "2024-06-01T12:00:00.5Z", true},
		{"firestore map", map[string]any{"seconds": float64(want.Unix()), "nanoseconds": 5e8}, true},
		{"export map", map[string]any{"_seconds": float64(want.Unix()), "_nanoseconds": 5e8}, true},
		{"epoch millis", float64(want.UnixMilli()), true},
		{"garbage string", "yesterday", false},
		{"map without seconds", map[string]any{"nanoseconds": 1.0}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestSortHistory(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	h := []HistoryEntry{
		{ID: "none-1"},
		{ID: "old", Timestamp: day(1)},
		{ID: "new", Timestamp: day(20)},
		{ID: "none-2"},
		{ID: "mid", Timestamp: day(10)},
	}
	SortHistory(h)

	ids := make([]string, len(h))
	for i, e := range h {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"new", "mid", "old", "none-1", "none-2"}, ids)
}

func TestLoadExport(t *testing.T) {
	doc := `{
		"stats": {"totalSitesAnalyzed": 3, "averageEcoScore": 61},
		"history": {
			"b.com": {"companyName": "Beta", "ecoScore": 35, "timestamp": "2024-02-01T00:00:00Z"},
			"a.com": {"companyName": "Alpha", "ecoScore": 88, "timestamp": {"seconds": 1709251200, "nanoseconds": 0}},
			"c.com": {"ecoScore": 55}
		}
	}`
	data, err := LoadExport(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 3, data.Stats.TotalSitesAnalyzed)
	require.Len(t, data.History, 3)
	assert.Equal(t, "Alpha", data.History[0].CompanyName)
	assert.Equal(t, "Beta", data.History[1].CompanyName)
	assert.Equal(t, "c.com", data.History[2].CompanyName)

	assert.Len(t, data.Recent(2).History, 2)
	assert.Len(t, data.Recent(0).History, 3)
}

func TestLoadExportNullStats(t *testing.T) {
	data, err := LoadExport(strings.NewReader(`{"stats": null}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultStats(), data.Stats)
	assert.Empty(t, data.History)
}

func TestLoadExportMalformed(t *testing.T) {
	for _, doc := range []string{
		`not json`,
		`[1, 2]`,
		`null`,
		`{"stats": 5}`,
		`{"history": []}`,
		`{"history": {"a.com": "oops"}}`,
	} {
		_, err := LoadExport(strings.NewReader(doc))
		assert.True(t, errors.Is(err, ErrMalformedExport), "doc %s: %v", doc, err)
	}
}

func TestScoreBandAndTally(t *testing.T) {
	assert.Equal(t, BandHigh, ScoreBand(70))
	assert.Equal(t, BandMedium, ScoreBand(69.9))
	assert.Equal(t, BandMedium, ScoreBand(40))
	assert.Equal(t, BandLow, ScoreBand(39))

	total, avg, high := Tally([]HistoryEntry{{Score: 90}, {Score: 71}, {Score: 20}})
	assert.Equal(t, 3, total)
	assert.Equal(t, 60, avg)
	assert.Equal(t, 2, high)

	total, avg, high = Tally(nil)
	assert.Zero(t, total+avg+high)
}

func TestRender(t *testing.T) {
	data := &Data{
		Stats: Stats{TotalSitesAnalyzed: 2, AverageEcoScore: 72},
		History: []HistoryEntry{
			{CompanyName: "Acme Corp", Score: 81, Grade: "A", Timestamp: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
			{CompanyName: "Globex", Score: 30, Grade: "D"},
		},
	}
	out := Render(data, 80)
	assert.Contains(t, out, "Sites analyzed")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "Mar 5, 2024")
	assert.Contains(t, out, "Globex")

	empty := Render(&Data{}, 80)
	assert.Contains(t, empty, "No analysis history yet")
}
