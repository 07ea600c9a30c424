package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5D5FEF")).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5A7FF"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	bandStyles = map[Band]lipgloss.Style{
		BandHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		BandMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		BandLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// DateLayout is the display format for history timestamps.
const DateLayout = "Jan 2, 2006"

// Render draws the stats panel and the history table within width columns.
func Render(d *Data, width int) string {
	if width < 40 {
		width = 40
	}
	inner := width - 4

	var sb strings.Builder
	sb.WriteString(panelStyle.Width(inner).Render(renderStats(d.Stats)))
	sb.WriteString("\n")
	sb.WriteString(panelStyle.Width(inner).Render(renderHistory(d.History, inner-2)))
	sb.WriteString("\n")
	return sb.String()
}

func renderStats(s Stats) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	lines := []string{
		titleStyle.Render("EcoVeridian dashboard"),
		row("Sites analyzed", fmt.Sprintf("%d", s.TotalSitesAnalyzed)),
		row("Average score", fmt.Sprintf("%.0f", s.AverageEcoScore)),
		row("High scoring sites", fmt.Sprintf("%d", s.HighScoreSites)),
	}
	if !s.LastActive.IsZero() {
		lines = append(lines, row("Last active", s.LastActive.Format(DateLayout)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHistory(history []HistoryEntry, width int) string {
	if len(history) == 0 {
		return mutedStyle.Render("No analysis history yet. Install the browser extension to start tracking.")
	}

	const scoreW, gradeW, dateW = 7, 6, 14
	nameW := width - scoreW - gradeW - dateW
	if nameW < 10 {
		nameW = 10
	}

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(s)
	}

	lines := []string{
		titleStyle.Render("Recent analyses"),
		headerStyle.Render(cell("Site", nameW) + cell("Score", scoreW) + cell("Grade", gradeW) + cell("Date", dateW)),
	}
	for _, h := range history {
		date := "-"
		if !h.Timestamp.IsZero() {
			date = h.Timestamp.Format(DateLayout)
		}
		score := bandStyles[ScoreBand(h.Score)].Width(scoreW).Render(fmt.Sprintf("%.0f", h.Score))
		lines = append(lines, cell(truncate(h.CompanyName, nameW-1), nameW)+score+cell(h.Grade, gradeW)+cell(date, dateW))
	}

	total, avg, high := Tally(history)
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d shown, average %d, %d high scoring", total, avg, high)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
