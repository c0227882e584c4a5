package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

var (
	brandRed = lipgloss.Color("#dc2626")
	okGreen  = lipgloss.Color("#a3e635")
	muted    = lipgloss.Color("#9ca3af")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(brandRed)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandRed).
			Padding(0, 2).
			MarginRight(1)
	cardLabelStyle = lipgloss.NewStyle().Foreground(muted)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
	okStyle        = lipgloss.NewStyle().Foreground(okGreen)
	failStyle      = lipgloss.NewStyle().Foreground(brandRed)
	slotStyle      = lipgloss.NewStyle().Width(24)
)

func renderSnapshot(title string, snap pageload.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if snap.KPIs != nil {
		cards := []string{
			kpiCard(ui.TitleTotalRevenue, snap.KPIs.TotalRevenue.String()),
			kpiCard(ui.TitleTotalEmployees, snap.KPIs.TotalEmployees.String()),
			kpiCard(ui.TitleSafetyScore, snap.KPIs.AvgSafetyScore.String()),
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n\n")
	}
	if snap.Security != nil && snap.Security.Headline != "" {
		b.WriteString(cardValueStyle.Render(snap.Security.Headline))
		b.WriteString("\n\n")
	}

	for _, slot := range feed.Slots {
		b.WriteString(slotStyle.Render(string(slot)))
		if reason, failed := snap.Failures[slot]; failed {
			b.WriteString(failStyle.Render("failed: " + reason))
		} else {
			b.WriteString(okStyle.Render(slotSummary(slot, snap)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func kpiCard(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func slotSummary(slot feed.Slot, snap pageload.Snapshot) string {
	switch slot {
	case feed.SlotKPIs:
		if snap.KPIs == nil {
			return "empty"
		}
		return "ok"
	case feed.SlotRevenue:
		return fmt.Sprintf("%d periods", len(snap.Revenue))
	case feed.SlotDivisions:
		return fmt.Sprintf("%d divisions", len(snap.Divisions))
	case feed.SlotDistribution:
		return fmt.Sprintf("%d segments", len(snap.Distribution))
	case feed.SlotSecurity:
		if snap.Security == nil {
			return "empty"
		}
		return fmt.Sprintf("%d months", len(snap.Security.ChartData))
	}
	return ""
}
