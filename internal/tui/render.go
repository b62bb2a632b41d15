// Package tui renders plan state in the terminal, both as one-shot summaries
// for CLI commands and as the live monitoring view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
	"github.com/KenLuoph/Gemini-Hackathon/internal/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	altStyle      = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusColors = map[plan.PlanStatus]lipgloss.Color{
		plan.StatusDraft:      "245",
		plan.StatusGenerating: "39",
		plan.StatusValidating: "39",
		plan.StatusVerified:   "42",
		plan.StatusActive:     "82",
		plan.StatusMonitoring: "82",
		plan.StatusCompleted:  "245",
		plan.StatusCancelled:  "196",
	}
)

func statusBadge(status plan.PlanStatus) string {
	color, ok := statusColors[status]
	if !ok {
		color = "245"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(strings.ToUpper(string(status)))
}

func severityStyle(sev plan.AlertSeverity) lipgloss.Style {
	switch sev {
	case plan.SeverityCritical:
		return criticalStyle
	case plan.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// RenderPlanSummary formats a plan as a readable card. Used by the one-shot
// CLI commands and by the live monitor view.
func RenderPlanSummary(p *plan.TripPlan) string {
	if p == nil {
		return labelStyle.Render("No plan.")
	}
	var b strings.Builder
	name := p.Name
	if name == "" {
		name = p.PlanID
	}
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(name), statusBadge(p.Status))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("plan"), p.PlanID)
	fmt.Fprintf(&b, "%s %.2f across %d activities\n\n",
		labelStyle.Render("budget"), p.TotalBudget(), p.ActivityCount())

	for _, item := range p.MainItinerary {
		fmt.Fprintln(&b, itemStyle.Render(formatActivity(item)))
	}
	if len(p.Alternatives) > 0 {
		fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("alternatives"))
		for _, item := range p.Alternatives {
			fmt.Fprintln(&b, altStyle.Render(formatActivity(item)))
		}
	}
	return b.String()
}

func formatActivity(item plan.ActivityItem) string {
	slot := item.TimeSlot
	if slot == "" {
		slot = "anytime"
	}
	line := fmt.Sprintf("%-14s %s (%.2f %s, %s)",
		slot, item.Name, item.Budget.Amount, item.Budget.Currency, item.Type)
	if item.Status != "" && item.Status != "pending" {
		line += " [" + item.Status + "]"
	}
	return line
}

// RenderValidation formats a verification result, listing violations and
// warnings when present.
func RenderValidation(v *plan.ValidationResult) string {
	if v == nil {
		return ""
	}
	var b strings.Builder
	if v.IsValid {
		fmt.Fprintf(&b, "%s score %.2f\n", infoStyle.Render("verified"), v.Score)
	} else {
		fmt.Fprintf(&b, "%s score %.2f\n", errorStyle.Render("rejected"), v.Score)
	}
	for _, violation := range v.Violations {
		fmt.Fprintf(&b, "%s %s\n", errorStyle.Render("violation:"), violation)
	}
	for _, warning := range v.Warnings {
		fmt.Fprintf(&b, "%s %s\n", warningStyle.Render("warning:"), warning)
	}
	return b.String()
}

// RenderAlerts formats the undismissed alerts, newest last.
func RenderAlerts(alerts []session.Alert) string {
	if len(alerts) == 0 {
		return labelStyle.Render("No active alerts.")
	}
	var b strings.Builder
	for _, a := range alerts {
		style := severityStyle(a.Severity)
		fmt.Fprintf(&b, "%s %s", style.Render(string(a.Severity)), a.Message)
		if a.Source != "" {
			fmt.Fprintf(&b, " %s", labelStyle.Render("("+a.Source+")"))
		}
		fmt.Fprintln(&b)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderReasoning renders the planner's reasoning markdown for the terminal.
// Falls back to the raw text when rendering fails.
func RenderReasoning(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return labelStyle.Render("No reasoning recorded for this plan.")
	}
	out, err := glamour.Render(markdown, "dark")
	if err != nil {
		return markdown
	}
	return out
}
