package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KenLuoph/Gemini-Hackathon/internal/session"
)

// snapshotMsg carries a session notification into the bubbletea loop.
type snapshotMsg session.Snapshot

// Monitor is the live monitoring view. It observes a session and redraws on
// every state change pushed over the alert stream.
type Monitor struct {
	session *session.Session

	updates     chan session.Snapshot
	unsubscribe func()

	state         session.Snapshot
	spinner       spinner.Model
	showReasoning bool
	quitting      bool
}

// NewMonitor builds the monitoring view for a session. The model subscribes
// on construction; Update releases the subscription when the user quits.
func NewMonitor(sess *session.Session) *Monitor {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	m := &Monitor{
		session: sess,
		updates: make(chan session.Snapshot, 16),
		spinner: sp,
		state:   sess.Snapshot(),
	}
	m.unsubscribe = sess.Subscribe(func(snap session.Snapshot) {
		select {
		case m.updates <- snap:
		default:
			// A full buffer only costs intermediate frames. The next
			// mutation delivers a fresh snapshot.
		}
	})
	return m
}

func (m *Monitor) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Init implements tea.Model.
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

// Update implements tea.Model.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.unsubscribe()
			close(m.updates)
			return m, tea.Quit
		case "d":
			m.session.DismissAllAlerts()
			return m, nil
		case "r":
			m.showReasoning = !m.showReasoning
			return m, nil
		}
	case snapshotMsg:
		m.state = session.Snapshot(msg)
		return m, m.waitForUpdate()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Monitor) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.state.Loading {
		fmt.Fprintf(&b, "%s working...\n\n", m.spinner.View())
	}
	if m.state.ErrorMessage != "" {
		fmt.Fprintf(&b, "%s\n\n", errorStyle.Render(m.state.ErrorMessage))
	}

	b.WriteString(RenderPlanSummary(m.state.Plan))
	if v := RenderValidation(m.state.Validation); v != "" {
		b.WriteString("\n" + v)
	}

	b.WriteString("\n" + titleStyle.Render("Alerts") + "\n")
	b.WriteString(RenderAlerts(m.state.Alerts) + "\n")
	if m.state.HasCriticalAlert() {
		b.WriteString(criticalStyle.Render("Critical change detected. Review your itinerary.") + "\n")
	}

	if m.showReasoning && m.state.Plan != nil {
		b.WriteString("\n" + RenderReasoning(m.state.Plan.ReasoningPath))
	}

	b.WriteString("\n" + helpStyle.Render("d dismiss alerts · r reasoning · q quit") + "\n")
	return b.String()
}
