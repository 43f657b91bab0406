package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsieve/internal/eventlog"
)

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

// updateDetailViewport resizes the detail viewport and refreshes its content
// for the focused record. Scroll position is kept while the same record stays
// focused.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	_, detailWidth := m.paneWidths()
	if detailWidth == 0 {
		return
	}
	m.detailViewport.Width = max(detailWidth-2, 0)
	m.detailViewport.Height = max(m.contentHeight()-2, 0)

	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}

	rec := m.snapshot.Focused
	if rec == nil {
		m.detailViewport.SetContent(lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Render("Select a record"))
		m.detailViewport.GotoTop()
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(*rec, m.detailViewport.Width, bgColor))
	if rec.RecordNumber != m.detailRecord {
		m.detailRecord = rec.RecordNumber
		m.detailViewport.GotoTop()
	}
}

// renderDetailContent renders the fields, description and optionally the XML
// of a record.
func (m Model) renderDetailContent(rec eventlog.Record, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	width = max(width-2, 10)

	field := func(label, value string) string {
		return bg.Render(padRight(label, 10), styles.MutedText) + bg.Render(value, styles.Text)
	}

	when := "unknown"
	if !rec.Time.IsZero() {
		when = rec.Time.Local().Format("2006-01-02 15:04:05 MST")
	}

	lines := []string{
		bg.Render(rec.Level, styles.LevelBadge(rec.Level)) + bg.Space() +
			bg.Render(fmt.Sprintf("Event %d", rec.ID), styles.Text.Bold(true)),
		"",
		field("Record", fmt.Sprintf("%d", rec.RecordNumber)),
		field("Time", when),
		field("Source", rec.Source),
		field("Task", ternary(rec.Task == "", "None", rec.Task)),
		"",
		bg.Render("Description", styles.AccentText.Bold(true)),
	}

	wrap := lipgloss.NewStyle().Width(width)
	lines = append(lines, wrap.Inherit(styles.Text).Render(strings.TrimSpace(rec.Description)))

	if m.prefs.ShowXML {
		lines = append(lines, "", bg.Render("XML", styles.AccentText.Bold(true)))
		if rec.XML == "" {
			lines = append(lines, bg.Render("(none)", styles.FaintText))
		} else {
			lines = append(lines, wrap.Inherit(styles.FaintText).Render(rec.XML))
		}
	}

	return strings.Join(lines, "\n")
}
