package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsieve/internal/filter"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)
	snap := m.snapshot

	parts := []string{bg.Render("logsieve", styles.Logo)}

	// Records shown / loaded
	count := fmt.Sprintf("%d", len(snap.Records))
	if !snap.Filter.IsEmpty() {
		count = fmt.Sprintf("%d/%d", len(snap.RecordsFiltered), len(snap.Records))
	}
	parts = append(parts,
		bg.Render("Records:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))

	// Active filter
	if snap.Filter.IsEmpty() {
		parts = append(parts, bg.Render("No filter", styles.FaintText))
	} else {
		limit := 48
		if compact {
			limit = 20
		}
		parts = append(parts,
			bg.Render("Filter:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(filter.Stringify(snap.Filter, false), limit), styles.AccentText))
	}

	// Level counts for the visible records
	if !compact {
		for _, level := range filter.AllLevels {
			n := countLevel(snap.RecordsFiltered, level)
			if n == 0 || level == filter.LevelInformation {
				continue
			}
			parts = append(parts,
				bg.Render(level+":", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", n), styles.LevelStyle(level)))
		}
	}

	// Load health
	if warning := m.formatLoadWarning(compact, styles, bg); warning != "" {
		parts = append(parts, warning)
	} else if !snap.LastLoaded.IsZero() && !compact {
		parts = append(parts, bg.Render(snap.LastLoaded.Format("15:04:05"), styles.FaintText))
	}

	// Transient status message
	if m.status != "" {
		style := styles.InfoText
		if m.statusErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.status, 60), style))
	}

	return bg.Join(parts, sep)
}

// formatLoadWarning reports the last load error, stronger when records are stale.
func (m Model) formatLoadWarning(compact bool, styles Styles, bg BgStyle) string {
	snap := m.snapshot
	if snap.LastError == nil {
		if len(snap.Paths) == 0 && !snap.LastLoaded.IsZero() {
			return bg.Render("No event files match", styles.WarningText)
		}
		return ""
	}
	msg := classifyLoadError(snap.LastError)
	if compact {
		msg = "LOAD " + msg
	} else {
		msg = "Load failed: " + msg
	}
	if snap.IsStale() {
		return bg.Render(msg+" (stale)", styles.DangerText)
	}
	return bg.Render(msg, styles.WarningText)
}

func classifyLoadError(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "PERMISSION DENIED"
	case errors.Is(err, fs.ErrNotExist):
		return "MISSING FILE"
	default:
		return truncate(err.Error(), 48)
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"f", "Filter"},
		{"r", "Recent"},
		{"n/N", "Next/Prev"},
		{"j/k", "Navigate"},
	}
	if !m.snapshot.Filter.IsEmpty() {
		commands = append(commands, cmd{"ctrl+r", "Reset"}, cmd{"y", "Copy"})
	}
	detail := "Details"
	if m.prefs.DetailOpen {
		commands = append(commands, cmd{"Tab", "Focus"})
		detail = "Hide"
	}
	commands = append(commands,
		cmd{"d", detail},
		cmd{"x", ternary(m.prefs.ShowXML, "No XML", "XML")},
		cmd{"?", "More"},
	)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
