package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsieve/internal/eventlog"
)

// renderRecords renders the records view with split layout (table + detail).
func (m Model) renderRecords() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	if len(m.snapshot.Records) == 0 {
		msg := "No event records loaded"
		if len(m.patterns) > 0 {
			msg += " from " + truncateMiddle(strings.Join(m.patterns, ", "), max(m.width-30, 20))
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg))
	}

	tableWidth, detailWidth := m.paneWidths()

	// === Table Pane ===
	tableFocused := m.focusedPane == 0
	tableBg := m.theme.SurfaceAlt
	if tableFocused {
		tableBg = m.theme.FocusBg
	}
	tableContent := m.renderRecordsTable(tableWidth-2, tableBg) // -2 for borders
	tablePane := m.renderTitledBox(m.recordsTitle(), tableContent, tableWidth, contentHeight, tableFocused)

	if detailWidth == 0 {
		return tablePane
	}

	// === Detail Pane ===
	detailPane := m.renderTitledBox("Details", m.detailViewport.View(), detailWidth, contentHeight, m.focusedPane == 1)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// contentHeight is the height below the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// recordRows is the number of record rows visible in the table.
func (m Model) recordRows() int {
	return m.contentHeight() - 2
}

// paneWidths splits the width between table and detail. The detail width is
// zero when the detail pane is hidden.
func (m Model) paneWidths() (table, detail int) {
	if !m.prefs.DetailOpen {
		return m.width, 0
	}
	pct := DetailWidthPercent
	if m.width >= LayoutExtraWideWidth {
		pct = DetailWidthPercentWide
	}
	detail = m.width * pct / 100
	return m.width - detail, detail
}

func (m Model) recordsTitle() string {
	snap := m.snapshot
	if snap.Filter.IsEmpty() {
		return fmt.Sprintf("Events (%d)", len(snap.Records))
	}
	return fmt.Sprintf("Events (%d of %d)", len(snap.RecordsFiltered), len(snap.Records))
}

// renderRecordsTable renders the visible records as styled rows, scrolled so
// the focused record stays in view.
func (m Model) renderRecordsTable(width int, bgColor string) string {
	records := m.snapshot.RecordsFiltered
	if len(records) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render("No records match the filter")
	}

	focused := m.snapshot.FocusedIndex()
	start, end := visibleWindow(len(records), focused, m.recordRows())

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rowBg := bgColor
		if i == focused {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRecordRow(records[i], width, rowBg, i == focused)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// visibleWindow returns the [start, end) range of rows to draw so that
// focused is centred when possible.
func visibleWindow(total, focused, rows int) (int, int) {
	if rows <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= rows {
		return 0, total
	}
	start := 0
	if focused >= 0 {
		start = min(max(focused-rows/2, 0), total-rows)
	}
	return start, start + rows
}

// formatRecordRow formats a record row with inline colors.
// Format: "#Number  Time  Level  ID  Source · Description"
// Selected rows render every segment with the Selected style for contrast.
func (m Model) formatRecordRow(rec eventlog.Record, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	number := fmt.Sprintf("#%d", rec.RecordNumber)
	when := "--"
	if !rec.Time.IsZero() {
		when = rec.Time.Local().Format("01-02 15:04:05")
	}
	level := padRight(rec.Level, 11)
	id := padRight(fmt.Sprintf("%d", rec.ID), 5)

	fixed := len(number) + len(when) + len(level) + len(id) + 4
	remaining := max(width-fixed-2, 10)
	sourceWidth := min(len(rec.Source), remaining/3)
	descWidth := max(remaining-sourceWidth-3, 0)

	var numStyle, timeStyle, levelStyle, idStyle, textStyle, sepStyle lipgloss.Style
	if selected {
		selText := m.theme.Styles().Selected
		numStyle, timeStyle, levelStyle, idStyle, textStyle, sepStyle =
			selText, selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		numStyle = styles.MutedText
		timeStyle = styles.FaintText
		levelStyle = styles.LevelStyle(rec.Level)
		idStyle = styles.AccentText
		textStyle = styles.Text
		sepStyle = styles.FaintText
	}

	parts := []string{
		bg.Render(number, numStyle),
		bg.Render(when, timeStyle),
		bg.Render(level, levelStyle),
		bg.Render(id, idStyle),
		bg.Render(truncate(rec.Source, sourceWidth), textStyle),
	}
	row := bg.Join(parts, " ")
	if descWidth > 0 {
		row += bg.Render(" · ", sepStyle) + bg.Render(truncate(firstLine(rec.Description), descWidth), textStyle)
	}
	return row
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0) // Account for left and right border chars
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0) // -2 for spaces around title
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bg.Color())

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0) // -2 for top and bottom borders

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

func countLevel(records []eventlog.Record, level string) int {
	n := 0
	for _, r := range records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
