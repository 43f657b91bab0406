package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsieve/internal/filterpane"
)

type filterRowKind int

const (
	rowDescription filterRowKind = iota
	rowNotMatch
	rowIncludeXML
	rowGroup
	rowValue
)

// filterRow is one selectable line of the filter modal.
type filterRow struct {
	kind  filterRowKind
	group int // index into filterGroups for rowGroup and rowValue
	key   string
}

var filterGroups = []string{"Levels", "Event IDs", "Sources", "Tasks"}

// filterModal edits the filter pane's form.
type filterModal struct {
	pane   *filterpane.Pane
	input  textinput.Model
	cursor int
	status string
}

func newFilterModal(pane *filterpane.Pane) *filterModal {
	input := textinput.New()
	input.Placeholder = "regular expression or text"
	input.CharLimit = 256
	input.Width = ModalWidth - 20
	input.Prompt = ""

	fm := &filterModal{pane: pane, input: input}
	fm.syncInput()
	fm.input.Focus()
	return fm
}

// toggles returns the form group at index i.
func (fm *filterModal) toggles(i int) *filterpane.Toggles {
	form := fm.pane.Form()
	switch i {
	case 0:
		return &form.Levels
	case 1:
		return &form.IDs
	case 2:
		return &form.Sources
	default:
		return &form.Tasks
	}
}

func (fm *filterModal) rows() []filterRow {
	rows := []filterRow{{kind: rowDescription}, {kind: rowNotMatch}, {kind: rowIncludeXML}}
	for g := range filterGroups {
		t := fm.toggles(g)
		if len(t.Keys) == 0 {
			continue
		}
		rows = append(rows, filterRow{kind: rowGroup, group: g})
		for _, k := range t.Keys {
			rows = append(rows, filterRow{kind: rowValue, group: g, key: k})
		}
	}
	return rows
}

// syncInput copies the form's description into the text input, which happens
// whenever the form may have been rebuilt.
func (fm *filterModal) syncInput() {
	fm.input.SetValue(fm.pane.Form().Description)
	fm.input.CursorEnd()
}

// resync brings the modal back in line with the form after the pane rebuilt
// it, for example when a reload removed toggle rows under the cursor.
func (fm *filterModal) resync() {
	fm.cursor = min(fm.cursor, len(fm.rows())-1)
	if fm.input.Value() != fm.pane.Form().Description {
		fm.syncInput()
	}
}

func (fm *filterModal) moveCursor(delta int) {
	n := len(fm.rows())
	fm.cursor = min(max(fm.cursor+delta, 0), n-1)
	if fm.cursor == 0 {
		fm.input.Focus()
	} else {
		fm.input.Blur()
	}
}

// Update implements Modal.
func (fm *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fm, nil, false
	}
	fm.status = ""
	fm.resync()

	// Printable keys belong to the description while it has focus.
	editing := fm.cursor == 0 && (keyMsg.Type == tea.KeyRunes || keyMsg.Type == tea.KeySpace)

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return fm, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		if err := fm.pane.ApplyCurrent(); err != nil {
			return fm, statusCmd(err.Error(), true), true
		}
		return fm, statusCmd("Filter applied", false), true

	case key.Matches(keyMsg, keys.ResetFilter):
		if err := fm.pane.Reset(); err != nil {
			fm.status = err.Error()
		}
		fm.syncInput()
		fm.cursor = min(fm.cursor, len(fm.rows())-1)
		return fm, nil, false

	case !editing && key.Matches(keyMsg, keys.NextMatch):
		fm.status = findStatus(fm.pane.FindNext(""))
		return fm, nil, false

	case !editing && key.Matches(keyMsg, keys.PrevMatch):
		fm.status = findStatus(fm.pane.FindPrevious(""))
		return fm, nil, false

	case key.Matches(keyMsg, keys.Tab), !editing && key.Matches(keyMsg, keys.Down):
		fm.moveCursor(1)
		return fm, nil, false

	case key.Matches(keyMsg, keys.ShiftTab), !editing && key.Matches(keyMsg, keys.Up):
		fm.moveCursor(-1)
		return fm, nil, false

	case !editing && key.Matches(keyMsg, keys.Toggle):
		fm.toggleRow(fm.rows()[fm.cursor])
		return fm, nil, false
	}

	if fm.cursor != 0 {
		return fm, nil, false
	}
	var cmd tea.Cmd
	fm.input, cmd = fm.input.Update(keyMsg)
	fm.pane.Form().Description = fm.input.Value()
	return fm, cmd, false
}

func (fm *filterModal) toggleRow(row filterRow) {
	form := fm.pane.Form()
	switch row.kind {
	case rowNotMatch:
		form.NotMatch = !form.NotMatch
	case rowIncludeXML:
		form.IncludeXML = !form.IncludeXML
	case rowGroup:
		t := fm.toggles(row.group)
		t.SetAll(!allOn(t))
	case rowValue:
		fm.toggles(row.group).Toggle(row.key)
	}
}

func allOn(t *filterpane.Toggles) bool {
	for _, k := range t.Keys {
		if !t.On[k] {
			return false
		}
	}
	return true
}

func findStatus(found bool, err error) string {
	switch {
	case err != nil:
		return err.Error()
	case !found:
		return "No further matching record"
	default:
		return ""
	}
}

// View implements Modal.
func (fm *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	form := fm.pane.Form()
	rows := fm.rows()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Filter"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", ModalWidth-6)))
	b.WriteString("\n\n")

	label := func(i int, text string) string {
		if i == fm.cursor {
			return styles.AccentText.Render("› " + text)
		}
		return styles.MutedText.Render("  " + text)
	}

	start, end := visibleWindow(len(rows), fm.cursor, max(height-ModalChrome, 5))
	for i := start; i < end; i++ {
		row := rows[i]
		switch row.kind {
		case rowDescription:
			b.WriteString(label(i, "Description: "))
			b.WriteString(fm.input.View())
		case rowNotMatch:
			b.WriteString(label(i, checkbox(form.NotMatch)+" Not match"))
		case rowIncludeXML:
			b.WriteString(label(i, checkbox(form.IncludeXML)+" Include XML"))
		case rowGroup:
			t := fm.toggles(row.group)
			summary := "all"
			if n := countOn(t); n != len(t.Keys) {
				summary = fmt.Sprintf("%d of %d", n, len(t.Keys))
			}
			text := fmt.Sprintf("%s (%s)", filterGroups[row.group], summary)
			if i == fm.cursor {
				b.WriteString(styles.AccentText.Bold(true).Render("› " + text))
			} else {
				b.WriteString(styles.Text.Bold(true).Render("  " + text))
			}
		case rowValue:
			on := fm.toggles(row.group).On[row.key]
			text := "  " + checkbox(on) + " " + truncate(row.key, ModalWidth-16)
			if row.group == 0 && i != fm.cursor {
				b.WriteString("  " + styles.LevelStyle(row.key).Render(text))
			} else {
				b.WriteString(label(i, text))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if fm.status != "" {
		b.WriteString(styles.WarningText.Render(fm.status))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Space: Toggle  •  n/N: Find  •  Ctrl+R: Reset  •  Esc: Close"))

	return placeModal(theme, width, height, b.String())
}

func checkbox(on bool) string {
	return ternary(on, "[x]", "[ ]")
}

func countOn(t *filterpane.Toggles) int {
	n := 0
	for _, k := range t.Keys {
		if t.On[k] {
			n++
		}
	}
	return n
}

// placeModal frames content and centres it on screen.
func placeModal(theme Theme, width, height int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(ModalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
