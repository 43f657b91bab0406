package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logsieve/internal/filterpane"
	"github.com/five82/logsieve/internal/recents"
)

// matchAll is the compact form of the empty filter, used to search with the
// "no filter" entry.
const matchAll = "{}"

// recentsModal lists the recently applied filters.
type recentsModal struct {
	pane    *filterpane.Pane
	entries []*recents.Entry
	cursor  int
	status  string
}

func newRecentsModal(pane *filterpane.Pane) *recentsModal {
	rm := &recentsModal{pane: pane}
	rm.refresh()
	return rm
}

// refresh reloads the entries, which reorder whenever a filter is applied or
// searched with.
func (rm *recentsModal) refresh() {
	rm.entries = rm.pane.Recents()
	rm.cursor = min(rm.cursor, max(len(rm.entries)-1, 0))
}

func (rm *recentsModal) selected() (*recents.Entry, bool) {
	if len(rm.entries) == 0 {
		return nil, false
	}
	return rm.entries[rm.cursor], true
}

// Update implements Modal.
func (rm *recentsModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return rm, nil, false
	}
	rm.status = ""

	switch {
	case key.Matches(keyMsg, keys.Escape), key.Matches(keyMsg, keys.OpenRecents):
		return rm, nil, true

	case key.Matches(keyMsg, keys.Down), key.Matches(keyMsg, keys.Tab):
		rm.cursor = min(rm.cursor+1, max(len(rm.entries)-1, 0))

	case key.Matches(keyMsg, keys.Up), key.Matches(keyMsg, keys.ShiftTab):
		rm.cursor = max(rm.cursor-1, 0)

	case key.Matches(keyMsg, keys.Top):
		rm.cursor = 0

	case key.Matches(keyMsg, keys.Bottom):
		rm.cursor = max(len(rm.entries)-1, 0)

	case key.Matches(keyMsg, keys.Confirm):
		entry, ok := rm.selected()
		if !ok {
			return rm, nil, true
		}
		if err := rm.pane.ApplySaved(savedFilter(entry)); err != nil {
			return rm, statusCmd(err.Error(), true), true
		}
		return rm, statusCmd("Filter applied", false), true

	case key.Matches(keyMsg, keys.NextMatch), key.Matches(keyMsg, keys.PrevMatch):
		entry, ok := rm.selected()
		if !ok {
			return rm, nil, false
		}
		search := rm.pane.FindNext
		if key.Matches(keyMsg, keys.PrevMatch) {
			search = rm.pane.FindPrevious
		}
		saved := matchAll
		if entry != nil {
			saved = entry.Filter
		}
		rm.status = findStatus(search(saved))
		rm.refresh()

	case key.Matches(keyMsg, keys.CopyFilter):
		entry, ok := rm.selected()
		if !ok {
			return rm, nil, false
		}
		return rm, copyCmd(ternary(entry == nil, matchAll, savedFilter(entry))), false
	}

	return rm, nil, false
}

// savedFilter is the string ApplySaved expects for entry; the sentinel maps to
// the empty string.
func savedFilter(entry *recents.Entry) string {
	if entry == nil {
		return ""
	}
	return entry.Filter
}

// View implements Modal.
func (rm *recentsModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Recent Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", ModalWidth-6)))
	b.WriteString("\n\n")

	if len(rm.entries) == 0 {
		b.WriteString(styles.MutedText.Render("No recent filters"))
		b.WriteString("\n")
	}

	for i, entry := range rm.entries {
		text := "(no filter)"
		if entry != nil {
			text = truncate(entry.Filter, ModalWidth-10)
		}
		if i == rm.cursor {
			b.WriteString(styles.AccentText.Render("› " + text))
		} else if entry == nil {
			b.WriteString(styles.FaintText.Render("  " + text))
		} else {
			b.WriteString(styles.MutedText.Render("  " + text))
		}
		b.WriteString("\n")
	}

	// Show the readable form of the selection, clipped to the space left.
	if entry, ok := rm.selected(); ok && entry != nil {
		b.WriteString("\n")
		lines := strings.Split(entry.ReadableFilter, "\n")
		room := max(height-ModalChrome-len(rm.entries), 3)
		if len(lines) > room {
			lines = append(lines[:room-1], "...")
		}
		for _, line := range lines {
			b.WriteString(styles.Text.Render(truncate(line, ModalWidth-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if rm.status != "" {
		b.WriteString(styles.WarningText.Render(rm.status))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  n/N: Find  •  y: Copy  •  Esc: Close"))

	return placeModal(theme, width, height, b.String())
}
