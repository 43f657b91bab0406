package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	cases := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"unknown", "Nightfox"},
	}
	for _, tc := range cases {
		if got := NextTheme(tc.current); got != tc.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}
}

func TestLevelStyle(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		styles := th.Styles()

		for _, level := range []string{"Information", "Warning", "Error"} {
			want := lipgloss.Color(th.LevelColors[level])
			if th.LevelColors[level] == "" {
				t.Fatalf("%s: no color for %s", name, level)
			}
			if got := styles.LevelStyle(level).GetForeground(); got != want {
				t.Fatalf("%s: LevelStyle(%s) = %v, want %v", name, level, got, want)
			}
		}

		if got := styles.LevelStyle("Verbose").GetForeground(); got != lipgloss.Color(th.Text) {
			t.Fatalf("%s: LevelStyle(unknown) = %v, want text color %v", name, got, th.Text)
		}
		if got := styles.WithBackground(th.Surface).LevelStyle("Error").GetForeground(); got != lipgloss.Color(th.LevelColors["Error"]) {
			t.Fatalf("%s: WithBackground lost level colors", name)
		}
	}
}

func TestWithBackground_KeepsSelectedBackground(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles().WithBackground(th.Surface)

	if got := styles.Text.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("Text background = %v, want %v", got, th.Surface)
	}
	if got := styles.Selected.GetBackground(); got != lipgloss.Color(th.SelectionBg) {
		t.Fatalf("Selected background = %v, want %v", got, th.SelectionBg)
	}
	if got := styles.Selected.GetForeground(); got != lipgloss.Color(th.SelectionText) {
		t.Fatalf("Selected foreground = %v, want %v", got, th.SelectionText)
	}
}
