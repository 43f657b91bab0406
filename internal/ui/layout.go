package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Split between the records table and the detail pane.
const (
	// DetailWidthPercent is the detail pane's share of the width.
	DetailWidthPercent = 45

	// DetailWidthPercentWide is the detail pane's share on extra-wide terminals.
	DetailWidthPercentWide = 55
)

// Modal sizing.
const (
	// ModalWidth is the width of the filter and recents modals.
	ModalWidth = 64

	// ModalChrome is the number of modal lines not available to list rows.
	ModalChrome = 14
)
