package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk     = lipgloss.Color("#ECEFF4")
	ColorDim     = lipgloss.Color("#7A8291")
	ColorWorker  = lipgloss.Color("#B48EAD")
	ColorName    = lipgloss.Color("#88C0D0")
	ColorPath    = lipgloss.Color("#D8DEE9")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
	ColorError   = lipgloss.Color("#BF616A")
)
