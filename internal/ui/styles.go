package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	ColorText    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// Styles is the set of text styles bound to one renderer.
type Styles struct {
	Message lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Value   lipgloss.Style
}

// NewStyles binds the palette to r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Message: r.NewStyle().Foreground(ColorText),
		Warning: r.NewStyle().Foreground(ColorWarning),
		Error:   r.NewStyle().Foreground(ColorError).Bold(true),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Header:  r.NewStyle().Foreground(ColorPrimary).Bold(true),
		Value:   r.NewStyle().Foreground(ColorSuccess),
	}
}
