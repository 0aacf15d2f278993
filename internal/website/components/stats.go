package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// RenderStats generates a row of headline numbers.
func RenderStats(stats []content.Stat) string {
	if len(stats) == 0 {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(`<div class="stats" role="list">`)
	sb.WriteString("\n")
	for _, s := range stats {
		sb.WriteString(`<div class="stat" role="listitem">`)
		sb.WriteString(fmt.Sprintf(`<div class="stat-value">%s</div>`, html.EscapeString(s.Value)))
		sb.WriteString(fmt.Sprintf(`<div class="stat-label">%s</div>`, html.EscapeString(s.Label)))
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	return sb.String()
}

// RenderProgress generates an accessible progress bar with a percentage
// label. The percentage is clamped to 0..100.
func RenderProgress(percent int, label string) string {
	percent = max(0, min(100, percent))
	return fmt.Sprintf(`<div class="progress"><progress max="100" value="%d" aria-label="%s">%d%%</progress><span class="progress-label">%d%%</span></div>`,
		percent, html.EscapeString(label), percent, percent)
}
