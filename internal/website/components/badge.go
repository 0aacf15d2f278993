package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// RenderBadge generates a pill label. variant selects the badge-<variant>
// colour class; empty means the neutral style.
func RenderBadge(label, variant string) string {
	class := "badge"
	if variant != "" {
		class += " badge-" + variant
	}
	return fmt.Sprintf(`<span class="%s">%s</span>`, html.EscapeString(class), html.EscapeString(label))
}

// DifficultyBadge colours a difficulty.
func DifficultyBadge(d content.Difficulty) string {
	return RenderBadge(string(d), strings.ToLower(string(d)))
}

// StatusBadge colours a component status.
func StatusBadge(s content.Status) string {
	return RenderBadge(string(s), string(s))
}

// TagBadges renders one tag badge per tag.
func TagBadges(tags []string) string {
	var sb strings.Builder
	for _, tag := range tags {
		sb.WriteString(RenderBadge(tag, "tag"))
	}
	return sb.String()
}
