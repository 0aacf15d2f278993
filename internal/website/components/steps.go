package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/onekit-js/onekit-site/internal/content"
)

// RenderSteps generates a numbered list of steps. current marks one step
// as the current one; pass -1 for none.
func RenderSteps(steps []content.Step, current int) string {
	var sb strings.Builder

	sb.WriteString(`<ol class="steps">`)
	sb.WriteString("\n")
	for i, step := range steps {
		class := "step"
		if i == current {
			class += " current"
		}
		sb.WriteString(fmt.Sprintf(`<li class="%s">`, class))
		sb.WriteString(fmt.Sprintf(`<span class="step-number" aria-hidden="true">%d</span>`, i+1))
		sb.WriteString(`<div class="step-body">`)
		sb.WriteString(fmt.Sprintf(`<h3>%s</h3>`, html.EscapeString(step.Title)))
		if step.Description != "" {
			sb.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(step.Description)))
		}
		sb.WriteString(`</div></li>`)
		sb.WriteString("\n")
	}
	sb.WriteString(`</ol>`)
	sb.WriteString("\n")

	return sb.String()
}
