package components

import (
	"fmt"
	"html"
	"strings"
)

// TabItem is one selectable tab.
type TabItem struct {
	ID    string
	Label string
}

// TabsOptions configures a tab list.
type TabsOptions struct {
	// Label names the tab list for assistive technology
	Label string
	// Event is the live event sent on selection
	Event string
	// Param is the payload key carrying the tab id
	Param string
	// Items are the tabs in display order
	Items []TabItem
	// Active is the selected tab id
	Active string
	// Panel is trusted HTML for the active tab
	Panel string
	// Vertical renders a sidebar instead of a horizontal list
	Vertical bool
}

// RenderTabs generates a tab list and the active panel. Selecting a tab
// sends Event with the tab id under Param.
func RenderTabs(opts TabsOptions) string {
	var sb strings.Builder

	listClass, tabClass := "tab-list", "tab"
	if opts.Vertical {
		listClass, tabClass = "docs-sidebar", "sidebar-link"
	}

	sb.WriteString(`<div class="tabs">`)
	sb.WriteString(fmt.Sprintf(`<div class="%s" role="tablist" aria-label="%s">`, listClass, html.EscapeString(opts.Label)))
	for _, item := range opts.Items {
		class := tabClass
		selected := item.ID == opts.Active
		if selected {
			class += " active"
		}
		sb.WriteString(fmt.Sprintf(`<button type="button" role="tab" class="%s" aria-selected="%t" lv-click="%s" lv-value-%s="%s">%s</button>`,
			class, selected,
			html.EscapeString(opts.Event),
			html.EscapeString(opts.Param),
			html.EscapeString(item.ID),
			html.EscapeString(item.Label)))
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	if opts.Panel != "" {
		sb.WriteString(`<div class="tab-panel" role="tabpanel">`)
		sb.WriteString(opts.Panel)
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	return sb.String()
}
