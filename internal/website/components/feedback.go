package components

import (
	"fmt"
	"html"
)

// LoadingSize scales the loading spinner.
type LoadingSize string

// Loading sizes.
const (
	LoadingSmall  LoadingSize = "sm"
	LoadingMedium LoadingSize = "md"
	LoadingLarge  LoadingSize = "lg"
)

// DefaultLoadingText is shown when no text is given.
const DefaultLoadingText = "Loading..."

// RenderLoading generates a spinner with a status text. Unknown sizes
// render medium.
func RenderLoading(size LoadingSize, text string) string {
	switch size {
	case LoadingSmall, LoadingMedium, LoadingLarge:
	default:
		size = LoadingMedium
	}
	if text == "" {
		text = DefaultLoadingText
	}
	return fmt.Sprintf(`<div class="loading loading-%s" role="status"><span class="spinner" aria-hidden="true"></span><span class="loading-text">%s</span></div>`,
		size, html.EscapeString(text))
}

// RenderToast generates a dismissible error toast. An empty message
// renders nothing.
func RenderToast(message string) string {
	if message == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="toast" role="alert"><span>%s</span><button type="button" class="toast-close" lv-click="dismiss_toast" aria-label="Dismiss">×</button></div>`,
		html.EscapeString(message))
}

// SearchBoxOptions configures a search input.
type SearchBoxOptions struct {
	// Event is the live event sent on every keystroke
	Event string
	// Value is the current query
	Value string
	// Placeholder is the hint text
	Placeholder string
	// Label names the input for assistive technology
	Label string
}

// RenderSearchBox generates a search input that sends Event with the
// current value on every input event.
func RenderSearchBox(opts SearchBoxOptions) string {
	label := opts.Label
	if label == "" {
		label = "Search"
	}
	return fmt.Sprintf(`<div class="search-box" role="search"><input type="search" class="search-input" lv-input="%s" value="%s" placeholder="%s" aria-label="%s" autocomplete="off"></div>`,
		html.EscapeString(opts.Event),
		html.EscapeString(opts.Value),
		html.EscapeString(opts.Placeholder),
		html.EscapeString(label))
}

// RenderEmptyState generates a centred message for empty results.
func RenderEmptyState(title, text string) string {
	return fmt.Sprintf(`<div class="empty-state"><h3>%s</h3><p>%s</p></div>`,
		html.EscapeString(title), html.EscapeString(text))
}
