package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/onekit-js/onekit-site/internal/content"
)

// TerminalOptions controls how Terminal styles its output.
type TerminalOptions struct {
	// Style is a glamour standard style ("dark", "light", "notty", ...).
	// Empty detects the terminal background.
	Style string
	Width int
}

// Terminal renders a page's Markdown for display in a terminal.
func Terminal(c *content.Content, path string, opts TerminalOptions) (string, error) {
	md, err := Page(c, path)
	if err != nil {
		return "", err
	}

	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStandardStyle(opts.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return out, nil
}
