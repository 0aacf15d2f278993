// Package a11y renders accessibility markup and pushes screen reader
// announcements to live pages.
package a11y

import (
	"errors"
	"fmt"
	"html"

	"github.com/onekit-js/onekit-site/pkg/core"
)

// AnnounceEvent is the event the client script writes into a live region.
const AnnounceEvent = "announce"

// Politeness levels.
const (
	Polite    = "polite"
	Assertive = "assertive"
)

// LiveRegion is an ARIA live region.
type LiveRegion struct {
	ID         string
	Politeness string
	Atomic     bool
	Relevant   string
}

// LiveRegionOption configures a live region.
type LiveRegionOption func(*LiveRegion)

// NewLiveRegion returns a polite region announcing additions and text.
func NewLiveRegion(id string, opts ...LiveRegionOption) *LiveRegion {
	lr := &LiveRegion{
		ID:         id,
		Politeness: Polite,
		Relevant:   "additions text",
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithPoliteness sets the politeness level.
func WithPoliteness(level string) LiveRegionOption {
	return func(lr *LiveRegion) { lr.Politeness = level }
}

// Atomic makes screen readers read the whole region on change.
func Atomic() LiveRegionOption {
	return func(lr *LiveRegion) { lr.Atomic = true }
}

// WithRelevant sets what changes are announced.
func WithRelevant(relevant string) LiveRegionOption {
	return func(lr *LiveRegion) { lr.Relevant = relevant }
}

// Announce pushes message into the region. A nil socket is a plain HTTP
// render and has nobody to announce to.
func (lr *LiveRegion) Announce(sock *core.Socket, message string) error {
	return lr.AnnounceWithPoliteness(sock, message, lr.Politeness)
}

// AnnounceWithPoliteness pushes message with an explicit politeness.
func (lr *LiveRegion) AnnounceWithPoliteness(sock *core.Socket, message, politeness string) error {
	if sock == nil || message == "" {
		return nil
	}
	err := sock.Push(AnnounceEvent, map[string]any{
		"id":         lr.ID,
		"message":    message,
		"politeness": politeness,
	})
	if errors.Is(err, core.ErrSocketClosed) {
		return nil
	}
	return err
}

// RenderHTML renders the empty, visually hidden region.
func (lr *LiveRegion) RenderHTML() string {
	atomic := ""
	if lr.Atomic {
		atomic = ` aria-atomic="true"`
	}
	return fmt.Sprintf(`<div id="%s" role="status" aria-live="%s" aria-relevant="%s"%s class="sr-only"></div>`,
		html.EscapeString(lr.ID), lr.Politeness, lr.Relevant, atomic)
}

// SkipLink renders a link that jumps keyboard users past the navigation.
func SkipLink(target, text string) string {
	return fmt.Sprintf(`<a href="#%s" class="skip-link">%s</a>`,
		html.EscapeString(target), html.EscapeString(text))
}

func AriaLabel(label string) string {
	return fmt.Sprintf(`aria-label="%s"`, html.EscapeString(label))
}

func AriaExpanded(expanded bool) string {
	return fmt.Sprintf(`aria-expanded="%t"`, expanded)
}

func AriaControls(id string) string {
	return fmt.Sprintf(`aria-controls="%s"`, html.EscapeString(id))
}
