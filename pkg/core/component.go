// Package core holds the live component model: a page is a Component that
// mounts once, renders on demand and reacts to browser events and mailbox
// messages delivered through its Socket.
package core

import (
	"context"
	"io"
)

// Component is a stateful page. The router mounts a fresh instance for
// every plain render and every live session; the instance is never shared.
type Component interface {
	Name() string

	// Mount runs before the first render in both modes.
	Mount(ctx context.Context, params Params, session Session) error

	Render(ctx context.Context) Renderer

	// HandleEvent receives events sent by the browser, such as
	// "select_category" or "copy".
	HandleEvent(ctx context.Context, event string, payload map[string]any) error

	// HandleInfo receives values posted to the socket mailbox: timer expiry
	// from Socket.SendAfter or results of background work.
	HandleInfo(ctx context.Context, msg any) error

	Terminate(ctx context.Context, reason TerminateReason) error
}

// Renderer writes HTML.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// TerminateReason says why a component stopped.
type TerminateReason int

const (
	TerminateNormal TerminateReason = iota
	TerminateShutdown
	TerminateError
	TerminateTimeout
)

var reasonNames = [...]string{
	TerminateNormal:   "normal",
	TerminateShutdown: "shutdown",
	TerminateError:    "error",
	TerminateTimeout:  "timeout",
}

func (r TerminateReason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// BaseComponent supplies no-op lifecycle methods and holds the socket the
// router attaches for live sessions.
type BaseComponent struct {
	socket *Socket
}

// SetSocket is called by the router before Mount on a live session.
func (bc *BaseComponent) SetSocket(s *Socket) { bc.socket = s }

// Socket returns nil during a plain HTTP render.
func (bc *BaseComponent) Socket() *Socket { return bc.socket }

// Connected reports whether a live socket is attached and open.
func (bc *BaseComponent) Connected() bool {
	return bc.socket != nil && bc.socket.IsConnected()
}

func (bc *BaseComponent) Name() string { return "" }

func (bc *BaseComponent) Mount(context.Context, Params, Session) error { return nil }

func (bc *BaseComponent) HandleEvent(context.Context, string, map[string]any) error { return nil }

func (bc *BaseComponent) HandleInfo(context.Context, any) error { return nil }

func (bc *BaseComponent) Terminate(context.Context, TerminateReason) error { return nil }
