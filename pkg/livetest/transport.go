// Package livetest mounts live components against an in-memory transport so
// pages can be tested without a browser or a websocket.
package livetest

import (
	"sync"

	"github.com/onekit-js/onekit-site/pkg/core"
)

// Transport implements core.Transport and records what the socket sends.
type Transport struct {
	mu        sync.Mutex
	connected bool
	sent      []core.Message
	err       error
}

// NewTransport returns a connected transport.
func NewTransport() *Transport {
	return &Transport{connected: true}
}

// Send records msg, or returns the error set by SetError.
func (t *Transport) Send(msg core.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	if !t.connected {
		return core.ErrSocketClosed
	}
	t.sent = append(t.sent, msg)
	return nil
}

// Close disconnects the transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

// IsConnected reports whether Close has not been called.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Messages returns a copy of every message sent so far.
func (t *Transport) Messages() []core.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.Message, len(t.sent))
	copy(out, t.sent)
	return out
}

// Events returns the event names sent so far, in order.
func (t *Transport) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.sent))
	for i, msg := range t.sent {
		out[i] = msg.Event
	}
	return out
}

// Last returns the most recent message.
func (t *Transport) Last() (core.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return core.Message{}, false
	}
	return t.sent[len(t.sent)-1], true
}

// Sent reports whether a message with event was sent.
func (t *Transport) Sent(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, msg := range t.sent {
		if msg.Event == event {
			return true
		}
	}
	return false
}

// SetError makes every later Send fail with err. Nil clears it.
func (t *Transport) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Reset forgets sent messages and reconnects.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
	t.connected = true
	t.err = nil
}
