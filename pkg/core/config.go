// This file defines timeout settings for live sessions.
package core

import (
	"time"
)

// TimeoutConfig configures timeouts for live session operations.
type TimeoutConfig struct {
	// ComponentMount bounds Mount() calls.
	ComponentMount time.Duration

	// ComponentEvent bounds HandleEvent() and HandleInfo() calls.
	ComponentEvent time.Duration

	// WebSocketRead is the idle read timeout; clients heartbeat well inside it.
	WebSocketRead time.Duration

	// WebSocketWrite bounds a single frame write.
	WebSocketWrite time.Duration

	// SessionCleanup is both the idle time after which a socket is closed
	// and the interval between sweeps.
	SessionCleanup time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ComponentMount: 5 * time.Second,
		ComponentEvent: 3 * time.Second,
		WebSocketRead:  60 * time.Second,
		WebSocketWrite: 10 * time.Second,
		SessionCleanup: 5 * time.Minute,
	}
}

// Validate fills zero values with defaults.
func (c TimeoutConfig) Validate() TimeoutConfig {
	def := DefaultTimeoutConfig()
	if c.ComponentMount <= 0 {
		c.ComponentMount = def.ComponentMount
	}
	if c.ComponentEvent <= 0 {
		c.ComponentEvent = def.ComponentEvent
	}
	if c.WebSocketRead <= 0 {
		c.WebSocketRead = def.WebSocketRead
	}
	if c.WebSocketWrite <= 0 {
		c.WebSocketWrite = def.WebSocketWrite
	}
	if c.SessionCleanup <= 0 {
		c.SessionCleanup = def.SessionCleanup
	}
	return c
}
