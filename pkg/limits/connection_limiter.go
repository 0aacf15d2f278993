package limits

import (
	"net"
	"net/http"
	"sync"
)

// DefaultMaxConnsPerIP applies when NewConnectionLimiter gets a
// non-positive limit.
const DefaultMaxConnsPerIP = 100

// ConnectionLimiter caps how many live sessions one client address can hold
// open at once.
type ConnectionLimiter struct {
	max int

	mu      sync.Mutex
	open    map[string]int
	refused int64
}

// NewConnectionLimiter returns a limiter allowing max sessions per address.
func NewConnectionLimiter(max int) *ConnectionLimiter {
	if max <= 0 {
		max = DefaultMaxConnsPerIP
	}
	return &ConnectionLimiter{max: max, open: make(map[string]int)}
}

// Acquire takes a slot for ip and reports whether one was free.
func (cl *ConnectionLimiter) Acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.open[ip] >= cl.max {
		cl.refused++
		return false
	}
	cl.open[ip]++
	return true
}

// Release frees a slot taken by Acquire. Releasing an address with no open
// slots does nothing.
func (cl *ConnectionLimiter) Release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	switch n := cl.open[ip]; {
	case n <= 1:
		delete(cl.open, ip)
	default:
		cl.open[ip] = n - 1
	}
}

// Count returns the open slots held by ip.
func (cl *ConnectionLimiter) Count(ip string) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.open[ip]
}

// Active returns the open slots across every address.
func (cl *ConnectionLimiter) Active() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	total := 0
	for _, n := range cl.open {
		total += n
	}
	return total
}

// Refused returns how many acquisitions were turned away.
func (cl *ConnectionLimiter) Refused() int64 {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.refused
}

// ClientIP returns the host part of r.RemoteAddr. Proxy headers are
// resolved earlier by the RealIP middleware.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
