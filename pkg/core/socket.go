package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Common socket errors.
var (
	ErrSocketClosed   = errors.New("socket is closed")
	ErrSocketNotFound = errors.New("socket not found")
	ErrSendFailed     = errors.New("failed to send message")
	ErrMailboxFull    = errors.New("socket mailbox full")
)

// DefaultMailboxSize is the number of info messages a socket buffers.
const DefaultMailboxSize = 32

// Socket represents a live connection to a client.
// It sends messages through its transport and owns the component's
// info mailbox and timers.
type Socket struct {
	id    string
	topic string

	connected   bool
	connectedAt time.Time

	// lastActivity as atomic int64 (Unix nanoseconds)
	lastActivity atomic.Int64

	transport Transport

	metadata map[string]any

	mailbox chan any
	done    chan struct{}
	timers  map[uint64]*time.Timer
	timerID uint64

	mu sync.RWMutex
}

// Transport is the interface for underlying connection transports.
type Transport interface {
	Send(msg Message) error
	Close() error
	IsConnected() bool
}

// Message represents a message sent over the socket.
type Message struct {
	Ref     string         `json:"ref,omitempty"`
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewSocket creates a new socket with the given ID and transport.
func NewSocket(id string, transport Transport) *Socket {
	now := time.Now()
	s := &Socket{
		id:          id,
		connected:   true,
		connectedAt: now,
		metadata:    make(map[string]any),
		transport:   transport,
		mailbox:     make(chan any, DefaultMailboxSize),
		done:        make(chan struct{}),
		timers:      make(map[uint64]*time.Timer),
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// Topic returns the channel topic used for pushes to this socket: the
// topic the client joined, or "lv:<id>" before one is set.
func (s *Socket) Topic() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.topic != "" {
		return s.topic
	}
	return "lv:" + s.id
}

// SetTopic sets the topic pushes travel on.
func (s *Socket) SetTopic(topic string) {
	s.mu.Lock()
	s.topic = topic
	s.mu.Unlock()
}

// IsConnected returns true if the socket is connected.
func (s *Socket) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.transport != nil && s.transport.IsConnected()
}

// ConnectedAt returns when the socket connected.
func (s *Socket) ConnectedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectedAt
}

// LastActivity returns the time of last activity.
func (s *Socket) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// UpdateActivity updates the last activity timestamp.
func (s *Socket) UpdateActivity() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Send sends a message to the client.
// Protected against a concurrent Close by re-checking state on failure.
func (s *Socket) Send(msg Message) error {
	s.mu.RLock()
	connected := s.connected
	transport := s.transport
	s.mu.RUnlock()

	if !connected || transport == nil || !transport.IsConnected() {
		return ErrSocketClosed
	}

	s.lastActivity.Store(time.Now().UnixNano())

	if err := transport.Send(msg); err != nil {
		s.mu.RLock()
		stillConnected := s.connected
		s.mu.RUnlock()
		if !stillConnected {
			return ErrSocketClosed
		}
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return nil
}

// Push sends an event to the client.
func (s *Socket) Push(event string, payload map[string]any) error {
	return s.Send(Message{
		Topic:   s.Topic(),
		Event:   event,
		Payload: payload,
	})
}

// DiffPayload is the diff format sent to clients.
// Text slots (s) hold content without markup, HTML slots (h) hold markup,
// and Full (f) replaces the whole live root.
type DiffPayload struct {
	Version   uint64            `json:"v"`
	Slots     map[string]string `json:"s,omitempty"`
	HTMLSlots map[string]string `json:"h,omitempty"`
	Full      string            `json:"f,omitempty"`
}

// IsEmpty returns true if the payload has no changes.
func (d *DiffPayload) IsEmpty() bool {
	return len(d.Slots) == 0 &&
		len(d.HTMLSlots) == 0 &&
		d.Full == ""
}

// Size returns the total size of the payload content in bytes.
func (d *DiffPayload) Size() int {
	size := 0
	for _, content := range d.Slots {
		size += len(content)
	}
	for _, content := range d.HTMLSlots {
		size += len(content)
	}
	size += len(d.Full)
	return size
}

// SendDiff sends a diff payload to the client. Empty payloads are skipped.
func (s *Socket) SendDiff(payload *DiffPayload) error {
	if payload == nil || payload.IsEmpty() {
		return nil
	}

	return s.Push("diff", map[string]any{
		"v": payload.Version,
		"s": payload.Slots,
		"h": payload.HTMLSlots,
		"f": payload.Full,
	})
}

// Info returns the mailbox channel drained by the router's message loop.
func (s *Socket) Info() <-chan any {
	return s.mailbox
}

// Done is closed when the socket closes.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// SendInfo enqueues msg for the component's HandleInfo without blocking.
func (s *Socket) SendInfo(msg any) error {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	if !connected {
		return ErrSocketClosed
	}

	select {
	case <-s.done:
		return ErrSocketClosed
	case s.mailbox <- msg:
		return nil
	default:
		return ErrMailboxFull
	}
}

// SendAfter delivers msg to the mailbox once d has elapsed.
// The returned function cancels delivery if it has not happened yet.
// Pending timers are stopped when the socket closes.
func (s *Socket) SendAfter(d time.Duration, msg any) (cancel func()) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return func() {}
	}
	s.timerID++
	id := s.timerID
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		_ = s.SendInfo(msg)
	})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// PendingTimers returns the number of scheduled, undelivered messages.
func (s *Socket) PendingTimers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.timers)
}

// GetMetadata retrieves metadata by key.
func (s *Socket) GetMetadata(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata[key]
}

// SetMetadata stores metadata.
func (s *Socket) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// Close closes the socket connection and stops pending timers.
// Calling Close more than once is safe.
func (s *Socket) Close() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil
	}
	s.connected = false
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	close(s.done)
	transport := s.transport
	s.mu.Unlock()

	if transport != nil {
		return transport.Close()
	}
	return nil
}

// SocketManager manages all active sockets.
type SocketManager struct {
	sockets    map[string]*Socket
	isShutdown bool
	mu         sync.RWMutex
}

// NewSocketManager creates a new socket manager.
func NewSocketManager() *SocketManager {
	return &SocketManager{
		sockets: make(map[string]*Socket),
	}
}

// Add registers a socket. It returns ErrSocketClosed once the manager is
// shutting down.
func (sm *SocketManager) Add(socket *Socket) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.isShutdown {
		return ErrSocketClosed
	}
	sm.sockets[socket.ID()] = socket
	return nil
}

// Remove unregisters a socket.
func (sm *SocketManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sockets, id)
}

// Get retrieves a socket by ID.
func (sm *SocketManager) Get(id string) (*Socket, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sockets[id]
	return s, ok
}

// Count returns the number of active sockets.
func (sm *SocketManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sockets)
}

// All returns all sockets.
func (sm *SocketManager) All() []*Socket {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		result = append(result, s)
	}
	return result
}

// Broadcast pushes an event to every socket and returns how many sends
// succeeded. A bounded worker pool keeps goroutine count in check.
func (sm *SocketManager) Broadcast(event string, payload map[string]any) int {
	sockets := sm.All()
	if len(sockets) == 0 {
		return 0
	}

	const maxWorkers = 32
	sem := make(chan struct{}, maxWorkers)
	var (
		wg   sync.WaitGroup
		sent atomic.Int64
	)

	for _, s := range sockets {
		wg.Add(1)
		sem <- struct{}{}
		go func(socket *Socket) {
			defer func() {
				<-sem
				wg.Done()
			}()
			if socket.Push(event, payload) == nil {
				sent.Add(1)
			}
		}(s)
	}

	wg.Wait()
	return int(sent.Load())
}

// BroadcastInfo delivers msg to every socket mailbox.
func (sm *SocketManager) BroadcastInfo(msg any) {
	for _, s := range sm.All() {
		_ = s.SendInfo(msg)
	}
}

// Shutdown stops accepting sockets and closes the existing ones.
func (sm *SocketManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	if sm.isShutdown {
		sm.mu.Unlock()
		return nil
	}
	sm.isShutdown = true
	sockets := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		sockets = append(sockets, s)
	}
	sm.mu.Unlock()

	for _, s := range sockets {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = s.Close()
	}
	return nil
}

// IsShutdown returns true if the manager is shutting down.
func (sm *SocketManager) IsShutdown() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isShutdown
}

// CleanupInactive closes and removes sockets inactive for longer than maxInactive.
func (sm *SocketManager) CleanupInactive(maxInactive time.Duration) int {
	sm.mu.Lock()
	var stale []*Socket
	now := time.Now()
	for id, s := range sm.sockets {
		if now.Sub(s.LastActivity()) > maxInactive {
			stale = append(stale, s)
			delete(sm.sockets, id)
		}
	}
	sm.mu.Unlock()

	for _, s := range stale {
		_ = s.Close()
	}
	return len(stale)
}
