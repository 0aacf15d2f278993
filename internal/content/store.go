package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/onekit-js/onekit-site/pkg/logging"
)

// Store holds the current content snapshot. Readers never block; reloads
// swap the snapshot only when the new content validates.
type Store struct {
	fsys    fs.FS
	current atomic.Pointer[Content]
	loaded  atomic.Int64 // unix nanos of the last successful load
	log     logging.Logger

	mu        sync.RWMutex
	listeners []chan<- *Content
	observers []ReloadObserver
}

// ReloadObserver is told the outcome of every reload attempt.
type ReloadObserver interface {
	ContentReloaded(err error)
}

// NewStore loads fsys and returns a store serving it.
func NewStore(fsys fs.FS, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.WithComponent("content")
	}
	c, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	s := &Store{fsys: fsys, log: log}
	s.set(c)
	return s, nil
}

// Open returns a store over dir, or over the embedded content when dir is
// empty.
func Open(dir string, log logging.Logger) (*Store, error) {
	if dir == "" {
		return NewStore(Embedded(), log)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	return NewStore(os.DirFS(dir), log)
}

// MustEmbedded returns a store over the embedded content. The embedded data
// is validated by tests, so failure here is a build defect.
func MustEmbedded() *Store {
	s, err := NewStore(Embedded(), logging.NopLogger{})
	if err != nil {
		panic(err)
	}
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Content {
	return s.current.Load()
}

// LoadedAt returns when the active snapshot was loaded.
func (s *Store) LoadedAt() time.Time {
	return time.Unix(0, s.loaded.Load())
}

func (s *Store) set(c *Content) {
	s.current.Store(c)
	s.loaded.Store(time.Now().UnixNano())
}

// Reload re-reads the content. On any error the previous snapshot stays
// active and the error is returned.
func (s *Store) Reload(_ context.Context) error {
	s.log.Info("reloading content", logging.Event("content.reload_start"))

	c, err := Load(s.fsys)
	if err != nil {
		s.log.Error("content reload failed",
			logging.Event("content.reload_failed"),
			logging.Err(err),
		)
		s.observe(err)
		return fmt.Errorf("reload content: %w", err)
	}

	s.set(c)
	s.observe(nil)
	s.notify(c)

	s.log.Info("content reloaded", logging.Event("content.reload_success"))
	return nil
}

// Subscribe registers ch to receive every successfully reloaded snapshot.
// Sends never block; a full channel misses that notification.
func (s *Store) Subscribe(ch chan<- *Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, ch)
}

// Observe registers o for reload outcomes.
func (s *Store) Observe(o ReloadObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Store) observe(err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.ContentReloaded(err)
	}
}

func (s *Store) notify(c *Content) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.listeners {
		select {
		case ch <- c:
		default:
			s.log.Warn("content listener skipped", logging.Event("content.listener_skip"))
		}
	}
}
