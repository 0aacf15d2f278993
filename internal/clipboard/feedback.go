// Package clipboard tracks copy-to-clipboard feedback for a live page.
//
// Copying itself happens in the browser, which reports the outcome. The
// server keeps the transient "copied" indicator and the failure toast, and
// clears each after a fixed delay.
package clipboard

import (
	"sync"
	"time"
)

// DefaultResetDelay is how long feedback stays visible.
const DefaultResetDelay = 2 * time.Second

// FailedMessage is the toast shown when the browser could not copy.
const FailedMessage = "Failed to copy to clipboard"

// Scheduler delivers msg back to the component after d. *core.Socket
// implements it.
type Scheduler interface {
	SendAfter(d time.Duration, msg any) (cancel func())
}

// Expired is the mailbox message that clears feedback set by report Seq.
type Expired struct {
	Seq uint64
}

// Feedback is the per-page copy feedback state.
type Feedback struct {
	delay time.Duration

	mu        sync.Mutex
	seq       uint64
	copied    string
	copiedSeq uint64
	toast     string
	toastSeq  uint64
	cancels   map[uint64]func()
}

// New returns feedback state that resets after delay.
func New(delay time.Duration) *Feedback {
	if delay <= 0 {
		delay = DefaultResetDelay
	}
	return &Feedback{delay: delay, cancels: make(map[uint64]func())}
}

// Delay returns the reset delay.
func (f *Feedback) Delay() time.Duration { return f.delay }

// Report records the browser's outcome for the copy button id and schedules
// the reset. A nil scheduler records without scheduling.
func (f *Feedback) Report(s Scheduler, id string, ok bool) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	if ok {
		f.copied, f.copiedSeq = id, seq
	} else {
		f.toast, f.toastSeq = FailedMessage, seq
	}
	f.mu.Unlock()

	if s == nil {
		return
	}
	cancel := s.SendAfter(f.delay, Expired{Seq: seq})

	f.mu.Lock()
	f.cancels[seq] = cancel
	f.mu.Unlock()
}

// Expire clears whatever report msg.Seq set, unless a newer report has
// replaced it. It reports whether anything visible changed.
func (f *Feedback) Expire(msg Expired) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.cancels, msg.Seq)
	changed := false
	if f.copied != "" && f.copiedSeq == msg.Seq {
		f.copied = ""
		changed = true
	}
	if f.toast != "" && f.toastSeq == msg.Seq {
		f.toast = ""
		changed = true
	}
	return changed
}

// DismissToast hides the toast immediately.
func (f *Feedback) DismissToast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toast = ""
}

// Copied reports whether id is the button currently showing "copied".
func (f *Feedback) Copied(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return id != "" && f.copied == id
}

// CopiedID returns the button currently showing "copied", if any.
func (f *Feedback) CopiedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copied
}

// Toast returns the visible toast text, if any.
func (f *Feedback) Toast() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toast
}

// Stop cancels pending resets.
func (f *Feedback) Stop() {
	f.mu.Lock()
	cancels := f.cancels
	f.cancels = make(map[uint64]func())
	f.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
