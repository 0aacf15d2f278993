// Package pool recycles the byte buffers pages are rendered into.
package pool

import (
	"bytes"
	"sync"
)

// MaxPooledSize is the largest capacity Default keeps. A docs page renders
// well under this; anything bigger is left for the collector.
const MaxPooledSize = 256 * 1024

// Buffers is a pool of reset bytes.Buffers with a capacity ceiling.
type Buffers struct {
	max int
	p   sync.Pool
}

// NewBuffers returns a pool that drops buffers grown beyond max bytes.
func NewBuffers(max int) *Buffers {
	b := &Buffers{max: max}
	b.p.New = func() any { return new(bytes.Buffer) }
	return b
}

// Get returns an empty buffer.
func (b *Buffers) Get() *bytes.Buffer {
	buf := b.p.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put hands buf back. Nil and oversized buffers are ignored.
func (b *Buffers) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > b.max {
		return
	}
	b.p.Put(buf)
}

// Default serves the router's render paths.
var Default = NewBuffers(MaxPooledSize)

// GetBuffer is Default.Get.
func GetBuffer() *bytes.Buffer { return Default.Get() }

// PutBuffer is Default.Put.
func PutBuffer(buf *bytes.Buffer) { Default.Put(buf) }
