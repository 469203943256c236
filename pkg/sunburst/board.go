package sunburst

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Frame is a published chart.
type Frame struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Published time.Time `json:"published"`
	Chart     *Chart    `json:"chart"`
}

// Board holds the most recent chart for hosts that rebuild on every fetch.
//
// Each fetch takes a ticket before it starts. When the fetch completes it
// publishes with that ticket; the board keeps the result only if no fetch
// that started later has already published. A slow response therefore never
// overwrites a newer one. The zero value is ready to use.
type Board struct {
	mu      sync.RWMutex
	issued  uint64
	current *Frame
}

// Ticket reserves the next sequence number.
func (b *Board) Ticket() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return b.issued
}

// Publish stores c under ticket seq. It returns the stored frame and true,
// or the current frame and false when seq is stale.
func (b *Board) Publish(seq uint64, c *Chart) (*Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && seq <= b.current.Seq {
		return b.current, false
	}
	b.current = &Frame{
		ID:        uuid.NewString(),
		Seq:       seq,
		Published: time.Now(),
		Chart:     c,
	}
	return b.current, true
}

// Current returns the newest frame, or nil before the first publish.
func (b *Board) Current() *Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}
