package orders

import "sync"

// Board owns the live countdowns of the rows currently on screen.
type Board struct {
	mu     sync.Mutex
	timers map[int64]*Countdown
}

func NewBoard() *Board {
	return &Board{timers: make(map[int64]*Countdown)}
}

// Track registers c for the order, stopping any countdown it replaces.
func (b *Board) Track(orderID int64, c *Countdown) {
	b.mu.Lock()
	prev := b.timers[orderID]
	b.timers[orderID] = c
	b.mu.Unlock()

	if prev != nil && prev != c {
		prev.Stop()
	}
}

// Remove stops the order's countdown when its row goes away.
func (b *Board) Remove(orderID int64) {
	b.mu.Lock()
	c := b.timers[orderID]
	delete(b.timers, orderID)
	b.mu.Unlock()

	if c != nil {
		c.Stop()
	}
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

func (b *Board) StopAll() {
	b.mu.Lock()
	timers := b.timers
	b.timers = make(map[int64]*Countdown)
	b.mu.Unlock()

	for _, c := range timers {
		c.Stop()
	}
}
