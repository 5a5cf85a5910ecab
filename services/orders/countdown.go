package orders

import (
	"context"
	"sync"
	"time"

	"github.com/magicesim/storefront/services/format"
)

const DefaultInterval = time.Second

// Countdown recomputes the time left to an expiry once per interval and
// publishes the label on Labels. When the expiry is reached it publishes
// "Expired", closes Labels and stops.
type Countdown struct {
	Initial string

	expiresAt time.Time
	interval  time.Duration
	now       func() time.Time

	labels chan string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

type CountdownOption func(*Countdown)

func WithInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithClock(now func() time.Time) CountdownOption {
	return func(c *Countdown) {
		if now != nil {
			c.now = now
		}
	}
}

// StartCountdown starts the ticker goroutine unless expiresAt has already
// passed, in which case the countdown is born expired and no timer runs.
// The goroutine exits when ctx is done, Stop is called or the expiry is hit.
func StartCountdown(ctx context.Context, expiresAt time.Time, opts ...CountdownOption) *Countdown {
	c := &Countdown{
		expiresAt: expiresAt,
		interval:  DefaultInterval,
		now:       time.Now,
		labels:    make(chan string, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	label, live := CountdownLabel(&c.expiresAt, c.now())
	c.Initial = label
	if !live {
		c.labels <- format.Expired
		close(c.labels)
		close(c.done)
		c.cancel = func() {}
		return c
	}

	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
	return c
}

func (c *Countdown) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.labels)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			label, live := CountdownLabel(&c.expiresAt, c.now())
			if !c.emit(ctx, label) || !live {
				return
			}
		}
	}
}

// emit drops a stale label the reader has not taken yet so the channel
// always holds the newest one.
func (c *Countdown) emit(ctx context.Context, label string) bool {
	select {
	case <-c.labels:
	default:
	}
	select {
	case c.labels <- label:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Countdown) Labels() <-chan string {
	return c.labels
}

// Done is closed once the countdown has stopped for any reason.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Stop cancels the countdown and waits for its goroutine. It is safe to call
// more than once and after the countdown expired on its own.
func (c *Countdown) Stop() {
	c.once.Do(c.cancel)
	<-c.done
}
