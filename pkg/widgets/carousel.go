package widgets

import (
	"context"
	"sync"
	"time"
)

// Auto-advance intervals
const (
	SpeakerInterval = 4 * time.Second
	GalleryInterval = 3 * time.Second
)

// Carousel is an index over count slides with optional auto-advance
type Carousel struct {
	mu       sync.Mutex
	count    int
	index    int
	paused   bool
	interval time.Duration
	restart  chan struct{}
	onChange func(int)
}

// NewCarousel creates a playing carousel over count slides. onChange, when
// set, is called with the new index after every move.
func NewCarousel(count int, interval time.Duration, onChange func(int)) *Carousel {
	return &Carousel{
		count:    count,
		interval: interval,
		restart:  make(chan struct{}, 1),
		onChange: onChange,
	}
}

// Index returns the current slide
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count returns the number of slides
func (c *Carousel) Count() int {
	return c.count
}

// Paused reports whether auto-advance is stopped
func (c *Carousel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Next moves forward one slide, wrapping at the end
func (c *Carousel) Next() {
	c.move(1)
	c.kick()
}

// Prev moves back one slide, wrapping at the start
func (c *Carousel) Prev() {
	c.move(-1)
	c.kick()
}

// GoTo jumps to slide i modulo the slide count
func (c *Carousel) GoTo(i int) {
	c.mu.Lock()
	if c.count == 0 {
		c.mu.Unlock()
		return
	}
	c.index = mod(i, c.count)
	idx := c.index
	c.mu.Unlock()

	c.notify(idx)
	c.kick()
}

// Pause stops auto-advance
func (c *Carousel) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume restarts auto-advance with a full interval
func (c *Carousel) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
	c.kick()
}

// Toggle flips between paused and playing
func (c *Carousel) Toggle() {
	if c.Paused() {
		c.Resume()
		return
	}
	c.Pause()
}

// Run advances the carousel every interval until ctx is done
func (c *Carousel) Run(ctx context.Context) error {
	if c.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.restart:
			ticker.Reset(c.interval)
		case <-ticker.C:
			if !c.Paused() {
				c.move(1)
			}
		}
	}
}

func (c *Carousel) move(delta int) {
	c.mu.Lock()
	if c.count == 0 {
		c.mu.Unlock()
		return
	}
	c.index = mod(c.index+delta, c.count)
	idx := c.index
	c.mu.Unlock()

	c.notify(idx)
}

func (c *Carousel) notify(idx int) {
	if c.onChange != nil {
		c.onChange(idx)
	}
}

// kick asks Run to restart its interval; a pending restart is enough
func (c *Carousel) kick() {
	select {
	case c.restart <- struct{}{}:
	default:
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
