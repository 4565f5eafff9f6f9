package widgets

import "sync"

// Keys understood by the lightbox
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Lightbox tracks the asset shown full-screen in a gallery. While open the
// gallery carousel, if any, is paused.
type Lightbox struct {
	mu       sync.Mutex
	count    int
	selected int
	open     bool
	gallery  *Carousel
}

// NewLightbox creates a closed lightbox over count assets
func NewLightbox(count int, gallery *Carousel) *Lightbox {
	return &Lightbox{count: count, gallery: gallery}
}

// GalleryColumns returns the number of two-asset columns for n assets
func GalleryColumns(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}

// Open shows asset i
func (l *Lightbox) Open(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= l.count {
		return
	}
	l.selected = i
	if !l.open && l.gallery != nil {
		l.gallery.Pause()
	}
	l.open = true
}

// Close hides the lightbox
func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return
	}
	l.open = false
	if l.gallery != nil {
		l.gallery.Resume()
	}
}

// HandleKey applies a keyboard event and reports whether it was consumed
func (l *Lightbox) HandleKey(key string) bool {
	l.mu.Lock()
	if !l.open {
		l.mu.Unlock()
		return false
	}

	switch key {
	case KeyEscape:
		l.mu.Unlock()
		l.Close()
		return true
	case KeyArrowRight:
		l.selected = mod(l.selected+1, l.count)
	case KeyArrowLeft:
		l.selected = mod(l.selected-1, l.count)
	default:
		l.mu.Unlock()
		return false
	}
	l.mu.Unlock()
	return true
}

// Selected returns the open asset index, or false when closed
func (l *Lightbox) Selected() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected, l.open
}
