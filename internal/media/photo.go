package media

import "sync"

// PhotoLibrary holds the most recently captured asset photo. The source app
// funnels every capture through one process-wide picker; here that is an
// explicitly owned single instance handed to whoever needs the bytes, so
// tests can substitute their own.
type PhotoLibrary struct {
	mu      sync.Mutex
	current []byte
}

func NewPhotoLibrary() *PhotoLibrary {
	return &PhotoLibrary{}
}

// Capture replaces the held photo with a copy of the given bytes.
func (p *PhotoLibrary) Capture(image []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = append([]byte(nil), image...)
}

// Current returns the held photo, or nil when nothing was captured.
func (p *PhotoLibrary) Current() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *PhotoLibrary) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}
