// Package capture spools the selfie captured during the verify step of the
// posting wizard into a temp file per draft. At most one stream is open per
// draft; opening a new one releases the previous.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/liftmate/liftmate/pkg/logger"
	"go.uber.org/zap"
)

var (
	// ErrNoStream means the draft has no open capture stream
	ErrNoStream = errors.New("no capture stream open")
	// ErrEmpty means the stream is open but nothing was captured yet
	ErrEmpty = errors.New("nothing captured")
)

type stream struct {
	path     string
	size     int64
	lastUsed time.Time
}

// Registry tracks the open capture streams of every draft on this instance
type Registry struct {
	dir     string
	maxSize int64
	now     func() time.Time

	mu      sync.Mutex
	streams map[string]*stream
}

// NewRegistry creates a registry that spools into dir. Captures larger than
// maxSize bytes are rejected; maxSize <= 0 disables the check.
func NewRegistry(dir string, maxSize int64) *Registry {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Registry{
		dir:     dir,
		maxSize: maxSize,
		now:     time.Now,
		streams: make(map[string]*stream),
	}
}

// Open starts a fresh, empty stream for draftID, releasing any stream it
// already had
func (r *Registry) Open(draftID string) error {
	f, err := os.CreateTemp(r.dir, "capture-*.img")
	if err != nil {
		return fmt.Errorf("open capture stream: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("open capture stream: %w", err)
	}

	r.mu.Lock()
	old := r.streams[draftID]
	r.streams[draftID] = &stream{path: path, lastUsed: r.now()}
	r.mu.Unlock()

	if old != nil {
		removeFile(old.path)
	}
	return nil
}

// Write replaces the content of the open stream with the image read from src
func (r *Registry) Write(draftID string, src io.Reader) (int64, error) {
	r.mu.Lock()
	s, ok := r.streams[draftID]
	r.mu.Unlock()
	if !ok {
		return 0, ErrNoStream
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("write capture: %w", err)
	}
	defer f.Close()

	reader := src
	if r.maxSize > 0 {
		reader = io.LimitReader(src, r.maxSize+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		return 0, fmt.Errorf("write capture: %w", err)
	}
	if r.maxSize > 0 && n > r.maxSize {
		_ = f.Truncate(0)
		return 0, fmt.Errorf("capture exceeds %d bytes", r.maxSize)
	}

	r.mu.Lock()
	if cur, ok := r.streams[draftID]; ok && cur == s {
		s.size = n
		s.lastUsed = r.now()
	}
	r.mu.Unlock()
	return n, nil
}

// Read returns the captured image of draftID
func (r *Registry) Read(draftID string) ([]byte, error) {
	r.mu.Lock()
	s, ok := r.streams[draftID]
	if ok {
		s.lastUsed = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return nil, ErrNoStream
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

// Has reports whether draftID has an open stream
func (r *Registry) Has(draftID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.streams[draftID]
	return ok
}

// Touch marks the stream as used so the sweeper leaves it alone
func (r *Registry) Touch(draftID string) {
	r.mu.Lock()
	if s, ok := r.streams[draftID]; ok {
		s.lastUsed = r.now()
	}
	r.mu.Unlock()
}

// Release closes the stream of draftID. Releasing a draft without a stream is a no-op.
func (r *Registry) Release(draftID string) {
	r.mu.Lock()
	s, ok := r.streams[draftID]
	delete(r.streams, draftID)
	r.mu.Unlock()

	if ok {
		removeFile(s.path)
	}
}

// Count returns the number of open streams
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// Sweep releases streams idle for longer than maxIdle and returns how many it released
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*stream
	for id, s := range r.streams {
		if s.lastUsed.Before(cutoff) {
			stale = append(stale, s)
			delete(r.streams, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		removeFile(s.path)
	}
	return len(stale)
}

// ReleaseAll closes every stream, used on shutdown
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	all := r.streams
	r.streams = make(map[string]*stream)
	r.mu.Unlock()

	for _, s := range all {
		removeFile(s.path)
	}
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove capture file", zap.String("path", path), zap.Error(err))
	}
}
