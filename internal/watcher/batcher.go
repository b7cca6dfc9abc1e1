package watcher

import (
	"sort"
	"sync"
	"time"
)

// Batcher collects changed paths until the tree has been quiet for the
// debounce delay. At most one batch is handed out at a time.
type Batcher struct {
	mu         sync.Mutex
	delay      time.Duration
	pending    map[string]struct{}
	lastEvent  time.Time
	processing bool
	now        func() time.Time
}

func NewBatcher(delay time.Duration) *Batcher {
	return &Batcher{
		delay:   delay,
		pending: make(map[string]struct{}),
		now:     time.Now,
	}
}

// Add records a changed path and restarts the quiet period.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[path] = struct{}{}
	b.lastEvent = b.now()
}

// Ready drains the pending set when the quiet period has elapsed and no batch
// is in flight. The caller must call Done once the batch is handled.
func (b *Batcher) Ready() ([]string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.processing || len(b.pending) == 0 {
		return nil, false
	}
	if b.now().Sub(b.lastEvent) < b.delay {
		return nil, false
	}

	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	b.pending = make(map[string]struct{})
	b.processing = true
	return paths, true
}

// Done releases the in-flight batch.
func (b *Batcher) Done() {
	b.mu.Lock()
	b.processing = false
	b.mu.Unlock()
}

// Pending returns the number of paths waiting for the next batch.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
