// Package storylock provides a per-story single-flight guard. Only one
// generation call may be in flight for a given story at a time; nothing
// downstream enforces this, so the story engine acquires the guard for the
// duration of every gateway call.
package storylock

import (
	"sync"

	"github.com/google/uuid"
)

// Guard tracks stories with an in-flight generation call.
type Guard struct {
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// New создает новый экземпляр Guard.
func New() *Guard {
	return &Guard{
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// TryAcquire marks the story as having an in-flight generation call.
// It returns false if another call already holds the guard for this story.
func (g *Guard) TryAcquire(storyID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[storyID]; busy {
		return false
	}
	g.inflight[storyID] = struct{}{}
	return true
}

// Release clears the in-flight mark for the story. Releasing a story that is
// not held is a no-op.
func (g *Guard) Release(storyID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, storyID)
}
