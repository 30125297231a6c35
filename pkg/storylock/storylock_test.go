package storylock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuard_TryAcquireRelease(t *testing.T) {
	g := New()
	storyID := uuid.New()
	otherID := uuid.New()

	assert.True(t, g.TryAcquire(storyID), "first acquire should succeed")
	assert.False(t, g.TryAcquire(storyID), "second acquire on the same story should fail")
	assert.True(t, g.TryAcquire(otherID), "acquire on a different story should succeed")

	g.Release(storyID)
	assert.True(t, g.TryAcquire(storyID), "acquire after release should succeed")
}

func TestGuard_ReleaseUnheldIsNoop(t *testing.T) {
	g := New()
	storyID := uuid.New()

	g.Release(storyID)
	assert.True(t, g.TryAcquire(storyID))
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	g := New()
	storyID := uuid.New()

	const goroutines = 50
	var wg sync.WaitGroup
	acquired := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire(storyID) {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}
	assert.Equal(t, 1, count, "exactly one goroutine should win the guard")
}
