package services

import "sync"

// slotGuard rejects a second in-flight reserve or release on a slot
// while one is still outstanding in this process. Cross-process races
// are closed by the store's conditional update, not by this guard.
type slotGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func newSlotGuard() *slotGuard {
	return &slotGuard{inFlight: make(map[string]bool)}
}

// tryAcquire claims the slot for one operation. Returns false if an
// operation on the same slot is already running.
func (g *slotGuard) tryAcquire(slotID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[slotID] {
		return false
	}
	g.inFlight[slotID] = true
	return true
}

func (g *slotGuard) release(slotID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, slotID)
}
