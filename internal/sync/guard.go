package sync

import "sync"

// ownerGuard is one owner's run: the events awaiting processing, in
// admission order, and whether a worker currently owns the run.
type ownerGuard struct {
	events []*Event
	busy   bool
}

// GuardRegistry serializes event processing per owner. Events are appended
// to their owner's run in admission order; at most one worker drains an
// owner's run at a time, so handler execution is strictly sequential per
// owner while distinct owners proceed concurrently.
//
// Guards are created lazily and retained for the process lifetime; the
// per-owner footprint after a run drains is a small empty struct.
type GuardRegistry struct {
	mu      sync.Mutex
	guards  map[string]*ownerGuard
	pending int
}

func NewGuardRegistry() *GuardRegistry {
	return &GuardRegistry{
		guards: make(map[string]*ownerGuard),
	}
}

// Add appends the event to its owner's run. Returns true when the owner has
// no active worker, in which case the caller must schedule one; false means
// the run is already owned and the event will be picked up in order.
func (g *GuardRegistry) Add(ev *Event) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	og, ok := g.guards[ev.OwnerID]
	if !ok {
		og = &ownerGuard{}
		g.guards[ev.OwnerID] = og
	}

	og.events = append(og.events, ev)
	g.pending++

	if og.busy {
		return false
	}
	og.busy = true
	return true
}

// Next pops the oldest pending event of the owner's run. When the run is
// empty it releases the run and returns nil; the next Add will report that
// a new worker is needed.
func (g *GuardRegistry) Next(ownerID string) *Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	og, ok := g.guards[ownerID]
	if !ok {
		return nil
	}
	if len(og.events) == 0 {
		og.busy = false
		return nil
	}

	ev := og.events[0]
	og.events[0] = nil
	og.events = og.events[1:]
	g.pending--
	return ev
}

// Pending returns the total number of events awaiting processing.
func (g *GuardRegistry) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Len returns the number of owners with a guard.
func (g *GuardRegistry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.guards)
}
