package dispatch

import (
	"sort"
	"sync"
)

// registry maps channel names to their single owner.
// Lookups from the dispatch loop take only the read lock; the manager's
// coarse lock additionally serializes mutations with transport commands.
type registry struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func newRegistry() *registry {
	return &registry{subs: make(map[string]Subscriber)}
}

func (r *registry) get(channel string) (Subscriber, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subs[channel]
	return s, ok
}

// put installs s as the owner of channel and returns the replaced owner, if any.
func (r *registry) put(channel string, s Subscriber) (Subscriber, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.subs[channel]
	r.subs[channel] = s
	return prev, ok
}

// removeIf deletes channel only when s is its current owner.
func (r *registry) removeIf(channel string, s Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.subs[channel]
	if !ok || !sameSubscriber(cur, s) {
		return false
	}
	delete(r.subs, channel)
	return true
}

func (r *registry) has(channel string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.subs[channel]
	return ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// names returns a sorted snapshot of registered channels.
func (r *registry) names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.subs))
	for name := range r.subs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
