// Package notifier fans out "assets changed" signals to connected pages.
package notifier

import "sync"

// Notifier delivers reload signals to every subscriber. Signals coalesce:
// a subscriber that has not consumed the previous one misses nothing, it
// simply sees one pending signal.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel func removes it and
// may be called more than once.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, ch)
			n.mu.Unlock()
		})
	}
	return ch, cancel
}

// Broadcast signals all listeners without blocking and returns how many
// received a new signal.
func (n *Notifier) Broadcast() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	sent := 0
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
			sent++
		default:
		}
	}
	return sent
}

// Len returns the number of current listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
