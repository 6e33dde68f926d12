package search

import "sync"

// broadcaster fans State out to subscribers without ever blocking the
// publisher. Each subscriber channel holds at most one pending state; a
// newer state replaces an unread one.
type broadcaster struct {
	mu      sync.Mutex
	subs    []chan State
	current State
	closed  bool
}

func newBroadcaster(initial State) *broadcaster {
	return &broadcaster{current: initial}
}

// subscribe returns a channel primed with the current state.
func (b *broadcaster) subscribe() <-chan State {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan State, 1)
	if b.closed {
		close(ch)
		return ch
	}
	ch <- b.current
	b.subs = append(b.subs, ch)
	return ch
}

// unsubscribe removes and closes ch. Unknown channels are ignored.
func (b *broadcaster) unsubscribe(ch <-chan State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// publish delivers s to every subscriber, replacing any unread state.
func (b *broadcaster) publish(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.current = s

	for _, ch := range b.subs {
		// Drop the stale pending value, if any.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// close closes all subscriber channels. Later publishes are no-ops.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
