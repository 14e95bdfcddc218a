package session

import (
	"sync"
)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	b    *broker
	id   uint64
	once sync.Once
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.remove(s.id)
	})
}

// broker fans events out to subscribers on the publishing goroutine.
type broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(Event)
}

func newBroker() *broker {
	return &broker{subs: make(map[uint64]func(Event))}
}

func (b *broker) add(fn func(Event)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[b.nextID] = fn
	return &Subscription{b: b, id: b.nextID}
}

func (b *broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
}

func (b *broker) publish(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (b *broker) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
