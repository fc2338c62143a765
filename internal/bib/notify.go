package bib

import "sync"

// EventType classifies a change notification.
type EventType int

const (
	// EventAdded fires after an entity is inserted into its kind's list.
	// Index carries the insertion position.
	EventAdded EventType = iota

	// EventRemoved fires after an entity is evicted from its kind's list.
	// Index carries the position the entity occupied.
	EventRemoved

	// EventChanged fires after a field or edge change. A single edit can
	// move any element after re-sorting, so the event spans the whole
	// list: Index is -1. EntityID identifies the entity whose change
	// triggered the event.
	EventChanged
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventChanged:
		return "changed"
	}
	return "unknown"
}

// Event is a change notification for one entity-kind list.
type Event struct {
	Kind     Kind
	Type     EventType
	Index    int
	EntityID string
}

const (
	queueDepth = 256
	subDepth   = 64
)

// hub delivers events to subscribers asynchronously but in commit order:
// mutations enqueue events while holding the store lock, and a single
// dispatcher goroutine fans them out.
type hub struct {
	mu     sync.Mutex
	subs   map[int]*Subscription
	nextID int
	queue  chan Event
	done   chan struct{}
}

func newHub() *hub {
	h := &hub{
		subs:  make(map[int]*Subscription),
		queue: make(chan Event, queueDepth),
		done:  make(chan struct{}),
	}
	go h.dispatch()
	return h
}

// publish enqueues an event. Callers hold the store lock, which is what
// serializes events into commit order.
func (h *hub) publish(ev Event) {
	select {
	case <-h.done:
	default:
		h.queue <- ev
	}
}

func (h *hub) dispatch() {
	for ev := range h.queue {
		h.mu.Lock()
		for id, sub := range h.subs {
			if !sub.wants(ev.Kind) {
				continue
			}
			select {
			case sub.ch <- ev:
			case <-sub.cancel:
				delete(h.subs, id)
				close(sub.ch)
			}
		}
		h.mu.Unlock()
	}

	h.mu.Lock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
	h.mu.Unlock()
}

func (h *hub) subscribe(kinds []Kind) *Subscription {
	ch := make(chan Event, subDepth)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		cancel: make(chan struct{}),
	}
	if len(kinds) == 0 {
		// No kinds means all kinds.
		for i := range sub.kinds {
			sub.kinds[i] = true
		}
	}
	for _, k := range kinds {
		sub.kinds[k] = true
	}

	h.mu.Lock()
	h.nextID++
	h.subs[h.nextID] = sub
	h.mu.Unlock()
	return sub
}

func (h *hub) close() {
	select {
	case <-h.done:
		return
	default:
	}
	close(h.done)
	close(h.queue)
}

// Subscription receives events for the kinds it was registered with.
// Events arrive on C in the order their triggering mutations committed.
//
// Delivery is lossless: a subscriber must keep draining C or call Cancel.
// One that does neither fills its buffer, then the shared queue, and from
// that point every mutation on the store blocks.
type Subscription struct {
	// C carries the subscription's events. It is closed after Cancel or
	// when the store shuts down.
	C <-chan Event

	ch     chan Event
	kinds  [kindCount]bool
	cancel chan struct{}
	once   sync.Once
}

func (s *Subscription) wants(k Kind) bool {
	return s.kinds[k]
}

// Cancel stops delivery. Buffered events may still be readable from C
// until the dispatcher closes it.
func (s *Subscription) Cancel() {
	s.once.Do(func() { close(s.cancel) })
}
