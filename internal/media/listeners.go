package media

import "sync"

type registration struct {
	id      ListenerID
	handler Handler
}

// Listeners is a goroutine-safe handler registry for Element implementations to embed.
type Listeners struct {
	mu     sync.Mutex
	nextID ListenerID
	byKind map[EventKind][]registration
}

// AddEventListener registers h for kind and returns its id.
func (l *Listeners) AddEventListener(kind EventKind, h Handler) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.byKind == nil {
		l.byKind = make(map[EventKind][]registration)
	}
	l.nextID++
	l.byKind[kind] = append(l.byKind[kind], registration{id: l.nextID, handler: h})
	return l.nextID
}

// RemoveEventListener removes a handler.  Unknown ids are ignored.
func (l *Listeners) RemoveEventListener(kind EventKind, id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	regs := l.byKind[kind]
	for i, r := range regs {
		if r.id == id {
			l.byKind[kind] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Count returns the number of handlers registered for kind.
func (l *Listeners) Count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKind[kind])
}

// Total returns the number of handlers registered across all kinds.
func (l *Listeners) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, regs := range l.byKind {
		total += len(regs)
	}
	return total
}

// Dispatch calls the handlers registered for kind in registration order.  Handlers run without the registry lock
// held, so they may add or remove listeners.  A handler removed by an earlier handler in the same dispatch is skipped.
func (l *Listeners) Dispatch(kind EventKind) {
	l.mu.Lock()
	snapshot := append([]registration(nil), l.byKind[kind]...)
	l.mu.Unlock()

	for _, r := range snapshot {
		if !l.registered(kind, r.id) {
			continue
		}
		r.handler()
	}
}

func (l *Listeners) registered(kind EventKind, id ListenerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.byKind[kind] {
		if r.id == id {
			return true
		}
	}
	return false
}
