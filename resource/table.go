package resource

import (
	"sync"
)

type entry struct {
	value  any
	typeID uint32
}

// Table maps handles to live engine objects, with type IDs and observer
// support. Safe for concurrent use.
type Table struct {
	entries   map[Handle]entry
	observers []Observer
	next      Handle
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[Handle]entry),
	}
}

// Insert registers a value and returns its handle.
// Returns 0 if the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	t.next++
	h := t.next
	t.entries[h] = entry{value: value, typeID: typeID}
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return h
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[handle]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(handle Handle, typeID uint32) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[handle]
	if !ok || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Remove drops a tracked object and returns (value, true) if found.
// If the value implements Dropper, Drop is called.
func (t *Table) Remove(handle Handle) (any, bool) {
	t.mu.Lock()
	e, ok := t.entries[handle]
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	delete(t.entries, handle)
	t.mu.Unlock()

	if d, ok := e.value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: e.typeID,
		Value:  e.value,
	})

	return e.value, true
}

// Len returns the number of tracked objects.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// LenTyped returns the number of tracked objects with the given type ID.
func (t *Table) LenTyped(typeID uint32) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.typeID == typeID {
			n++
		}
	}
	return n
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear drops all tracked objects.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the lock during Remove.
	t.mu.Lock()
	handles := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		handles = append(handles, h)
	}
	t.mu.Unlock()

	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops all tracked objects and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
