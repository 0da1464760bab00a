package resource

// Handle is an opaque reference to a tracked object.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Type IDs for the engine object kinds tracked per Environment.
const (
	TypeContext uint32 = iota + 1
	TypeTemplate
	TypeValue
)

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event represents a tracked-object lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by tracked values that need cleanup
// when they are removed from the table.
type Dropper interface {
	Drop()
}
