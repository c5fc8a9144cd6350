package registry

import "github.com/weft-io/weft/internal/trace"

// EventState tracks an event's dump progress. The transition is one-way:
// a dumped event never dumps again.
type EventState uint8

const (
	EventRegistered EventState = iota
	EventDumped
)

// Event is one registered event class. Its field list is the flat,
// cursor-indexed descriptor list received from the instrumented process.
type Event struct {
	name        string
	id          uint32
	loglevel    int32
	modelEmfURI string
	fields      []trace.Field

	state EventState
}

// Name returns the event name.
func (e *Event) Name() string { return e.name }

// ID returns the event's channel-local numeric id.
func (e *Event) ID() uint32 { return e.id }

// Loglevel returns the event's log level.
func (e *Event) Loglevel() int32 { return e.loglevel }

// ModelEmfURI returns the optional model URI, empty when absent.
func (e *Event) ModelEmfURI() string { return e.modelEmfURI }

// Fields returns the event's payload descriptor list.
func (e *Event) Fields() []trace.Field { return e.fields }

// State returns the event's dump state.
func (e *Event) State() EventState { return e.state }

// MarkDumped latches the event as dumped. The latch never resets; a failed
// dump leaves it untouched so a later pass may retry.
func (e *Event) MarkDumped() { e.state = EventDumped }
