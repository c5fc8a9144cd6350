package trace

import "time"

// ClockAttributes is a point-in-time snapshot of the trace clock. UUID is
// empty when the clock does not advertise one.
type ClockAttributes struct {
	Name        string
	UUID        string
	Description string
	Frequency   uint64
	Offset      uint64
}

// SessionInfo is the identity of a tracing session as known by the
// surrounding daemon, resolved by numeric id during session statedump.
type SessionInfo struct {
	Name                 string
	HasAutoGeneratedName bool
	CreationTime         time.Time
	Hostname             string
}
