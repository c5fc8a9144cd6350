package registry

import (
	"math"

	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/trace"
)

// Enum is a registered enumeration, owned by the session registry and only
// read during dumps.
type Enum struct {
	name    string
	id      uint64
	entries []trace.EnumEntry
}

// Name returns the enumeration name.
func (e *Enum) Name() string { return e.name }

// ID returns the session-wide enumeration id.
func (e *Enum) ID() uint64 { return e.id }

// Entries returns the ordered value mappings.
func (e *Enum) Entries() []trace.EnumEntry { return e.entries }

// CreateOrFindEnum registers an enumeration and returns its id. A
// structurally identical enumeration registered earlier keeps its id: the
// same declaration arrives once per instrumented process.
func (s *Session) CreateOrFindEnum(name string, entries []trace.EnumEntry) (uint64, error) {
	const op = "enum registration"

	if name == "" || len(entries) == 0 {
		return 0, trace.Errorf(trace.KindInvalidFormat, op,
			"enum needs a name and at least one entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.enums[name] {
		if trace.EntriesEqual(existing.entries, entries) {
			return existing.id, nil
		}
	}

	if s.nextEnumID == math.MaxUint64 {
		return 0, trace.Errorf(trace.KindOverflow, op, "enum id space exhausted")
	}

	e := &Enum{name: name, id: s.nextEnumID, entries: entries}
	s.nextEnumID++
	s.enums[name] = append(s.enums[name], e)

	s.log.Debug("registered enum",
		zap.String("name", name),
		zap.Uint64("enum_id", e.id),
		zap.Int("entries", len(entries)))
	return e.id, nil
}

// LookupEnum resolves an enumeration by name and id under the read-side
// section. The returned object stays valid while the dump section is held;
// registrations never mutate existing entries.
func (s *Session) LookupEnum(name string, id uint64) (*Enum, error) {
	const op = "enum lookup"

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.enums[name] {
		if e.id == id {
			return e, nil
		}
	}
	return nil, trace.Errorf(trace.KindNotFound, op,
		"unknown enum referenced by event field: name = %q, id = %d", name, id)
}
