// Package metadata emits the textual trace-schema document describing a
// session's packet and event layouts. It walks the field-descriptor lists
// registered for each channel and event and appends declaration text to the
// session's document buffer, mirrored to the persisted copy when one is
// attached. The emitted bytes are consumed verbatim by independent trace
// readers, so every format string here is part of the external contract.
package metadata

import (
	"fmt"
	"strings"

	"github.com/weft-io/weft/internal/registry"
)

// Dumper is the write capability for one session's document. Obtaining it
// acquires the session's exclusive dump section; every statedump entry
// point is a method on it. It must be released with End.
type Dumper struct {
	sec *registry.DumpSection
	s   *registry.Session
}

// Begin acquires the session's exclusive dump section.
func Begin(s *registry.Session) *Dumper {
	return &Dumper{sec: s.BeginDump(), s: s}
}

// End releases the dump section.
func (d *Dumper) End() {
	d.sec.End()
}

// printf appends formatted text to the document and its mirrored copy.
func (d *Dumper) printf(format string, args ...interface{}) error {
	return d.sec.Appendf(format, args...)
}

// indent returns the declaration padding, one tab per nesting level,
// matching the document layout existing readers expect.
func indent(nesting int) string {
	return strings.Repeat("\t", nesting)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// reverseByteOrderClause names the byte order opposite the session's
// declared native order, for primitives recorded byte-swapped.
func (d *Dumper) reverseByteOrderClause() string {
	return fmt.Sprintf(" byte_order = %s;", d.s.ABI().ByteOrder.Reverse())
}
