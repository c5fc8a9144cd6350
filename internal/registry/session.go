// Package registry holds the per-session bookkeeping the schema generator
// works from: the growable output buffer, channels and their events,
// registered enumerations, and the concurrency sections guarding them.
// Entities are created by registration, and their dump-state flags only ever
// move forward.
package registry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/trace"
)

// BufferingScheme selects how trace buffers are grouped, which in turn
// decides the identity fields emitted in the document's env block.
type BufferingScheme uint8

const (
	PerUser BufferingScheme = iota
	PerProcess
)

// String returns the scheme tag emitted in the env block.
func (s BufferingScheme) String() string {
	if s == PerProcess {
		return "pid"
	}
	return "uid"
}

// ProcessIdentity describes the instrumented process backing a per-process
// session.
type ProcessIdentity struct {
	PID          int
	Name         string
	CreationTime time.Time
}

// InfoResolver resolves a tracing session's identity by numeric id. A
// missing session is reported with a trace.KindNotFound error and aborts
// the session statedump that needed it.
type InfoResolver interface {
	LookupSessionInfo(id uint64) (trace.SessionInfo, error)
}

// ClockSource snapshots the trace clock attributes. A failed snapshot
// aborts the session statedump.
type ClockSource interface {
	Snapshot() (trace.ClockAttributes, error)
}

// SessionConfig carries the collaborator inputs a session registry is
// created with. Zero values fall back to sane defaults where one exists.
type SessionConfig struct {
	TracingID   uint64
	UUID        uuid.UUID
	ABI         trace.ABI
	TracerMajor uint32
	TracerMinor uint32

	// Mirror receives a byte-identical copy of everything appended to
	// the in-memory document. Optional.
	Mirror io.Writer

	// BufferCap bounds the in-memory document allocation. Zero means
	// uncapped.
	BufferCap int

	Info   InfoResolver
	Clock  ClockSource
	Logger *zap.Logger
}

// Session is the per-session registry. The zero value is not usable; build
// one with NewPerUserSession or NewPerProcessSession.
type Session struct {
	tracingID   uint64
	uuid        uuid.UUID
	abi         trace.ABI
	scheme      BufferingScheme
	proc        ProcessIdentity // valid when scheme == PerProcess
	uid         int             // valid when scheme == PerUser
	tracerMajor uint32
	tracerMinor uint32

	info  InfoResolver
	clock ClockSource
	log   *zap.Logger

	// dumpMu is the exclusive dump section. Everything below it is only
	// touched while it is held.
	dumpMu sync.Mutex
	buf    Buffer
	mirror io.Writer

	// mu is the read-side lookup section: registrations take the write
	// side, lookups during a dump take the read side.
	mu         sync.RWMutex
	channels   []*Channel
	enums      map[string][]*Enum
	nextEnumID uint64
}

func newSession(cfg SessionConfig, scheme BufferingScheme) *Session {
	if cfg.UUID == (uuid.UUID{}) {
		cfg.UUID = uuid.New()
	}
	if cfg.ABI == (trace.ABI{}) {
		cfg.ABI = trace.DefaultABI()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		tracingID:   cfg.TracingID,
		uuid:        cfg.UUID,
		abi:         cfg.ABI,
		scheme:      scheme,
		tracerMajor: cfg.TracerMajor,
		tracerMinor: cfg.TracerMinor,
		info:        cfg.Info,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		buf:         Buffer{hardCap: cfg.BufferCap},
		mirror:      cfg.Mirror,
		enums:       make(map[string][]*Enum),
	}
}

// NewPerUserSession creates the registry of a session whose trace buffers
// are shared by every process of one user.
func NewPerUserSession(cfg SessionConfig, uid int) *Session {
	s := newSession(cfg, PerUser)
	s.uid = uid
	return s
}

// NewPerProcessSession creates the registry of a session with one trace
// buffer per instrumented process.
func NewPerProcessSession(cfg SessionConfig, proc ProcessIdentity) *Session {
	s := newSession(cfg, PerProcess)
	s.proc = proc
	return s
}

// TracingID returns the daemon-wide numeric id of the owning session.
func (s *Session) TracingID() uint64 { return s.tracingID }

// UUID returns the trace UUID.
func (s *Session) UUID() uuid.UUID { return s.uuid }

// ABI returns the alignment table and byte order the session records in.
func (s *Session) ABI() trace.ABI { return s.abi }

// Scheme returns the buffering scheme tag.
func (s *Session) Scheme() BufferingScheme { return s.scheme }

// Process returns the process identity of a per-process session.
func (s *Session) Process() ProcessIdentity { return s.proc }

// UserID returns the owning uid of a per-user session.
func (s *Session) UserID() int { return s.uid }

// TracerVersion returns the instrumentation library version advertised at
// registration.
func (s *Session) TracerVersion() (major, minor uint32) {
	return s.tracerMajor, s.tracerMinor
}

// Logger returns the session's diagnostic logger, never nil.
func (s *Session) Logger() *zap.Logger { return s.log }

// LookupSessionInfo resolves the session identity through the configured
// resolver.
func (s *Session) LookupSessionInfo() (trace.SessionInfo, error) {
	const op = "session info lookup"
	if s.info == nil {
		return trace.SessionInfo{}, trace.Errorf(trace.KindNotFound, op,
			"no session info resolver configured")
	}
	return s.info.LookupSessionInfo(s.tracingID)
}

// ClockSnapshot captures the trace clock attributes through the configured
// source.
func (s *Session) ClockSnapshot() (trace.ClockAttributes, error) {
	const op = "clock snapshot"
	if s.clock == nil {
		return trace.ClockAttributes{}, trace.Errorf(trace.KindNotFound, op,
			"no clock source configured")
	}
	return s.clock.Snapshot()
}

// Metadata returns the document emitted so far. Callers must hold the dump
// section while retaining the slice.
func (s *Session) Metadata() []byte { return s.buf.Bytes() }

// DumpSection is the capability proving its holder owns the session's
// exclusive dump section. Every emission primitive hangs off it; there is
// no other way to write the document.
type DumpSection struct {
	s    *Session
	done bool
}

// BeginDump acquires the exclusive dump section and returns the write
// capability. The caller must release it with End.
func (s *Session) BeginDump() *DumpSection {
	s.dumpMu.Lock()
	return &DumpSection{s: s}
}

// End releases the dump section. The capability must not be used afterward.
func (d *DumpSection) End() {
	if d.done {
		return
	}
	d.done = true
	d.s.dumpMu.Unlock()
}

// Session returns the session this capability writes to.
func (d *DumpSection) Session() *Session { return d.s }

// Appendf renders formatted text, reserves space for it in the document
// buffer, copies it in, and mirrors the identical bytes to the persisted
// copy when one is attached. A short or failed mirrored write is fatal to
// the current dump call; the in-memory document is left as written.
func (d *DumpSection) Appendf(format string, args ...interface{}) error {
	const op = "metadata append"

	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	offset, err := d.s.buf.Reserve(len(text))
	if err != nil {
		return err
	}
	copy(d.s.buf.Bytes()[offset:], text)

	if d.s.mirror != nil {
		n, err := io.WriteString(d.s.mirror, text)
		if err != nil {
			return trace.WrapError(trace.KindIO, op, err)
		}
		if n != len(text) {
			return trace.Errorf(trace.KindIO, op,
				"short write to mirrored copy: %d of %d bytes", n, len(text))
		}
	}
	return nil
}
