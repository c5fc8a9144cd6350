package registry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/weft-io/weft/internal/trace"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewPerUserSession(SessionConfig{TracingID: 7}, 1000)

	require.Equal(t, uint64(7), s.TracingID())
	require.NotEqual(t, uuid.UUID{}, s.UUID(), "a missing UUID must be generated")
	require.Equal(t, trace.DefaultABI(), s.ABI())
	require.NotNil(t, s.Logger())
	require.Equal(t, PerUser, s.Scheme())
	require.Equal(t, "uid", s.Scheme().String())
	require.Equal(t, 1000, s.UserID())
}

func TestNewPerProcessSession(t *testing.T) {
	proc := ProcessIdentity{PID: 4242, Name: "demo"}
	s := NewPerProcessSession(SessionConfig{}, proc)

	require.Equal(t, PerProcess, s.Scheme())
	require.Equal(t, "pid", s.Scheme().String())
	require.Equal(t, proc, s.Process())
}

func TestLookupsWithoutResolvers(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)

	_, err := s.LookupSessionInfo()
	require.True(t, trace.IsKind(err, trace.KindNotFound))

	_, err = s.ClockSnapshot()
	require.True(t, trace.IsKind(err, trace.KindNotFound))
}

func TestAddChannelAssignsSequentialIDs(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)

	for want := uint32(0); want < 3; want++ {
		ch := s.AddChannel(HeaderCompact, nil)
		require.Equal(t, want, ch.ID())
		require.Equal(t, ChannelRegistered, ch.State())
	}
	require.Len(t, s.Channels(), 3)
}

func TestMarkReadyLatches(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)
	ch := s.AddChannel(HeaderLarge, nil)

	ch.MarkReady()
	require.Equal(t, ChannelReady, ch.State())
	ch.MarkReady()
	require.Equal(t, ChannelReady, ch.State())
}

func TestAddEventPerUserDeduplicates(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)
	ch := s.AddChannel(HeaderCompact, nil)

	fields := []trace.Field{{Name: "count", Type: trace.IntegerType{Size: 32, Alignment: 8, Base: 10}}}

	id1, err := ch.AddEvent("greet", 13, "", fields)
	require.NoError(t, err)
	require.Equal(t, uint32(0), id1)

	// Same registration from another process folds onto the same id.
	id2, err := ch.AddEvent("greet", 13, "", fields)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	// A different loglevel is a different event class.
	id3, err := ch.AddEvent("greet", 14, "", fields)
	require.NoError(t, err)
	require.Equal(t, uint32(1), id3)

	require.Len(t, ch.EventsByID(), 2)
}

func TestAddEventPerProcessRejectsDuplicates(t *testing.T) {
	s := NewPerProcessSession(SessionConfig{}, ProcessIdentity{PID: 1})
	ch := s.AddChannel(HeaderCompact, nil)

	_, err := ch.AddEvent("greet", 13, "", nil)
	require.NoError(t, err)

	_, err = ch.AddEvent("greet", 13, "", nil)
	require.True(t, trace.IsKind(err, trace.KindInvalidFormat))
}

func TestEventsByIDSorted(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)
	ch := s.AddChannel(HeaderCompact, nil)

	for _, name := range []string{"third", "first", "second"} {
		_, err := ch.AddEvent(name, 0, "", nil)
		require.NoError(t, err)
	}

	events := ch.EventsByID()
	require.Len(t, events, 3)
	for i, ev := range events {
		require.Equal(t, uint32(i), ev.ID(), "events must come back in ascending id order")
	}
	require.Equal(t, "third", events[0].Name())
}

func TestCreateOrFindEnum(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)

	entries := []trace.EnumEntry{
		{Label: "OK", Start: trace.EnumValue{Value: 0}, End: trace.EnumValue{Value: 0}},
	}

	id1, err := s.CreateOrFindEnum("status", entries)
	require.NoError(t, err)

	id2, err := s.CreateOrFindEnum("status", entries)
	require.NoError(t, err)
	require.Equal(t, id1, id2, "a structurally identical enum keeps its id")

	other := []trace.EnumEntry{
		{Label: "OK", Start: trace.EnumValue{Value: 1}, End: trace.EnumValue{Value: 1}},
	}
	id3, err := s.CreateOrFindEnum("status", other)
	require.NoError(t, err)
	require.NotEqual(t, id1, id3, "same name with different entries is a new enum")

	e, err := s.LookupEnum("status", id3)
	require.NoError(t, err)
	require.Equal(t, other, e.Entries())

	_, err = s.LookupEnum("status", 999)
	require.True(t, trace.IsKind(err, trace.KindNotFound))
	_, err = s.LookupEnum("missing", id1)
	require.True(t, trace.IsKind(err, trace.KindNotFound))
}

func TestCreateOrFindEnumValidation(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)

	_, err := s.CreateOrFindEnum("", []trace.EnumEntry{{Label: "A", Auto: true}})
	require.True(t, trace.IsKind(err, trace.KindInvalidFormat))

	_, err = s.CreateOrFindEnum("empty", nil)
	require.True(t, trace.IsKind(err, trace.KindInvalidFormat))
}

func TestAppendfMirrorsBytes(t *testing.T) {
	var mirror bytes.Buffer
	s := NewPerUserSession(SessionConfig{Mirror: &mirror}, 0)

	d := s.BeginDump()
	defer d.End()

	require.NoError(t, d.Appendf("plain text\n"))
	require.NoError(t, d.Appendf("formatted %d %q\n", 42, "x"))

	want := "plain text\nformatted 42 \"x\"\n"
	require.Equal(t, want, string(s.Metadata()))
	require.Equal(t, want, mirror.String(), "the mirror must receive byte-identical output")
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

type failWriter struct{ err error }

func (w failWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestAppendfShortMirrorWrite(t *testing.T) {
	s := NewPerUserSession(SessionConfig{Mirror: shortWriter{}}, 0)

	d := s.BeginDump()
	defer d.End()

	err := d.Appendf("hello")
	require.True(t, trace.IsKind(err, trace.KindIO))
	require.Equal(t, "hello", string(s.Metadata()), "the in-memory document keeps the write")
}

func TestAppendfFailedMirrorWrite(t *testing.T) {
	cause := errors.New("pipe closed")
	s := NewPerUserSession(SessionConfig{Mirror: failWriter{err: cause}}, 0)

	d := s.BeginDump()
	defer d.End()

	err := d.Appendf("hello")
	require.True(t, trace.IsKind(err, trace.KindIO))
	require.ErrorIs(t, err, cause)
}

func TestAppendfHonorsBufferCap(t *testing.T) {
	s := NewPerUserSession(SessionConfig{BufferCap: 8}, 0)

	d := s.BeginDump()
	defer d.End()

	require.NoError(t, d.Appendf("12345678"))
	err := d.Appendf("9")
	require.True(t, trace.IsKind(err, trace.KindOutOfMemory))
}

func TestDumpSectionEndIdempotent(t *testing.T) {
	s := NewPerUserSession(SessionConfig{}, 0)

	d := s.BeginDump()
	d.End()
	d.End()

	// A double unlock would panic above; the section must be reacquirable.
	d2 := s.BeginDump()
	require.Same(t, s, d2.Session())
	d2.End()
}

func TestSessionInfoStore(t *testing.T) {
	st := NewSessionInfoStore()
	st.Put(3, trace.SessionInfo{Name: "bench", Hostname: "host-a"})

	info, err := st.LookupSessionInfo(3)
	require.NoError(t, err)
	require.Equal(t, "bench", info.Name)

	_, err = st.LookupSessionInfo(4)
	require.True(t, trace.IsKind(err, trace.KindNotFound))
}

func TestSystemClockSnapshot(t *testing.T) {
	attrs, err := SystemClock{UUID: "abc"}.Snapshot()
	require.NoError(t, err)
	require.Equal(t, "monotonic", attrs.Name)
	require.Equal(t, "abc", attrs.UUID)
	require.Equal(t, uint64(1000000000), attrs.Frequency)
	require.NotZero(t, attrs.Offset)
}
