package metadata

import (
	"os"

	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/registry"
	"github.com/weft-io/weft/internal/trace"
)

const (
	specMajor = 1
	specMinor = 8
)

// creationTimeLayout is the ISO 8601 form existing readers expect in the
// env block, e.g. 20260827T143005+0000.
const creationTimeLayout = "20060102T150405-0700"

// defaultTraceName replaces auto-generated session names in the document.
const defaultTraceName = "auto"

// EventStatedump emits one event block. It is a silent no-op unless the
// parent channel is ready and the event has not been dumped yet; that
// precondition is the sole mechanism ordering parents before children. On
// success the event latches dumped; on failure the flag stays clear so a
// later pass retries.
func (d *Dumper) EventStatedump(ch *registry.Channel, ev *registry.Event) error {
	if ch.State() != registry.ChannelReady || ev.State() == registry.EventDumped {
		return nil
	}

	if err := d.printf("event {\n"+
		"	name = \"%s\";\n"+
		"	id = %d;\n"+
		"	stream_id = %d;\n",
		escapeString(ev.Name()), ev.ID(), ch.ID()); err != nil {
		return err
	}
	if err := d.printf("	loglevel = %d;\n", ev.Loglevel()); err != nil {
		return err
	}
	if uri := ev.ModelEmfURI(); uri != "" {
		if err := d.printf("	model.emf.uri = \"%s\";\n", escapeString(uri)); err != nil {
			return err
		}
	}
	if err := d.printf("	fields := struct {\n"); err != nil {
		return err
	}
	if err := d.dumpFields(ev.Fields(), 2); err != nil {
		return err
	}
	if err := d.printf("	};\n};\n\n"); err != nil {
		return err
	}

	ev.MarkDumped()
	d.s.Logger().Debug("dumped event metadata",
		zap.Uint32("channel_id", ch.ID()), zap.Uint32("event_id", ev.ID()))
	return nil
}

// ChannelStatedump emits the channel's stream block, latches it ready, then
// attempts every currently-registered event in ascending id order. Calling
// it again emits no second header and only picks up events registered since
// the previous pass.
func (d *Dumper) ChannelStatedump(ch *registry.Channel) error {
	const op = "channel statedump"

	if ch.Header() == registry.HeaderUnset {
		return trace.Errorf(trace.KindInvalidFormat, op,
			"channel %d has no event-header layout", ch.ID())
	}

	if ch.State() != registry.ChannelReady {
		headerType := "struct event_header_compact"
		if ch.Header() == registry.HeaderLarge {
			headerType = "struct event_header_large"
		}
		if err := d.printf("stream {\n"+
			"	id = %d;\n"+
			"	event.header := %s;\n"+
			"	packet.context := struct packet_context;\n",
			ch.ID(), headerType); err != nil {
			return err
		}

		if ctx := ch.Context(); len(ctx) > 0 {
			if err := d.printf("	event.context := struct {\n"); err != nil {
				return err
			}
			if err := d.dumpFields(ctx, 2); err != nil {
				return err
			}
			if err := d.printf("	};\n"); err != nil {
				return err
			}
		}

		if err := d.printf("};\n\n"); err != nil {
			return err
		}
		ch.MarkReady()
	}

	for _, ev := range ch.EventsByID() {
		if err := d.EventStatedump(ch, ev); err != nil {
			return err
		}
	}
	return nil
}

// SessionStatedump emits the once-per-session schema boilerplate: version
// comment, primitive typealiases, trace, env and clock blocks, the
// clock-mapped typealiases, the packet context and both event header
// layouts. Identity lookup or clock snapshot failure aborts the dump, which
// is fatal for the session.
func (d *Dumper) SessionStatedump() error {
	s := d.s
	abi := s.ABI()

	if err := d.printf("/* CTF %d.%d */\n\n", specMajor, specMinor); err != nil {
		return err
	}

	if err := d.printf(
		"typealias integer { size = 8; align = %d; signed = false; } := uint8_t;\n"+
			"typealias integer { size = 16; align = %d; signed = false; } := uint16_t;\n"+
			"typealias integer { size = 32; align = %d; signed = false; } := uint32_t;\n"+
			"typealias integer { size = 64; align = %d; signed = false; } := uint64_t;\n"+
			"typealias integer { size = %d; align = %d; signed = false; } := unsigned long;\n"+
			"typealias integer { size = 5; align = 1; signed = false; } := uint5_t;\n"+
			"typealias integer { size = 27; align = 1; signed = false; } := uint27_t;\n\n",
		abi.Uint8Alignment,
		abi.Uint16Alignment,
		abi.Uint32Alignment,
		abi.Uint64Alignment,
		abi.BitsPerLong,
		abi.LongAlignment); err != nil {
		return err
	}

	if err := d.printf("trace {\n"+
		"	major = %d;\n"+
		"	minor = %d;\n"+
		"	uuid = \"%s\";\n"+
		"	byte_order = %s;\n"+
		"	packet.header := struct {\n"+
		"		uint32_t magic;\n"+
		"		uint8_t  uuid[16];\n"+
		"		uint32_t stream_id;\n"+
		"		uint64_t stream_instance_id;\n"+
		"	};\n"+
		"};\n\n",
		specMajor, specMinor, s.UUID(), abi.ByteOrder); err != nil {
		return err
	}

	if err := d.dumpEnv(); err != nil {
		return err
	}
	if err := d.dumpClock(); err != nil {
		return err
	}

	if err := d.printf("struct packet_context {\n" +
		"	uint64_clock_monotonic_t timestamp_begin;\n" +
		"	uint64_clock_monotonic_t timestamp_end;\n" +
		"	uint64_t content_size;\n" +
		"	uint64_t packet_size;\n" +
		"	uint64_t packet_seq_num;\n" +
		"	unsigned long events_discarded;\n" +
		"	uint32_t cpu_id;\n" +
		"};\n\n"); err != nil {
		return err
	}

	// Compact header: ids 0-30 inline, 31 marks an extended header.
	if err := d.printf("struct event_header_compact {\n"+
		"	enum : uint5_t { compact = 0 ... 30, extended = 31 } id;\n"+
		"	variant <id> {\n"+
		"		struct {\n"+
		"			uint27_clock_monotonic_t timestamp;\n"+
		"		} compact;\n"+
		"		struct {\n"+
		"			uint32_t id;\n"+
		"			uint64_clock_monotonic_t timestamp;\n"+
		"		} extended;\n"+
		"	} v;\n"+
		"} align(%d);\n\n",
		abi.Uint32Alignment); err != nil {
		return err
	}

	// Large header: ids 0-65534 inline, 65535 marks an extended header.
	if err := d.printf("struct event_header_large {\n"+
		"	enum : uint16_t { compact = 0 ... 65534, extended = 65535 } id;\n"+
		"	variant <id> {\n"+
		"		struct {\n"+
		"			uint32_clock_monotonic_t timestamp;\n"+
		"		} compact;\n"+
		"		struct {\n"+
		"			uint32_t id;\n"+
		"			uint64_clock_monotonic_t timestamp;\n"+
		"		} extended;\n"+
		"	} v;\n"+
		"} align(%d);\n\n",
		abi.Uint16Alignment); err != nil {
		return err
	}

	s.Logger().Debug("dumped session metadata", zap.Int("bytes", len(s.Metadata())))
	return nil
}

// dumpEnv emits the env block. The buffering scheme decides the identity
// fields: per-process sessions also record the traced process.
func (d *Dumper) dumpEnv() error {
	s := d.s

	info, err := s.LookupSessionInfo()
	if err != nil {
		return err
	}

	// Best effort, like the readers treat it.
	hostname, _ := os.Hostname()

	major, minor := s.TracerVersion()
	bufferingID := s.UserID()
	if s.Scheme() == registry.PerProcess {
		bufferingID = s.Process().PID
	}
	if err := d.printf("env {\n"+
		"	hostname = \"%s\";\n"+
		"	domain = \"user\";\n"+
		"	tracer_name = \"weft-user\";\n"+
		"	tracer_major = %d;\n"+
		"	tracer_minor = %d;\n"+
		"	tracer_buffering_scheme = \"%s\";\n"+
		"	tracer_buffering_id = %d;\n"+
		"	architecture_bit_width = %d;\n",
		escapeString(hostname), major, minor,
		s.Scheme(), bufferingID, s.ABI().BitsPerLong); err != nil {
		return err
	}

	traceName := info.Name
	if info.HasAutoGeneratedName {
		traceName = defaultTraceName
	}
	if err := d.printf("	trace_name = \"%s\";\n"+
		"	trace_creation_datetime = \"%s\";\n"+
		"	trace_creation_hostname = \"%s\";\n",
		escapeString(traceName),
		info.CreationTime.Format(creationTimeLayout),
		escapeString(info.Hostname)); err != nil {
		return err
	}

	if s.Scheme() == registry.PerProcess {
		proc := s.Process()
		if err := d.printf("	vpid = %d;\n"+
			"	procname = \"%s\";\n"+
			"	vpid_datetime = \"%s\";\n",
			proc.PID, escapeString(proc.Name),
			proc.CreationTime.Format(creationTimeLayout)); err != nil {
			return err
		}
	}

	return d.printf("};\n\n")
}

// dumpClock emits the clock block from a fresh attribute snapshot and the
// clock-mapped integer typealiases derived from it.
func (d *Dumper) dumpClock() error {
	s := d.s

	clock, err := s.ClockSnapshot()
	if err != nil {
		return err
	}

	if err := d.printf("clock {\n"+
		"	name = \"%s\";\n", clock.Name); err != nil {
		return err
	}
	if clock.UUID != "" {
		if err := d.printf("	uuid = \"%s\";\n", clock.UUID); err != nil {
			return err
		}
	}
	if err := d.printf("	description = \"%s\";\n"+
		"	freq = %d; /* Frequency, in Hz */\n"+
		"	/* clock value offset from Epoch is: offset * (1/freq) */\n"+
		"	offset = %d;\n"+
		"};\n\n",
		clock.Description, clock.Frequency, clock.Offset); err != nil {
		return err
	}

	abi := s.ABI()
	return d.printf("typealias integer {\n"+
		"	size = 27; align = 1; signed = false;\n"+
		"	map = clock.%s.value;\n"+
		"} := uint27_clock_monotonic_t;\n"+
		"\n"+
		"typealias integer {\n"+
		"	size = 32; align = %d; signed = false;\n"+
		"	map = clock.%s.value;\n"+
		"} := uint32_clock_monotonic_t;\n"+
		"\n"+
		"typealias integer {\n"+
		"	size = 64; align = %d; signed = false;\n"+
		"	map = clock.%s.value;\n"+
		"} := uint64_clock_monotonic_t;\n\n",
		clock.Name, abi.Uint32Alignment, clock.Name, abi.Uint64Alignment, clock.Name)
}
