package registry

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/trace"
)

// HeaderKind selects the binary event-header layout of a channel's records.
type HeaderKind uint8

const (
	HeaderUnset HeaderKind = iota
	HeaderCompact
	HeaderLarge
)

// ChannelState tracks a channel's dump progress. Transitions are one-way:
// a channel that became ready never goes back.
type ChannelState uint8

const (
	ChannelRegistered ChannelState = iota
	ChannelReady
)

// Channel groups events sharing one binary record layout. One stream block
// of the schema document corresponds to one channel.
type Channel struct {
	session *Session
	id      uint32
	header  HeaderKind
	ctx     []trace.Field

	state       ChannelState
	events      map[uint32]*Event
	byName      map[string][]*Event
	nextEventID uint32
}

// AddChannel registers a channel with the next free id. Context fields, if
// any, are emitted as the stream's event.context block.
func (s *Session) AddChannel(header HeaderKind, ctx []trace.Field) *Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := &Channel{
		session: s,
		id:      uint32(len(s.channels)),
		header:  header,
		ctx:     ctx,
		events:  make(map[uint32]*Event),
		byName:  make(map[string][]*Event),
	}
	s.channels = append(s.channels, ch)
	s.log.Debug("registered channel",
		zap.Uint32("channel_id", ch.id),
		zap.Int("context_fields", len(ctx)))
	return ch
}

// Channels returns a snapshot of the registered channels in id order.
func (s *Session) Channels() []*Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// ID returns the channel's numeric id.
func (c *Channel) ID() uint32 { return c.id }

// Header returns the event-header layout kind.
func (c *Channel) Header() HeaderKind { return c.header }

// Context returns the channel's context field list.
func (c *Channel) Context() []trace.Field { return c.ctx }

// State returns the channel's dump state.
func (c *Channel) State() ChannelState {
	c.session.mu.RLock()
	defer c.session.mu.RUnlock()
	return c.state
}

// MarkReady latches the channel as ready. Events dump only once their
// channel is ready; the latch never resets.
func (c *Channel) MarkReady() {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	c.state = ChannelReady
}

// AddEvent registers an event and returns its id. Ids grow monotonically;
// exhausting the id space is an error. Under per-user buffering, a
// registration identical to an existing one (same name, loglevel, fields
// and model URI) folds onto the existing id, since several processes
// legitimately register the same event. Under per-process buffering the
// duplicate signals a misbehaving producer.
func (c *Channel) AddEvent(name string, loglevel int32, modelEmfURI string, fields []trace.Field) (uint32, error) {
	const op = "event registration"

	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range c.byName[name] {
		if existing.loglevel == loglevel &&
			existing.modelEmfURI == modelEmfURI &&
			fieldsEqual(existing.fields, fields) {
			if s.scheme == PerUser {
				return existing.id, nil
			}
			return 0, trace.Errorf(trace.KindInvalidFormat, op,
				"duplicate event %q in per-process session", name)
		}
	}

	if c.nextEventID == math.MaxUint32 {
		return 0, trace.Errorf(trace.KindOverflow, op,
			"event id space exhausted on channel %d", c.id)
	}

	ev := &Event{
		name:        name,
		id:          c.nextEventID,
		loglevel:    loglevel,
		modelEmfURI: modelEmfURI,
		fields:      fields,
	}
	c.nextEventID++
	c.events[ev.id] = ev
	c.byName[name] = append(c.byName[name], ev)

	s.log.Debug("registered event",
		zap.Uint32("channel_id", c.id),
		zap.Uint32("event_id", ev.id),
		zap.String("name", name))
	return ev.id, nil
}

// EventsByID returns a snapshot of the currently registered events sorted
// by ascending id. Registration order does not matter: this is what makes
// channel statedump deterministic.
func (c *Channel) EventsByID() []*Event {
	c.session.mu.RLock()
	events := make([]*Event, 0, len(c.events))
	for _, ev := range c.events {
		events = append(events, ev)
	}
	c.session.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool { return events[i].id < events[j].id })
	return events
}

func fieldsEqual(a, b []trace.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
