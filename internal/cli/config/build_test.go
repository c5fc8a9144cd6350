package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/metadata"
	"github.com/weft-io/weft/internal/registry"
	"github.com/weft-io/weft/internal/trace"
)

func int64p(v int64) *int64 { return &v }

func TestBuildSession(t *testing.T) {
	cfg := &Config{
		Session: SessionConfig{
			ID:          7,
			Name:        "bench-run",
			UUID:        "2a6422d0-6cff-4e3f-a5c3-a64b358e3785",
			Buffering:   "per-user",
			UID:         1000,
			TracerMajor: 2,
			TracerMinor: 13,
		},
		Enums: []EnumConfig{{
			Name: "status",
			Entries: []EnumEntryConfig{
				{Label: "OK", Value: int64p(0)},
				{Label: "ERR", Start: int64p(1), End: int64p(3)},
				{Label: "UNKNOWN", Auto: true},
			},
		}},
		Channels: []ChannelConfig{{
			Header: "compact",
			Events: []EventConfig{{
				Name:     "greet",
				Loglevel: 13,
				Fields: []FieldConfig{
					{Name: "count", Class: "integer", Signed: true},
					{Name: "state", Class: "enum", Enum: "status"},
				},
			}},
		}},
	}

	sess, err := BuildSession(cfg, zap.NewNop(), nil)
	require.NoError(t, err)

	require.Equal(t, uint64(7), sess.TracingID())
	require.Equal(t, "2a6422d0-6cff-4e3f-a5c3-a64b358e3785", sess.UUID().String())
	require.Equal(t, registry.PerUser, sess.Scheme())
	require.Equal(t, 1000, sess.UserID())

	info, err := sess.LookupSessionInfo()
	require.NoError(t, err)
	require.Equal(t, "bench-run", info.Name)
	require.False(t, info.HasAutoGeneratedName)

	channels := sess.Channels()
	require.Len(t, channels, 1)
	require.Equal(t, registry.HeaderCompact, channels[0].Header())

	events := channels[0].EventsByID()
	require.Len(t, events, 1)
	require.Equal(t, "greet", events[0].Name())
	require.Len(t, events[0].Fields(), 2)
}

func TestBuildSessionAutoName(t *testing.T) {
	cfg := &Config{Session: SessionConfig{ID: 1, Buffering: "per-user"}}

	sess, err := BuildSession(cfg, zap.NewNop(), nil)
	require.NoError(t, err)

	info, err := sess.LookupSessionInfo()
	require.NoError(t, err)
	require.True(t, info.HasAutoGeneratedName, "a nameless session gets an auto-generated name")
}

func TestBuildSessionPerProcess(t *testing.T) {
	cfg := &Config{Session: SessionConfig{
		ID:        1,
		Buffering: "per-process",
		Process:   ProcessConfig{PID: 4242, Name: "demo-app"},
	}}

	sess, err := BuildSession(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	require.Equal(t, registry.PerProcess, sess.Scheme())
	require.Equal(t, 4242, sess.Process().PID)
	require.Equal(t, "demo-app", sess.Process().Name)
}

func TestBuildSessionRejectsBadUUID(t *testing.T) {
	cfg := &Config{Session: SessionConfig{UUID: "not-a-uuid", Buffering: "per-user"}}

	_, err := BuildSession(cfg, zap.NewNop(), nil)
	require.ErrorContains(t, err, "session.uuid")
}

func TestBuildSessionRejectsUndeclaredEnum(t *testing.T) {
	cfg := &Config{
		Session: SessionConfig{Buffering: "per-user"},
		Channels: []ChannelConfig{{
			Header: "compact",
			Events: []EventConfig{{
				Name:   "greet",
				Fields: []FieldConfig{{Name: "state", Class: "enum", Enum: "missing"}},
			}},
		}},
	}

	_, err := BuildSession(cfg, zap.NewNop(), nil)
	require.ErrorContains(t, err, "undeclared enum")
}

func TestBuildFieldVariantFlattens(t *testing.T) {
	fields, err := buildFields([]FieldConfig{{
		Name:  "value",
		Class: "variant",
		Tag:   "kind",
		Choices: []FieldConfig{
			{Name: "ival", Class: "integer"},
			{Name: "sval", Class: "string"},
		},
	}}, nil)
	require.NoError(t, err)

	require.Len(t, fields, 3, "a variant occupies one slot plus one per choice")
	v, ok := fields[0].Type.(trace.VariantType)
	require.True(t, ok)
	require.Equal(t, uint32(2), v.NrChoices)
	require.Equal(t, "kind", v.TagName)
	require.IsType(t, trace.IntegerType{}, fields[1].Type)
	require.IsType(t, trace.StringType{}, fields[2].Type)
}

func TestBuildFieldDefaults(t *testing.T) {
	fields, err := buildFields([]FieldConfig{
		{Name: "n", Class: "integer"},
		{Name: "f", Class: "float"},
		{Name: "s", Class: "string"},
	}, nil)
	require.NoError(t, err)

	n := fields[0].Type.(trace.IntegerType)
	require.Equal(t, trace.IntegerType{Size: 32, Alignment: 8, Base: 10}, n)

	f := fields[1].Type.(trace.FloatType)
	require.Equal(t, trace.FloatType{ExpDig: 11, MantDig: 53, Alignment: 8}, f)

	s := fields[2].Type.(trace.StringType)
	require.Equal(t, trace.EncodingUTF8, s.Encoding)
}

func TestBuildFieldRejectsNonIntegerElem(t *testing.T) {
	_, err := buildFields([]FieldConfig{{
		Name:   "arr",
		Class:  "array",
		Length: 4,
		Elem:   &FieldConfig{Class: "float"},
	}}, nil)
	require.ErrorContains(t, err, "integer elem")
}

// TestBuildAndDump exercises the whole path a CLI invocation takes: build
// the session, run the statedumps, and check the document and its mirrored
// copy agree.
func TestBuildAndDump(t *testing.T) {
	cfg := &Config{
		Session: SessionConfig{ID: 1, Name: "e2e", Buffering: "per-user", UID: 1000},
		Channels: []ChannelConfig{{
			Header: "compact",
			Events: []EventConfig{{
				Name:   "greet",
				Fields: []FieldConfig{{Name: "count", Class: "integer"}},
			}},
		}},
	}

	var mirror bytes.Buffer
	sess, err := BuildSession(cfg, zap.NewNop(), &mirror)
	require.NoError(t, err)

	dump := metadata.Begin(sess)
	require.NoError(t, dump.SessionStatedump())
	for _, ch := range sess.Channels() {
		require.NoError(t, dump.ChannelStatedump(ch))
	}
	doc := string(sess.Metadata())
	dump.End()

	require.True(t, strings.HasPrefix(doc, "/* CTF 1.8 */\n\n"))
	require.Contains(t, doc, "trace_name = \"e2e\";")
	require.Contains(t, doc, "stream {\n\tid = 0;\n")
	require.Contains(t, doc, "name = \"greet\";")
	require.Equal(t, doc, mirror.String())
}
