package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/registry"
	"github.com/weft-io/weft/internal/trace"
)

// BuildSession materializes a session registry from a loaded description:
// it registers the enumerations, channels and events so the caller only has
// to run the statedumps.
func BuildSession(cfg *Config, logger *zap.Logger, mirror io.Writer) (*registry.Session, error) {
	hostname, _ := os.Hostname()

	info := registry.NewSessionInfoStore()
	info.Put(cfg.Session.ID, trace.SessionInfo{
		Name:                 cfg.Session.Name,
		HasAutoGeneratedName: cfg.Session.Name == "",
		CreationTime:         time.Now(),
		Hostname:             hostname,
	})

	scfg := registry.SessionConfig{
		TracingID:   cfg.Session.ID,
		TracerMajor: cfg.Session.TracerMajor,
		TracerMinor: cfg.Session.TracerMinor,
		Mirror:      mirror,
		Info:        info,
		Clock:       registry.SystemClock{},
		Logger:      logger,
	}
	if cfg.Session.UUID != "" {
		parsed, err := uuid.Parse(cfg.Session.UUID)
		if err != nil {
			return nil, fmt.Errorf("invalid session.uuid: %w", err)
		}
		scfg.UUID = parsed
	}

	var sess *registry.Session
	if cfg.Session.Buffering == "per-process" {
		sess = registry.NewPerProcessSession(scfg, registry.ProcessIdentity{
			PID:          cfg.Session.Process.PID,
			Name:         cfg.Session.Process.Name,
			CreationTime: cfg.Session.Process.Created,
		})
	} else {
		sess = registry.NewPerUserSession(scfg, cfg.Session.UID)
	}

	enumIDs := make(map[string]uint64, len(cfg.Enums))
	for _, e := range cfg.Enums {
		id, err := sess.CreateOrFindEnum(e.Name, buildEnumEntries(e.Entries))
		if err != nil {
			return nil, fmt.Errorf("enum %q: %w", e.Name, err)
		}
		enumIDs[e.Name] = id
	}

	for i, chCfg := range cfg.Channels {
		ctx, err := buildFields(chCfg.Context, enumIDs)
		if err != nil {
			return nil, fmt.Errorf("channels[%d] context: %w", i, err)
		}
		header := registry.HeaderCompact
		if chCfg.Header == "large" {
			header = registry.HeaderLarge
		}
		ch := sess.AddChannel(header, ctx)

		for _, evCfg := range chCfg.Events {
			fields, err := buildFields(evCfg.Fields, enumIDs)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", evCfg.Name, err)
			}
			if _, err := ch.AddEvent(evCfg.Name, evCfg.Loglevel, evCfg.URI, fields); err != nil {
				return nil, fmt.Errorf("event %q: %w", evCfg.Name, err)
			}
		}
	}
	return sess, nil
}

func buildEnumEntries(entries []EnumEntryConfig) []trace.EnumEntry {
	out := make([]trace.EnumEntry, 0, len(entries))
	for _, e := range entries {
		entry := trace.EnumEntry{Label: e.Label, Auto: e.Auto}
		if !e.Auto {
			start, end := int64(0), int64(0)
			if e.Value != nil {
				start, end = *e.Value, *e.Value
			} else {
				if e.Start != nil {
					start = *e.Start
				}
				end = start
				if e.End != nil {
					end = *e.End
				}
			}
			entry.Start = trace.EnumValue{Value: uint64(start), Signed: e.Signed}
			entry.End = trace.EnumValue{Value: uint64(end), Signed: e.Signed}
		}
		out = append(out, entry)
	}
	return out
}

// buildFields translates the description's field list into the inline
// descriptor encodings. Variants flatten into their own slot followed by
// one slot per choice, the shape the walker consumes.
func buildFields(cfgs []FieldConfig, enumIDs map[string]uint64) ([]trace.Field, error) {
	var out []trace.Field
	for _, fc := range cfgs {
		fields, err := buildField(fc, enumIDs)
		if err != nil {
			return nil, err
		}
		out = append(out, fields...)
	}
	return out, nil
}

func buildField(fc FieldConfig, enumIDs map[string]uint64) ([]trace.Field, error) {
	switch fc.Class {
	case "integer":
		return []trace.Field{{Name: fc.Name, Type: integerType(fc)}}, nil

	case "float":
		expDig, mantDig := fc.ExpDig, fc.MantDig
		if expDig == 0 && mantDig == 0 {
			expDig, mantDig = 11, 53 // IEEE 754 double
		}
		align := fc.Align
		if align == 0 {
			align = 8
		}
		return []trace.Field{{Name: fc.Name, Type: trace.FloatType{
			ExpDig: expDig, MantDig: mantDig, Alignment: align,
		}}}, nil

	case "string":
		return []trace.Field{{Name: fc.Name, Type: trace.StringType{
			Encoding: parseEncoding(fc.Encoding, trace.EncodingUTF8),
		}}}, nil

	case "struct":
		return []trace.Field{{Name: fc.Name, Type: trace.StructType{}}}, nil

	case "array":
		if fc.Elem == nil || fc.Elem.Class != "integer" {
			return nil, fmt.Errorf("array %q needs an integer elem", fc.Name)
		}
		return []trace.Field{{Name: fc.Name, Type: trace.ArrayType{
			Elem:   integerType(*fc.Elem),
			Length: fc.Length,
		}}}, nil

	case "sequence":
		if fc.Elem == nil || fc.Elem.Class != "integer" {
			return nil, fmt.Errorf("sequence %q needs an integer elem", fc.Name)
		}
		return []trace.Field{{Name: fc.Name, Type: trace.SequenceType{
			Elem:       integerType(*fc.Elem),
			LengthType: trace.IntegerType{Size: 32, Alignment: 8, Base: 10},
		}}}, nil

	case "enum":
		id, ok := enumIDs[fc.Enum]
		if !ok {
			return nil, fmt.Errorf("enum field %q references undeclared enum %q", fc.Name, fc.Enum)
		}
		return []trace.Field{{Name: fc.Name, Type: trace.EnumType{
			Name:      fc.Enum,
			ID:        id,
			Container: integerType(fc),
		}}}, nil

	case "variant":
		if fc.Tag == "" {
			return nil, fmt.Errorf("variant %q needs a tag", fc.Name)
		}
		out := []trace.Field{{Name: fc.Name, Type: trace.VariantType{
			NrChoices: uint32(len(fc.Choices)),
			TagName:   fc.Tag,
		}}}
		for _, choice := range fc.Choices {
			fields, err := buildField(choice, enumIDs)
			if err != nil {
				return nil, err
			}
			out = append(out, fields...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("field %q has unknown class %q", fc.Name, fc.Class)
	}
}

func integerType(fc FieldConfig) trace.IntegerType {
	size := fc.Size
	if size == 0 {
		size = 32
	}
	align := fc.Align
	if align == 0 {
		align = 8
	}
	base := fc.Base
	if base == 0 {
		base = 10
	}
	return trace.IntegerType{
		Size:      size,
		Alignment: align,
		Signed:    fc.Signed,
		Encoding:  parseEncoding(fc.Encoding, trace.EncodingNone),
		Base:      base,
	}
}

func parseEncoding(s string, fallback trace.StringEncoding) trace.StringEncoding {
	switch s {
	case "UTF8":
		return trace.EncodingUTF8
	case "ASCII":
		return trace.EncodingASCII
	case "none":
		return trace.EncodingNone
	default:
		return fallback
	}
}
