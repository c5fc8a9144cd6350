// Package config loads the declarative session description consumed by the
// weft CLI: a YAML file naming the session identity, its channels, events,
// field layouts and enumerations. The CLI renders a schema document from it
// without talking to a live daemon.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of a session description file.
type Config struct {
	Session  SessionConfig   `mapstructure:"session"`
	Channels []ChannelConfig `mapstructure:"channels"`
	Enums    []EnumConfig    `mapstructure:"enums"`
}

// SessionConfig describes the session identity and buffering scheme.
type SessionConfig struct {
	ID          uint64        `mapstructure:"id"`
	Name        string        `mapstructure:"name"`
	UUID        string        `mapstructure:"uuid"`
	Buffering   string        `mapstructure:"buffering"` // per-user | per-process
	UID         int           `mapstructure:"uid"`
	Process     ProcessConfig `mapstructure:"process"`
	TracerMajor uint32        `mapstructure:"tracer_major"`
	TracerMinor uint32        `mapstructure:"tracer_minor"`
}

// ProcessConfig describes the traced process of a per-process session.
type ProcessConfig struct {
	PID     int       `mapstructure:"pid"`
	Name    string    `mapstructure:"name"`
	Created time.Time `mapstructure:"created"`
}

// ChannelConfig describes one stream and its events.
type ChannelConfig struct {
	Header  string        `mapstructure:"header"` // compact | large
	Context []FieldConfig `mapstructure:"context"`
	Events  []EventConfig `mapstructure:"events"`
}

// EventConfig describes one event class.
type EventConfig struct {
	Name     string        `mapstructure:"name"`
	Loglevel int32         `mapstructure:"loglevel"`
	URI      string        `mapstructure:"uri"`
	Fields   []FieldConfig `mapstructure:"fields"`
}

// FieldConfig describes one field declaration. Class selects the shape;
// the remaining attributes apply per class.
type FieldConfig struct {
	Name     string        `mapstructure:"name"`
	Class    string        `mapstructure:"class"` // integer | float | string | struct | array | sequence | enum | variant
	Size     uint32        `mapstructure:"size"`
	Align    uint32        `mapstructure:"align"`
	Signed   bool          `mapstructure:"signed"`
	Encoding string        `mapstructure:"encoding"` // none | UTF8 | ASCII
	Base     uint32        `mapstructure:"base"`
	ExpDig   uint32        `mapstructure:"exp_dig"`
	MantDig  uint32        `mapstructure:"mant_dig"`
	Length   uint32        `mapstructure:"length"`
	Elem     *FieldConfig  `mapstructure:"elem"`
	Enum     string        `mapstructure:"enum"`
	Tag      string        `mapstructure:"tag"`
	Choices  []FieldConfig `mapstructure:"choices"`
}

// EnumConfig describes one registered enumeration.
type EnumConfig struct {
	Name    string            `mapstructure:"name"`
	Entries []EnumEntryConfig `mapstructure:"entries"`
}

// EnumEntryConfig is one enum mapping: a single value, an inclusive range,
// or an auto-assigned entry.
type EnumEntryConfig struct {
	Label  string `mapstructure:"label"`
	Value  *int64 `mapstructure:"value"`
	Start  *int64 `mapstructure:"start"`
	End    *int64 `mapstructure:"end"`
	Signed bool   `mapstructure:"signed"`
	Auto   bool   `mapstructure:"auto"`
}

// Load reads a session description. An empty path falls back to weft.yml or
// weft.yaml in the current directory; environment variables override file
// values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("session.buffering", "per-user")
	v.SetDefault("session.tracer_major", 1)
	v.SetDefault("session.tracer_minor", 0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("weft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read session description: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session description: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Session.Buffering {
	case "per-user", "per-process":
	default:
		return fmt.Errorf("session.buffering must be per-user or per-process, got %q", cfg.Session.Buffering)
	}
	for i, ch := range cfg.Channels {
		switch ch.Header {
		case "compact", "large":
		default:
			return fmt.Errorf("channels[%d].header must be compact or large, got %q", i, ch.Header)
		}
		for _, ev := range ch.Events {
			if ev.Name == "" {
				return fmt.Errorf("channels[%d]: every event needs a name", i)
			}
		}
	}
	for i, e := range cfg.Enums {
		if e.Name == "" || len(e.Entries) == 0 {
			return fmt.Errorf("enums[%d]: a name and at least one entry are required", i)
		}
	}
	return nil
}
