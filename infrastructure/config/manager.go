package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clip-remix/domain/notification"
	"clip-remix/domain/remix"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigManager provides get/set operations on individual config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is one key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

// field binds a dotted key to accessors on Config
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var fields = map[string]field{
	"paths.input_directory": {
		get: func(c *Config) string { return c.Paths.InputDirectory },
		set: func(c *Config, v string) error { c.Paths.InputDirectory = v; return nil },
	},
	"paths.output_directory": {
		get: func(c *Config) string { return c.Paths.OutputDirectory },
		set: func(c *Config, v string) error { c.Paths.OutputDirectory = v; return nil },
	},
	"remix.max_clip_length": {
		get: func(c *Config) string { return formatFloat(c.Remix.MaxClipLength) },
		set: func(c *Config, v string) error { return setSeconds(&c.Remix.MaxClipLength, v) },
	},
	"remix.max_total_length": {
		get: func(c *Config) string { return formatFloat(c.Remix.MaxTotalLength) },
		set: func(c *Config, v string) error { return setSeconds(&c.Remix.MaxTotalLength, v) },
	},
	"remix.crossfade_seconds": {
		get: func(c *Config) string { return formatFloat(c.Remix.CrossfadeSeconds) },
		set: func(c *Config, v string) error { return setSeconds(&c.Remix.CrossfadeSeconds, v) },
	},
	"remix.fps": {
		get: func(c *Config) string { return strconv.Itoa(c.Remix.FPS) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Remix.FPS, v) },
	},
	"remix.height": {
		get: func(c *Config) string { return strconv.Itoa(c.Remix.Height) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Remix.Height, v) },
	},
	"remix.extensions": {
		get: func(c *Config) string { return strings.Join(c.Remix.Extensions, ",") },
		set: func(c *Config, v string) error {
			var exts []string
			for _, e := range strings.Split(v, ",") {
				if e = strings.TrimSpace(e); e != "" {
					exts = append(exts, e)
				}
			}
			if len(exts) == 0 {
				return fmt.Errorf("%w: at least one extension is required", ErrInvalidValue)
			}
			c.Remix.Extensions = exts
			return nil
		},
	},
	"remix.seed": {
		get: func(c *Config) string {
			if c.Remix.Seed == nil {
				return ""
			}
			return strconv.FormatUint(*c.Remix.Seed, 10)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.Remix.Seed = nil
				return nil
			}
			seed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: seed must be a non-negative integer", ErrInvalidValue)
			}
			c.Remix.Seed = &seed
			return nil
		},
	},
	"probe.backend": {
		get: func(c *Config) string { return c.Probe.Backend },
		set: func(c *Config, v string) error {
			if v != ProbeBackendFFprobe && v != ProbeBackendGoCV {
				return fmt.Errorf("%w: backend must be %q or %q", ErrInvalidValue, ProbeBackendFFprobe, ProbeBackendGoCV)
			}
			c.Probe.Backend = v
			return nil
		},
	},
	"probe.verify_content": {
		get: func(c *Config) string { return strconv.FormatBool(c.Probe.VerifyContent) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: expected true or false", ErrInvalidValue)
			}
			c.Probe.VerifyContent = b
			return nil
		},
	},
	"google.remix_folder_id": {
		get: func(c *Config) string { return c.Google.RemixFolderID },
		set: func(c *Config, v string) error { c.Google.RemixFolderID = v; return nil },
	},
	"email.from_name": {
		get: func(c *Config) string { return c.Email.FromName },
		set: func(c *Config, v string) error { c.Email.FromName = v; return nil },
	},
	"email.from_address": {
		get: func(c *Config) string { return c.Email.FromAddress },
		set: func(c *Config, v string) error {
			if v == "" {
				c.Email.FromAddress = ""
				return nil
			}
			r, err := notification.ParseRecipient(v)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			c.Email.FromAddress = r.Address
			return nil
		},
	},
	"email.sender_name": {
		get: func(c *Config) string { return c.Email.SenderName },
		set: func(c *Config, v string) error { c.Email.SenderName = v; return nil },
	},
	"email.recipients": {
		get: func(c *Config) string { return strings.Join(c.Email.Recipients, ", ") },
		set: func(c *Config, v string) error { return setRecipients(&c.Email.Recipients, v) },
	},
	"email.cc": {
		get: func(c *Config) string { return strings.Join(c.Email.CC, ", ") },
		set: func(c *Config, v string) error { return setRecipients(&c.Email.CC, v) },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error {
			switch v {
			case "debug", "info", "warn", "error":
				c.Logging.Level = v
				return nil
			}
			return fmt.Errorf("%w: level must be debug, info, warn or error", ErrInvalidValue)
		},
	},
}

// Keys returns every settable key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current value of key
func (m *ConfigManager) Get(key string) (string, error) {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(m.config), nil
}

// Set updates key, validates the resulting configuration and saves it
func (m *ConfigManager) Set(key, value string) error {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

// List returns every entry in key order
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(fields))
	for _, k := range Keys() {
		entries = append(entries, Entry{Key: k, Value: fields[k].get(m.config)})
	}
	return entries
}

// SuggestSetCommand returns the command that would fix a missing value
func SuggestSetCommand(key, example string) string {
	return fmt.Sprintf("clip-remix config set %s %s", key, example)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func setSeconds(dst *float64, v string) error {
	sec, err := remix.ParseSeconds(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*dst = sec
	return nil
}

func setPositiveInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: expected a positive integer", ErrInvalidValue)
	}
	*dst = n
	return nil
}

// setRecipients accepts a comma separated address list; empty clears it
func setRecipients(dst *[]string, v string) error {
	if v == "" {
		*dst = nil
		return nil
	}
	recipients, err := notification.ParseRecipients([]string{v})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	out := make([]string, len(recipients))
	for i, r := range recipients {
		out[i] = r.String()
	}
	*dst = out
	return nil
}
