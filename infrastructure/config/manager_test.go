package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) (*ConfigManager, *Config, string) {
	t.Helper()
	cfg := Default()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	return NewConfigManager(cfg, path), cfg, path
}

func TestConfigManager_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(c *Config) bool
		wantErr error
	}{
		{
			name:  "clip length in seconds",
			key:   "remix.max_clip_length",
			value: "12.5",
			check: func(c *Config) bool { return c.Remix.MaxClipLength == 12.5 },
		},
		{
			name:  "total length as timestamp",
			key:   "remix.max_total_length",
			value: "00:02:00",
			check: func(c *Config) bool { return c.Remix.MaxTotalLength == 120 },
		},
		{
			name:  "key is case insensitive",
			key:   "Paths.Input_Directory",
			value: "/media/clips",
			check: func(c *Config) bool { return c.Paths.InputDirectory == "/media/clips" },
		},
		{
			name:  "extensions list",
			key:   "remix.extensions",
			value: ".mp4, .mkv",
			check: func(c *Config) bool { return len(c.Remix.Extensions) == 2 && c.Remix.Extensions[1] == ".mkv" },
		},
		{
			name:  "seed",
			key:   "remix.seed",
			value: "99",
			check: func(c *Config) bool { return c.Remix.Seed != nil && *c.Remix.Seed == 99 },
		},
		{
			name:  "email recipients list",
			key:   "email.recipients",
			value: "John Doe <john@example.com>, jane@example.com",
			check: func(c *Config) bool {
				return len(c.Email.Recipients) == 2 &&
					c.Email.Recipients[0] == "John Doe <john@example.com>" &&
					c.Email.Recipients[1] == "jane@example.com"
			},
		},
		{
			name:  "sender address keeps only the address",
			key:   "email.from_address",
			value: "Clip Remix <remixes@example.com>",
			check: func(c *Config) bool { return c.Email.FromAddress == "remixes@example.com" },
		},
		{
			name:    "malformed recipient",
			key:     "email.cc",
			value:   "john at example",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown key",
			key:     "remix.colour",
			value:   "red",
			wantErr: ErrUnknownKey,
		},
		{
			name:    "non numeric fps",
			key:     "remix.fps",
			value:   "fast",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad backend",
			key:     "probe.backend",
			value:   "vlc",
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, cfg, path := newTestManager(t)

			err := mgr.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not update the config: %+v", tt.key, tt.value, cfg)
			}

			saved, err := Load(path)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !tt.check(saved) {
				t.Errorf("Set(%q, %q) was not persisted", tt.key, tt.value)
			}
		})
	}
}

func TestConfigManager_SetRejectsInvalidCombination(t *testing.T) {
	mgr, cfg, _ := newTestManager(t)

	// crossfade must stay shorter than the clip length
	if err := mgr.Set("remix.max_clip_length", "0.5"); err == nil {
		t.Fatal("expected validation error")
	}
	if cfg.Remix.MaxClipLength != 10 {
		t.Errorf("config changed despite validation error: %v", cfg.Remix.MaxClipLength)
	}
}

func TestConfigManager_GetAndList(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	got, err := mgr.Get("remix.fps")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got != "30" {
		t.Errorf("Get(remix.fps) = %q, want 30", got)
	}

	if _, err := mgr.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}

	entries := mgr.List()
	if len(entries) != len(Keys()) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(Keys()))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key > entries[i].Key {
			t.Errorf("entries not sorted: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
}
