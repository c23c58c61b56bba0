package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"clip-remix/domain/remix"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
paths:
  input_directory: /media/clips
  output_directory: /media/remixes
remix:
  max_clip_length: 8
  max_total_length: 120
  seed: 42
google:
  remix_folder_id: folder-123
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Paths.InputDirectory != "/media/clips" {
		t.Errorf("InputDirectory = %q, want /media/clips", cfg.Paths.InputDirectory)
	}
	if cfg.Remix.MaxClipLength != 8 || cfg.Remix.MaxTotalLength != 120 {
		t.Errorf("unexpected lengths: %+v", cfg.Remix)
	}
	if cfg.Remix.Seed == nil || *cfg.Remix.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Remix.Seed)
	}
	if cfg.Google.RemixFolderID != "folder-123" {
		t.Errorf("RemixFolderID = %q, want folder-123", cfg.Google.RemixFolderID)
	}

	// defaults fill the rest
	if cfg.Remix.FPS != remix.DefaultFPS || cfg.Remix.Height != remix.DefaultHeight {
		t.Errorf("expected default fps/height, got %d/%d", cfg.Remix.FPS, cfg.Remix.Height)
	}
	if !reflect.DeepEqual(cfg.Remix.Extensions, remix.DefaultExtensions) {
		t.Errorf("Extensions = %v, want %v", cfg.Remix.Extensions, remix.DefaultExtensions)
	}
	if cfg.Probe.Backend != ProbeBackendFFprobe {
		t.Errorf("Probe.Backend = %q, want ffprobe", cfg.Probe.Backend)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[paths]
input_directory = "/media/clips"

[remix]
max_clip_length = 5.5
max_total_length = 30.0
extensions = [".mp4", ".mkv"]

[probe]
backend = "gocv"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Remix.MaxClipLength != 5.5 {
		t.Errorf("MaxClipLength = %v, want 5.5", cfg.Remix.MaxClipLength)
	}
	if !reflect.DeepEqual(cfg.Remix.Extensions, []string{".mp4", ".mkv"}) {
		t.Errorf("Extensions = %v", cfg.Remix.Extensions)
	}
	if cfg.Probe.Backend != ProbeBackendGoCV {
		t.Errorf("Probe.Backend = %q, want gocv", cfg.Probe.Backend)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "remix: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveAndLoad_RoundTripsBothFormats(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			seed := uint64(7)
			cfg := Default()
			cfg.Paths.InputDirectory = "/media/clips"
			cfg.Remix.Seed = &seed

			path := filepath.Join(t.TempDir(), name)
			if err := Save(cfg, path); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cfg, loaded) {
				t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative clip length", func(c *Config) { c.Remix.MaxClipLength = -1 }, true},
		{"negative total length", func(c *Config) { c.Remix.MaxTotalLength = -5 }, true},
		{"crossfade as long as clip", func(c *Config) { c.Remix.CrossfadeSeconds = c.Remix.MaxClipLength }, true},
		{"negative crossfade", func(c *Config) { c.Remix.CrossfadeSeconds = -0.5 }, true},
		{"zero fps", func(c *Config) { c.Remix.FPS = -1 }, true},
		{"unknown backend", func(c *Config) { c.Probe.Backend = "magic" }, true},
		{"valid recipients", func(c *Config) { c.Email.Recipients = []string{"Jane <jane@example.com>", "bob@example.com"} }, false},
		{"malformed recipient", func(c *Config) { c.Email.Recipients = []string{"jane at example"} }, true},
		{"malformed cc", func(c *Config) { c.Email.CC = []string{"<>"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, remix.ErrConfiguration) {
					t.Errorf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEmailConfig_Enabled(t *testing.T) {
	cfg := Default()
	if cfg.Email.Enabled() {
		t.Error("email should be disabled by default")
	}
	cfg.Email.FromAddress = "remixes@example.com"
	if cfg.Email.Enabled() {
		t.Error("email should stay disabled without recipients")
	}
	cfg.Email.Recipients = []string{"jane@example.com"}
	if !cfg.Email.Enabled() {
		t.Error("email should be enabled with a sender and recipients")
	}
}

func TestConfig_NormalizedExtensions(t *testing.T) {
	cfg := &Config{Remix: RemixConfig{Extensions: []string{"MP4", ".Mov", " avi ", ""}}}
	want := []string{".mp4", ".mov", ".avi"}
	if got := cfg.NormalizedExtensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizedExtensions() = %v, want %v", got, want)
	}
}
