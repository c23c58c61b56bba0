package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clip-remix/domain/notification"
	"clip-remix/domain/remix"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration file
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" toml:"paths"`
	Remix   RemixConfig   `yaml:"remix" toml:"remix"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg" toml:"ffmpeg"`
	Probe   ProbeConfig   `yaml:"probe" toml:"probe"`
	Google  GoogleConfig  `yaml:"google" toml:"google"`
	Email   EmailConfig   `yaml:"email" toml:"email"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// PathsConfig contains directory paths for media processing
type PathsConfig struct {
	InputDirectory  string `yaml:"input_directory" toml:"input_directory"`
	OutputDirectory string `yaml:"output_directory" toml:"output_directory"`
}

// RemixConfig contains the selection and assembly parameters
type RemixConfig struct {
	MaxClipLength    float64  `yaml:"max_clip_length" toml:"max_clip_length"`
	MaxTotalLength   float64  `yaml:"max_total_length" toml:"max_total_length"`
	CrossfadeSeconds float64  `yaml:"crossfade_seconds" toml:"crossfade_seconds"`
	FPS              int      `yaml:"fps" toml:"fps"`
	Height           int      `yaml:"height" toml:"height"`
	Extensions       []string `yaml:"extensions" toml:"extensions"`
	Seed             *uint64  `yaml:"seed,omitempty" toml:"seed,omitempty"`
	MaxProposals     int      `yaml:"max_proposals,omitempty" toml:"max_proposals,omitempty"`
}

// FFmpegConfig contains external tool settings
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path" toml:"ffprobe_path"`
	VideoCodec  string `yaml:"video_codec" toml:"video_codec"`
	AudioCodec  string `yaml:"audio_codec" toml:"audio_codec"`
	Preset      string `yaml:"preset" toml:"preset"`
	CRF         int    `yaml:"crf" toml:"crf"`
}

// ProbeConfig selects how durations are read
type ProbeConfig struct {
	Backend       string `yaml:"backend" toml:"backend"` // "ffprobe" or "gocv"
	VerifyContent bool   `yaml:"verify_content" toml:"verify_content"`
}

// GoogleConfig contains Google Drive settings for publishing remixes
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file" toml:"credentials_file"`
	TokenFile       string `yaml:"token_file" toml:"token_file"`
	RemixFolderID   string `yaml:"remix_folder_id" toml:"remix_folder_id"`
}

// EmailConfig contains Gmail settings for sending share links.
// Recipients are RFC 5322 addresses such as "Jane Doe <jane@example.com>".
type EmailConfig struct {
	FromName    string   `yaml:"from_name" toml:"from_name"`
	FromAddress string   `yaml:"from_address" toml:"from_address"`
	SenderName  string   `yaml:"sender_name" toml:"sender_name"`
	TokenFile   string   `yaml:"token_file" toml:"token_file"`
	Recipients  []string `yaml:"recipients,omitempty" toml:"recipients,omitempty"`
	CC          []string `yaml:"cc,omitempty" toml:"cc,omitempty"`
}

// Enabled reports whether share emails can be sent
func (e EmailConfig) Enabled() bool {
	return e.FromAddress != "" && len(e.Recipients) > 0
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Probe backends
const (
	ProbeBackendFFprobe = "ffprobe"
	ProbeBackendGoCV    = "gocv"
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults
func (c *Config) ApplyDefaults() {
	if c.Remix.MaxClipLength == 0 {
		c.Remix.MaxClipLength = 10
	}
	if c.Remix.MaxTotalLength == 0 {
		c.Remix.MaxTotalLength = 60
	}
	if c.Remix.CrossfadeSeconds == 0 {
		c.Remix.CrossfadeSeconds = remix.DefaultCrossfadeSeconds
	}
	if c.Remix.FPS == 0 {
		c.Remix.FPS = remix.DefaultFPS
	}
	if c.Remix.Height == 0 {
		c.Remix.Height = remix.DefaultHeight
	}
	if len(c.Remix.Extensions) == 0 {
		c.Remix.Extensions = append([]string(nil), remix.DefaultExtensions...)
	}
	if c.Remix.MaxProposals == 0 {
		c.Remix.MaxProposals = remix.DefaultMaxProposals
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = "libx264"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.CRF == 0 {
		c.FFmpeg.CRF = 23
	}
	if c.Probe.Backend == "" {
		c.Probe.Backend = ProbeBackendFFprobe
	}
	if c.Google.TokenFile == "" {
		c.Google.TokenFile = "config/token.json"
	}
	if c.Email.TokenFile == "" {
		c.Email.TokenFile = "config/gmail_token.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the values the remix run depends on
func (c *Config) Validate() error {
	if c.Remix.MaxClipLength <= 0 {
		return fmt.Errorf("%w: max_clip_length must be greater than zero", remix.ErrConfiguration)
	}
	if c.Remix.MaxTotalLength <= 0 {
		return fmt.Errorf("%w: max_total_length must be greater than zero", remix.ErrConfiguration)
	}
	if c.Remix.CrossfadeSeconds < 0 || c.Remix.CrossfadeSeconds >= c.Remix.MaxClipLength {
		return fmt.Errorf("%w: crossfade_seconds must be between 0 and max_clip_length", remix.ErrConfiguration)
	}
	if c.Remix.FPS <= 0 {
		return fmt.Errorf("%w: fps must be greater than zero", remix.ErrConfiguration)
	}
	if c.Remix.Height <= 0 {
		return fmt.Errorf("%w: height must be greater than zero", remix.ErrConfiguration)
	}
	switch c.Probe.Backend {
	case ProbeBackendFFprobe, ProbeBackendGoCV:
	default:
		return fmt.Errorf("%w: unknown probe backend %q", remix.ErrConfiguration, c.Probe.Backend)
	}
	for _, addr := range append(append([]string(nil), c.Email.Recipients...), c.Email.CC...) {
		if _, err := notification.ParseRecipient(addr); err != nil {
			return fmt.Errorf("%w: email recipient %q: %v", remix.ErrConfiguration, addr, err)
		}
	}
	return nil
}

// NormalizedExtensions returns the configured extensions lower-cased with a leading dot
func (c *Config) NormalizedExtensions() []string {
	out := make([]string, 0, len(c.Remix.Extensions))
	for _, ext := range c.Remix.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// Load reads and parses the configuration from the specified file.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Save writes the configuration to the specified file, using TOML for .toml paths
func Save(cfg *Config, path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
