// Package config handles pdfdeck settings parsing and location resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blumekt/pdfdeck/internal/types"
)

// Default file name searched for in the config directory.
const defaultFileName = "pdfdeck"

// WatchSettings configures the watch-folder service.
type WatchSettings struct {
	Input           string `yaml:"input" toml:"input" json:"input"`
	Output          string `yaml:"output" toml:"output" json:"output"`
	Profile         string `yaml:"profile" toml:"profile" json:"profile"`
	Engine          string `yaml:"engine" toml:"engine" json:"engine"`
	IntervalSeconds int    `yaml:"interval_seconds" toml:"interval_seconds" json:"interval_seconds"`
}

// Settings is the application configuration.
type Settings struct {
	UpdateChannel      types.UpdateChannel `yaml:"update_channel" toml:"update_channel" json:"update_channel"`
	UpdateBaseURL      string              `yaml:"update_base_url" toml:"update_base_url" json:"update_base_url"`
	UpdateDownloadBase string              `yaml:"update_download_base" toml:"update_download_base" json:"update_download_base"`
	ProfilesDir        string              `yaml:"profiles_dir" toml:"profiles_dir" json:"profiles_dir"`
	Watch              WatchSettings       `yaml:"watch" toml:"watch" json:"watch"`
}

// Default returns settings with all defaults applied.
func Default() *Settings {
	return &Settings{
		UpdateChannel: types.ChannelStable,
		Watch: WatchSettings{
			IntervalSeconds: 2,
		},
	}
}

// Load reads settings from path, applying defaults for absent fields and
// PDFDECK_* environment overrides on top. An empty path loads pure
// defaults plus environment overrides, so the application runs without a
// settings file.
func Load(path string) (*Settings, error) {
	settings := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := parse(path, content, settings); err != nil {
			return nil, err
		}
	}

	applyEnv(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Locate finds a settings file near the user's config directory, returning
// "" when none exists (defaults apply).
func Locate() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	for _, ext := range []string{".yaml", ".yml", ".toml", ".json"} {
		candidate := filepath.Join(configDir, "pdfdeck", defaultFileName+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// applyEnv overlays PDFDECK_* environment variables.
func applyEnv(s *Settings) {
	if v := os.Getenv("PDFDECK_CHANNEL"); v != "" {
		if channel, err := types.ParseUpdateChannel(v); err == nil {
			s.UpdateChannel = channel
		}
	}
	if v := os.Getenv("PDFDECK_UPDATE_URL"); v != "" {
		s.UpdateBaseURL = v
	}
	if v := os.Getenv("PDFDECK_DOWNLOAD_BASE"); v != "" {
		s.UpdateDownloadBase = v
	}
	if v := os.Getenv("PDFDECK_PROFILES_DIR"); v != "" {
		s.ProfilesDir = v
	}
}

// Validate checks the loaded settings for invalid values.
func (s *Settings) Validate() error {
	if err := s.UpdateChannel.Validate(); err != nil {
		return err
	}
	if s.Watch.IntervalSeconds < 1 {
		return fmt.Errorf("watch interval_seconds must be at least 1, got %d", s.Watch.IntervalSeconds)
	}
	return nil
}
