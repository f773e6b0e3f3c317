package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blumekt/pdfdeck/internal/types"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.UpdateChannel != types.ChannelStable {
		t.Errorf("UpdateChannel = %s, want stable", settings.UpdateChannel)
	}
	if settings.Watch.IntervalSeconds != 2 {
		t.Errorf("IntervalSeconds = %d, want 2", settings.Watch.IntervalSeconds)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeSettings(t, "pdfdeck.yaml", `
update_channel: beta
update_base_url: https://example.com/releases
profiles_dir: /etc/pdfdeck/profiles
watch:
  input: /srv/inbox
  output: /srv/outbox
  profile: invoices
  interval_seconds: 5
`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.UpdateChannel != types.ChannelBeta {
		t.Errorf("UpdateChannel = %s, want beta", settings.UpdateChannel)
	}
	if settings.UpdateBaseURL != "https://example.com/releases" {
		t.Errorf("UpdateBaseURL = %s", settings.UpdateBaseURL)
	}
	if settings.Watch.Input != "/srv/inbox" {
		t.Errorf("Watch.Input = %s", settings.Watch.Input)
	}
	if settings.Watch.IntervalSeconds != 5 {
		t.Errorf("IntervalSeconds = %d, want 5", settings.Watch.IntervalSeconds)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeSettings(t, "pdfdeck.toml", `
update_channel = "stable"
profiles_dir = "/opt/profiles"

[watch]
input = "/srv/in"
interval_seconds = 3
`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.ProfilesDir != "/opt/profiles" {
		t.Errorf("ProfilesDir = %s", settings.ProfilesDir)
	}
	if settings.Watch.IntervalSeconds != 3 {
		t.Errorf("IntervalSeconds = %d, want 3", settings.Watch.IntervalSeconds)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeSettings(t, "pdfdeck.json", `{
  "update_channel": "beta",
  "watch": {"input": "/in", "interval_seconds": 10}
}`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.UpdateChannel != types.ChannelBeta {
		t.Errorf("UpdateChannel = %s, want beta", settings.UpdateChannel)
	}
	if settings.Watch.IntervalSeconds != 10 {
		t.Errorf("IntervalSeconds = %d, want 10", settings.Watch.IntervalSeconds)
	}
}

func TestLoadExtensionlessSniffing(t *testing.T) {
	path := writeSettings(t, "pdfdeckrc", "update_channel: beta\n")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.UpdateChannel != types.ChannelBeta {
		t.Errorf("UpdateChannel = %s, want beta", settings.UpdateChannel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeSettings(t, "pdfdeck.yaml", "update_channel: stable\n")

	t.Setenv("PDFDECK_CHANNEL", "beta")
	t.Setenv("PDFDECK_UPDATE_URL", "https://mirror.example.com")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.UpdateChannel != types.ChannelBeta {
		t.Errorf("env override ignored: UpdateChannel = %s", settings.UpdateChannel)
	}
	if settings.UpdateBaseURL != "https://mirror.example.com" {
		t.Errorf("env override ignored: UpdateBaseURL = %s", settings.UpdateBaseURL)
	}
}

func TestLoadInvalidChannel(t *testing.T) {
	path := writeSettings(t, "pdfdeck.yaml", "update_channel: nightly\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid channel")
	}
}

func TestLoadInvalidInterval(t *testing.T) {
	path := writeSettings(t, "pdfdeck.yaml", "watch:\n  interval_seconds: -1\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error for negative interval")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/pdfdeck.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    Format
	}{
		{name: "yaml extension", path: "a.yaml", want: FormatYAML},
		{name: "yml extension", path: "a.yml", want: FormatYAML},
		{name: "toml extension", path: "a.toml", want: FormatTOML},
		{name: "json extension", path: "a.json", want: FormatJSON},
		{name: "json content", path: "rc", content: `{"a": 1}`, want: FormatJSON},
		{name: "toml content", path: "rc", content: "a = 1\n", want: FormatTOML},
		{name: "yaml content", path: "rc", content: "a: 1\n", want: FormatYAML},
		{name: "unknown", path: "rc", content: "nothing here", want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.path, []byte(tt.content)); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}
