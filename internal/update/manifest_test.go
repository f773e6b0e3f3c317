package update

import (
	"testing"
	"time"
)

func TestParseManifestLines(t *testing.T) {
	content := `version: 1.4.0
files:
  - url: PDFDeck-Setup-1.4.0.exe
    sha512: ignored-nested-value
path: PDFDeck-Setup-1.4.0.exe
sha512: 'YWJjZGVm'
size: 52428800
releaseDate: "2025-06-01T12:00:00.000Z"
no colon line
empty:
`

	data := parseManifestLines(content)

	want := map[string]string{
		"version":     "1.4.0",
		"path":        "PDFDeck-Setup-1.4.0.exe",
		"sha512":      "YWJjZGVm",
		"size":        "52428800",
		"releaseDate": "2025-06-01T12:00:00.000Z",
	}

	for key, wantVal := range want {
		if got := data[key]; got != wantVal {
			t.Errorf("data[%q] = %q, want %q", key, got, wantVal)
		}
	}

	if _, ok := data["no colon line"]; ok {
		t.Error("line without colon should be skipped")
	}
	if _, ok := data["empty"]; ok {
		t.Error("empty value should be skipped")
	}
	if _, ok := data["- url"]; ok {
		t.Error("list items should be skipped")
	}
}

func TestParseManifestLinesEmpty(t *testing.T) {
	data := parseManifestLines("")
	if len(data) != 0 {
		t.Errorf("expected empty map, got %v", data)
	}
}

func TestManifestToInfo(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	data := map[string]string{
		"version":     "1.4.0",
		"path":        "PDFDeck-Setup-1.4.0.exe",
		"sha512":      "YWJjZGVm",
		"size":        "1024",
		"releaseDate": "2025-06-01T12:00:00Z",
	}

	info := manifestToInfo(data, "https://example.com/releases/download", now)

	if info.Version != "1.4.0" {
		t.Errorf("Version = %s, want 1.4.0", info.Version)
	}
	wantURL := "https://example.com/releases/download/v1.4.0/PDFDeck-Setup-1.4.0.exe"
	if info.DownloadURL != wantURL {
		t.Errorf("DownloadURL = %s, want %s", info.DownloadURL, wantURL)
	}
	if info.SHA512 != "YWJjZGVm" {
		t.Errorf("SHA512 = %s, want YWJjZGVm", info.SHA512)
	}
	if info.Size != 1024 {
		t.Errorf("Size = %d, want 1024", info.Size)
	}
	if info.Filename != "PDFDeck-Setup-1.4.0.exe" {
		t.Errorf("Filename = %s", info.Filename)
	}
	wantDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !info.ReleaseDate.Equal(wantDate) {
		t.Errorf("ReleaseDate = %v, want %v", info.ReleaseDate, wantDate)
	}
}

func TestManifestToInfoBadDate(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	data := map[string]string{
		"version":     "1.0.0",
		"path":        "x.exe",
		"releaseDate": "not-a-date",
	}

	info := manifestToInfo(data, "https://example.com", now)
	if !info.ReleaseDate.Equal(now) {
		t.Errorf("ReleaseDate = %v, want fallback %v", info.ReleaseDate, now)
	}
}

func TestManifestToInfoMissingKeys(t *testing.T) {
	now := time.Now()
	info := manifestToInfo(map[string]string{}, "https://example.com", now)

	if info.Version != "" {
		t.Errorf("Version = %q, want empty", info.Version)
	}
	if info.Size != 0 {
		t.Errorf("Size = %d, want 0", info.Size)
	}
	// An empty version still never compares as newer.
	if IsNewer(info.Version, "0.0.1") {
		t.Error("empty version must not compare as newer")
	}
}

func TestParseReleaseDateLayouts(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "2025-06-01T12:00:00.000Z"},
		{input: "2025-06-01T12:00:00Z"},
		{input: "2025-06-01T12:00:00"},
		{input: "2025-06-01"},
		{input: "June 1st", wantErr: true},
	}

	for _, tt := range tests {
		_, err := parseReleaseDate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseReleaseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
