package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseManifestLines parses the flat key:value release manifest. The format
// is a narrow, controlled subset of YAML (no nesting, no lists we care
// about), so a full document parser is deliberately not used. Lines without
// a colon, list items starting with "-", and empty values are skipped.
// Values may be wrapped in single or double quotes, which are stripped.
func parseManifestLines(content string) map[string]string {
	data := make(map[string]string)

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		value = strings.TrimSpace(value)
		value = strings.Trim(value, `'"`)
		if value == "" {
			continue
		}

		data[strings.TrimSpace(key)] = value
	}

	return data
}

// manifestToInfo builds an Info from parsed manifest keys. The download URL
// is resolved as {downloadBase}/v{version}/{filename}. An unparseable or
// missing releaseDate falls back to now rather than failing the check.
func manifestToInfo(data map[string]string, downloadBase string, now time.Time) *Info {
	version := data["version"]
	filename := data["path"]

	size, _ := strconv.ParseInt(data["size"], 10, 64)

	releaseDate := now
	if raw := data["releaseDate"]; raw != "" {
		if parsed, err := parseReleaseDate(raw); err == nil {
			releaseDate = parsed
		}
	}

	return &Info{
		Version:     version,
		DownloadURL: fmt.Sprintf("%s/v%s/%s", downloadBase, version, filename),
		SHA512:      data["sha512"],
		Size:        size,
		ReleaseDate: releaseDate,
		Filename:    filename,
	}
}

// parseReleaseDate accepts the ISO-8601-ish timestamps electron-builder
// style manifests carry, with or without sub-second precision or zone.
func parseReleaseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
