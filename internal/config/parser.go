package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format represents the file format of a settings file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	// Content sniffing for extensionless files
	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	// JSON starts with { or [
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}

	// TOML typically has [sections] or key = value; YAML uses key: value
	if strings.Contains(trimmed, " = ") || strings.HasPrefix(trimmed, "[") {
		for _, line := range strings.Split(trimmed, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.Contains(line, " = ") || strings.HasPrefix(line, "[") {
				return FormatTOML
			}
			if strings.Contains(line, ":") && !strings.Contains(line, "=") {
				return FormatYAML
			}
		}
	}

	if strings.Contains(trimmed, ":") {
		return FormatYAML
	}

	return FormatUnknown
}

// parse unmarshals content into settings according to its detected format.
func parse(path string, content []byte, settings *Settings) error {
	switch detectFormat(path, content) {
	case FormatYAML:
		if err := yaml.Unmarshal(content, settings); err != nil {
			return fmt.Errorf("failed to parse YAML settings: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, settings); err != nil {
			return fmt.Errorf("failed to parse TOML settings: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(content, settings); err != nil {
			return fmt.Errorf("failed to parse JSON settings: %w", err)
		}
	default:
		return fmt.Errorf("unable to determine settings format for %s", path)
	}
	return nil
}
