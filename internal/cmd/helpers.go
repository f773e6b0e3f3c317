package cmd

import (
	"os"

	"github.com/blumekt/pdfdeck/internal/config"
	"github.com/blumekt/pdfdeck/internal/output"
)

// loadSettings resolves the settings file from --config or the user config
// directory, falling back to defaults when no file exists.
func loadSettings() (*config.Settings, error) {
	path := configPath
	if path == "" {
		path = config.Locate()
	}
	return config.Load(path)
}

// newOutputWriter builds a writer for the --output format on stdout.
func newOutputWriter() (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(os.Stdout, format), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
