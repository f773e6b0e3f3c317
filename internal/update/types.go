package update

import (
	"fmt"
	"time"

	"github.com/blumekt/pdfdeck/internal/types"
)

// Info describes one published release, parsed from a channel manifest.
type Info struct {
	Version     string    `json:"version" yaml:"version"`
	DownloadURL string    `json:"download_url" yaml:"download_url"`
	SHA512      string    `json:"sha512,omitempty" yaml:"sha512,omitempty"` // base64-encoded digest
	Size        int64     `json:"size" yaml:"size"`
	ReleaseDate time.Time `json:"release_date" yaml:"release_date"`
	Filename    string    `json:"filename" yaml:"filename"`
}

// CheckResult is the outcome of a single update check. Failures surface in
// Err rather than as a returned error; Available is never true alongside a
// non-empty Err.
type CheckResult struct {
	Available      bool   `json:"update_available" yaml:"update_available"`
	CurrentVersion string `json:"current_version" yaml:"current_version"`
	LatestVersion  string `json:"latest_version" yaml:"latest_version"`
	Info           *Info  `json:"info,omitempty" yaml:"info,omitempty"`
	Err            string `json:"error,omitempty" yaml:"error,omitempty"`
}

// String renders the result for terminal output.
func (r CheckResult) String() string {
	if r.Err != "" {
		return fmt.Sprintf("update check failed: %s", r.Err)
	}
	if !r.Available {
		return fmt.Sprintf("pdfdeck %s is up to date", r.CurrentVersion)
	}
	return fmt.Sprintf("update available: %s -> %s", r.CurrentVersion, r.LatestVersion)
}

// Checker checks for available updates on a release channel.
type Checker interface {
	CheckForUpdates() CheckResult
	Channel() types.UpdateChannel
	SetChannel(types.UpdateChannel)
}

// Transfer performs cancellable background downloads of release artifacts.
type Transfer interface {
	Start(info *Info) (<-chan Event, error)
	Cancel()
}
