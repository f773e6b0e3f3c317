package update

import (
	"fmt"
	"sync"

	"github.com/blumekt/pdfdeck/internal/types"
)

// Manager coordinates the whole update flow: channel selection, the version
// check, the background download, and the installer handoff. It remembers
// the most recently discovered release so a download can follow a check
// without the caller shuttling metadata around.
type Manager struct {
	checker    *ManifestChecker
	downloader *Downloader

	mu      sync.Mutex
	current *Info
}

// NewManager creates a manager for the given running version and channel.
func NewManager(currentVersion string, channel types.UpdateChannel) *Manager {
	return &Manager{
		checker:    NewManifestChecker(currentVersion, channel),
		downloader: NewDownloader(),
	}
}

// NewManagerWith assembles a manager from preconfigured components (for
// testing and for callers that override URLs or the staging filesystem).
func NewManagerWith(checker *ManifestChecker, downloader *Downloader) *Manager {
	return &Manager{checker: checker, downloader: downloader}
}

// Channel returns the release channel consulted by checks.
func (m *Manager) Channel() types.UpdateChannel {
	return m.checker.Channel()
}

// SetChannel switches the release channel for subsequent checks.
func (m *Manager) SetChannel(channel types.UpdateChannel) {
	m.checker.SetChannel(channel)
}

// CurrentVersion returns the running application version.
func (m *Manager) CurrentVersion() string {
	return m.checker.CurrentVersion()
}

// CheckForUpdates runs a version check and remembers any discovered release
// for a subsequent StartDownload(nil).
func (m *Manager) CheckForUpdates() CheckResult {
	result := m.checker.CheckForUpdates()

	if result.Info != nil {
		m.mu.Lock()
		m.current = result.Info
		m.mu.Unlock()
	}

	return result
}

// StartDownload begins downloading the given release, or the release found
// by the last check when info is nil. The returned channel carries the
// session's lifecycle events.
func (m *Manager) StartDownload(info *Info) (<-chan Event, error) {
	if info == nil {
		m.mu.Lock()
		info = m.current
		m.mu.Unlock()
	}
	if info == nil {
		return nil, fmt.Errorf("no update available to download")
	}

	return m.downloader.Start(info)
}

// CancelDownload requests cancellation of the in-flight download, if any.
func (m *Manager) CancelDownload() {
	m.downloader.Cancel()
}

// DownloadActive reports whether a download session is in flight.
func (m *Manager) DownloadActive() bool {
	return m.downloader.Active()
}

// PruneStaging removes old staged artifacts, keeping the most recent keep.
func (m *Manager) PruneStaging(keep int) ([]string, error) {
	return m.downloader.PruneStaging(keep)
}

// LaunchInstaller hands the downloaded artifact off to the OS.
func (m *Manager) LaunchInstaller(path string) bool {
	return LaunchInstaller(path)
}

// Stop cancels any in-flight download. Safe to call repeatedly.
func (m *Manager) Stop() {
	m.downloader.Cancel()
}
