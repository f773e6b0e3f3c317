package update

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blumekt/pdfdeck/internal/types"
)

const (
	// DefaultBaseURL hosts the per-channel release manifests.
	DefaultBaseURL = "https://raw.githubusercontent.com/blumekt/PDFDeck-releases/main"
	// DefaultDownloadBase is the root of versioned artifact downloads.
	DefaultDownloadBase = "https://github.com/blumekt/PDFDeck-releases/releases/download"

	userAgent    = "PDFDeck-Updater"
	checkTimeout = 10 * time.Second
)

// ManifestChecker checks a release channel's manifest for a newer version.
// It holds no concurrency primitives and is safe for use from one goroutine
// at a time; callers run it off their interactive path.
type ManifestChecker struct {
	currentVersion string
	channel        types.UpdateChannel
	baseURL        string
	downloadBase   string
	client         *http.Client
}

// NewManifestChecker creates a checker for the given running version and channel.
func NewManifestChecker(currentVersion string, channel types.UpdateChannel) *ManifestChecker {
	return &ManifestChecker{
		currentVersion: currentVersion,
		channel:        channel.Default(),
		baseURL:        DefaultBaseURL,
		downloadBase:   DefaultDownloadBase,
		client: &http.Client{
			Timeout: checkTimeout,
		},
	}
}

// WithBaseURLs overrides the manifest and download locations (for testing
// and self-hosted mirrors).
func (c *ManifestChecker) WithBaseURLs(baseURL, downloadBase string) *ManifestChecker {
	c.baseURL = baseURL
	c.downloadBase = downloadBase
	return c
}

// Channel returns the channel currently consulted.
func (c *ManifestChecker) Channel() types.UpdateChannel {
	return c.channel
}

// SetChannel switches the release channel for subsequent checks.
func (c *ManifestChecker) SetChannel(channel types.UpdateChannel) {
	c.channel = channel.Default()
}

// CurrentVersion returns the running application version.
func (c *ManifestChecker) CurrentVersion() string {
	return c.currentVersion
}

// CheckForUpdates fetches the channel manifest and compares it against the
// running version. Network, protocol, and parse failures are reported in
// CheckResult.Err; this method never panics and never returns a Go error,
// so a failed check can never take the host process down.
func (c *ManifestChecker) CheckForUpdates() CheckResult {
	current := NormalizeVersion(c.currentVersion)

	manifestURL := fmt.Sprintf("%s/%s", c.baseURL, c.channel.ManifestName())
	log.Debug("checking for updates", "channel", c.channel, "url", manifestURL)

	content, err := c.fetch(manifestURL)
	if err != nil {
		return CheckResult{
			CurrentVersion: current,
			Err:            err.Error(),
		}
	}

	info := manifestToInfo(parseManifestLines(content), c.downloadBase, time.Now())

	result := CheckResult{
		CurrentVersion: current,
		LatestVersion:  info.Version,
	}

	if IsNewer(info.Version, current) {
		result.Available = true
		result.Info = info
	}

	log.Debug("update check complete",
		"current", current, "latest", info.Version, "available", result.Available)

	return result
}

// fetch retrieves the manifest body, mapping HTTP status and transport
// failures to distinguishable messages.
func (c *ManifestChecker) fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid manifest URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest: %w", err)
	}

	return string(body), nil
}
