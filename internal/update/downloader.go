package update

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	chunkSize       = 8 * 1024
	downloadTimeout = 300 * time.Second
	stagingDirName  = "pdfdeck-updates"
	eventBuffer     = 16
)

// session is the state of one in-flight download. It lives on the worker
// goroutine; the cancellation flag is the only state shared across
// goroutines.
type session struct {
	id         string
	info       *Info
	path       string
	downloaded int64
}

// Downloader streams release artifacts to a staging directory on a worker
// goroutine, verifies their SHA-512 digest, and reports lifecycle events on
// a channel. At most one session is active per Downloader; Start rejects a
// second session until the first ends or is cancelled.
type Downloader struct {
	fs         afero.Fs
	client     *http.Client
	stagingDir string

	mu        sync.Mutex
	active    bool
	cancelled atomic.Bool
}

// NewDownloader creates a downloader staging into the OS temp directory.
func NewDownloader() *Downloader {
	return NewDownloaderWithFs(afero.NewOsFs(), filepath.Join(os.TempDir(), stagingDirName))
}

// NewDownloaderWithFs creates a downloader on the given filesystem and
// staging directory (for testing).
func NewDownloaderWithFs(fs afero.Fs, stagingDir string) *Downloader {
	return &Downloader{
		fs:         fs,
		stagingDir: stagingDir,
		client: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// StagingDir returns the directory artifacts are downloaded into.
func (d *Downloader) StagingDir() string {
	return d.stagingDir
}

// Active reports whether a download session is in flight.
func (d *Downloader) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Start begins downloading the artifact described by info on a worker
// goroutine. It returns the session's event channel, which delivers
// Progress, VerificationStarted, VerificationComplete, and exactly one of
// Finished or Error, in emission order, and is closed when the session ends.
// A cancelled session closes the channel without a terminal event.
// Start fails if another session is active; the caller must Cancel first.
func (d *Downloader) Start(info *Info) (<-chan Event, error) {
	if info == nil || info.DownloadURL == "" {
		return nil, fmt.Errorf("no update metadata to download")
	}
	if info.Filename == "" {
		return nil, fmt.Errorf("update metadata is missing the artifact filename")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		return nil, fmt.Errorf("a download is already in progress, cancel it first")
	}
	d.active = true
	d.cancelled.Store(false)

	sess := &session{
		id:   uuid.NewString(),
		info: info,
		path: filepath.Join(d.stagingDir, info.Filename),
	}

	events := make(chan Event, eventBuffer)
	go d.run(sess, events)

	return events, nil
}

// Cancel requests cooperative cancellation of the in-flight session. It is
// safe to call from any goroutine, never blocks, and is a no-op when no
// session is active. The flag is checked at chunk boundaries, so worst-case
// latency is one chunk read.
func (d *Downloader) Cancel() {
	d.cancelled.Store(true)
}

func (d *Downloader) run(sess *session, events chan<- Event) {
	defer func() {
		d.mu.Lock()
		d.active = false
		d.mu.Unlock()
		close(events)
	}()

	log.Debug("starting update download",
		"session", sess.id, "url", sess.info.DownloadURL, "file", sess.info.Filename)

	fail := func(msg string) {
		log.Debug("update download failed", "session", sess.id, "error", msg)
		events <- Event{Kind: EventError, Message: msg}
	}

	if err := d.fs.MkdirAll(d.stagingDir, 0o755); err != nil {
		fail(fmt.Sprintf("failed to create staging directory: %v", err))
		return
	}

	req, err := http.NewRequest(http.MethodGet, sess.info.DownloadURL, nil)
	if err != nil {
		fail(fmt.Sprintf("invalid download URL: %v", err))
		return
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		fail(fmt.Sprintf("download failed: %v", err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fail(fmt.Sprintf("HTTP error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
		return
	}

	total := resp.ContentLength
	if total <= 0 {
		total = sess.info.Size
	}

	file, err := d.fs.OpenFile(sess.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		fail(fmt.Sprintf("failed to create %s: %v", sess.path, err))
		return
	}

	buf := make([]byte, chunkSize)
	for {
		if d.cancelled.Load() {
			// Cancellation is silent: remove the partial file, emit nothing.
			_ = file.Close()
			_ = d.fs.Remove(sess.path)
			log.Debug("update download cancelled",
				"session", sess.id, "downloaded", sess.downloaded)
			return
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				_ = file.Close()
				fail(fmt.Sprintf("failed to write %s: %v", sess.path, werr))
				return
			}
			sess.downloaded += int64(n)
			events <- Event{Kind: EventProgress, Downloaded: sess.downloaded, Total: total}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = file.Close()
			if d.cancelled.Load() {
				// The cancel landed while the read was in flight; treat
				// the failed read as cancellation, not as an error.
				_ = d.fs.Remove(sess.path)
				log.Debug("update download cancelled",
					"session", sess.id, "downloaded", sess.downloaded)
				return
			}
			// Unlike cancellation, a network failure leaves the partial
			// file in the staging directory.
			fail(fmt.Sprintf("download failed: %v", readErr))
			return
		}
	}

	if err := file.Close(); err != nil {
		fail(fmt.Sprintf("failed to close %s: %v", sess.path, err))
		return
	}

	// A cancel that raced the end of the stream still wins.
	if d.cancelled.Load() {
		_ = d.fs.Remove(sess.path)
		log.Debug("update download cancelled",
			"session", sess.id, "downloaded", sess.downloaded)
		return
	}

	events <- Event{Kind: EventVerificationStarted}

	valid, err := d.verifySHA512(sess.path, sess.info.SHA512)
	if err != nil {
		fail(fmt.Sprintf("verification failed: %v", err))
		return
	}
	events <- Event{Kind: EventVerificationComplete, Valid: valid}

	if !valid {
		_ = d.fs.Remove(sess.path)
		fail("SHA512 verification failed, the downloaded file may be corrupted")
		return
	}

	log.Debug("update download finished", "session", sess.id, "path", sess.path)
	events <- Event{Kind: EventFinished, Path: sess.path}
}

// verifySHA512 hashes the staged file and compares the base64-encoded
// digest against the manifest's expected value. An empty expected hash
// passes vacuously; manifests published before hash support carry none, and
// this keeps them installable. That is a compatibility allowance, not a
// security guarantee.
func (d *Downloader) verifySHA512(path, expected string) (bool, error) {
	if expected == "" {
		return true, nil
	}

	file, err := d.fs.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	hash := sha512.New()
	if _, err := io.CopyBuffer(hash, file, make([]byte, chunkSize)); err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	actual := base64.StdEncoding.EncodeToString(hash.Sum(nil))
	return actual == expected, nil
}
