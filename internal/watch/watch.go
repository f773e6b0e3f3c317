// Package watch implements the unattended watch-folder service: it polls
// an input directory for new PDF files and runs each one through a
// processing profile, recording a processing log. The actual PDF work is
// behind the Processor interface; this package owns scheduling, file
// readiness, and bookkeeping.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/blumekt/pdfdeck/internal/profile"
)

// Status classifies a processing log entry.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// LogEntry records the outcome of one processed file.
type LogEntry struct {
	JobID     string    `json:"job_id" yaml:"job_id"`
	File      string    `json:"file" yaml:"file"`
	Output    string    `json:"output,omitempty" yaml:"output,omitempty"`
	Status    Status    `json:"status" yaml:"status"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Stats summarizes service activity.
type Stats struct {
	Running   bool      `json:"running" yaml:"running"`
	Processed int       `json:"processed" yaml:"processed"`
	Failed    int       `json:"failed" yaml:"failed"`
	StartedAt time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
}

// Processor applies a processing profile to one PDF file. Implementations
// wrap the PDF engine; this package never touches document content.
type Processor interface {
	Process(ctx context.Context, inputPath, outputPath string, p *profile.Profile) error
}

// Service polls an input directory and processes new PDFs with a profile.
// A file is picked up only once its size is stable across two consecutive
// scans, so half-copied files are left alone.
type Service struct {
	fs        afero.Fs
	processor Processor
	profile   *profile.Profile
	inputDir  string
	outputDir string
	interval  time.Duration

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	seen      map[string]int64
	processed map[string]bool
	entries   []LogEntry
	stats     Stats
}

// New creates a watch service. The interval is how often the input
// directory is scanned.
func New(fs afero.Fs, processor Processor, p *profile.Profile, inputDir, outputDir string, interval time.Duration) *Service {
	return &Service{
		fs:        fs,
		processor: processor,
		profile:   p,
		inputDir:  inputDir,
		outputDir: outputDir,
		interval:  interval,
		seen:      make(map[string]int64),
		processed: make(map[string]bool),
	}
}

// Start begins polling on a background goroutine. It fails if the service
// is already running or the input directory does not exist; the output
// directory is created if needed.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("watch service is already running")
	}

	if exists, err := afero.DirExists(s.fs, s.inputDir); err != nil || !exists {
		return fmt.Errorf("input directory does not exist: %s", s.inputDir)
	}
	if err := s.fs.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.stats.Running = true
	s.stats.StartedAt = time.Now()

	log.Info("watch service started",
		"input", s.inputDir, "output", s.outputDir, "profile", s.profile.Name)

	go s.loop(ctx)
	return nil
}

// Stop halts polling and waits for the current scan to finish. Safe to
// call repeatedly and on a service that never started.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.stats.Running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	log.Info("watch service stopped")
}

// IsRunning reports whether the polling loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Log returns a copy of the processing log, newest last.
func (s *Service) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.entries...)
}

// Stats returns a snapshot of service statistics.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan picks up PDFs whose size is unchanged since the previous scan and
// runs them through the profile. Failures are log entries, never fatal.
func (s *Service) scan(ctx context.Context) {
	entries, err := afero.ReadDir(s.fs, s.inputDir)
	if err != nil {
		log.Debug("watch scan failed", "error", err)
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		name := entry.Name()

		s.mu.Lock()
		alreadyDone := s.processed[name]
		lastSize, known := s.seen[name]
		s.seen[name] = entry.Size()
		s.mu.Unlock()

		if alreadyDone {
			continue
		}
		if !known || lastSize != entry.Size() {
			// Still being written; wait for a stable size.
			continue
		}

		s.process(ctx, name)
	}
}

func (s *Service) process(ctx context.Context, name string) {
	jobID := uuid.NewString()
	inputPath := filepath.Join(s.inputDir, name)

	ext := filepath.Ext(name)
	outputName := strings.TrimSuffix(name, ext) + s.profile.OutputSuffix + ext
	outputPath := filepath.Join(s.outputDir, outputName)

	log.Debug("processing file", "job", jobID, "file", name, "profile", s.profile.Name)

	err := s.processor.Process(ctx, inputPath, outputPath, s.profile)

	entry := LogEntry{
		JobID:     jobID,
		File:      name,
		Output:    outputName,
		Status:    StatusOK,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[name] = true
	if err != nil {
		entry.Status = StatusFailed
		entry.Detail = err.Error()
		entry.Output = ""
		s.stats.Failed++
		log.Warn("processing failed", "job", jobID, "file", name, "error", err)
	} else {
		s.stats.Processed++
	}
	s.entries = append(s.entries, entry)
}
