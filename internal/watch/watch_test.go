package watch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/blumekt/pdfdeck/internal/profile"
	"github.com/blumekt/pdfdeck/internal/types"
)

// fakeProcessor records calls and optionally fails matching files.
type fakeProcessor struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (f *fakeProcessor) Process(ctx context.Context, inputPath, outputPath string, p *profile.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inputPath)
	if f.failOn != "" && inputPath == f.failOn {
		return fmt.Errorf("simulated engine failure")
	}
	return nil
}

func (f *fakeProcessor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestService(t *testing.T, proc Processor) (*Service, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/in", 0o755); err != nil {
		t.Fatal(err)
	}

	p := profile.New("test", types.ActionCompress)
	svc := New(fs, proc, p, "/in", "/out", 10*time.Millisecond)
	return svc, fs
}

func TestScanWaitsForStableSize(t *testing.T) {
	proc := &fakeProcessor{}
	svc, fs := newTestService(t, proc)

	if err := afero.WriteFile(fs, "/in/doc.pdf", []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	// First sighting: the size is recorded but the file is not processed.
	svc.scan(ctx)
	if proc.callCount() != 0 {
		t.Fatal("file processed on first sighting")
	}

	// The file grows between scans: still not ready.
	if err := afero.WriteFile(fs, "/in/doc.pdf", []byte("partial plus more"), 0o644); err != nil {
		t.Fatal(err)
	}
	svc.scan(ctx)
	if proc.callCount() != 0 {
		t.Fatal("file processed while still growing")
	}

	// Size stable across two scans: processed exactly once.
	svc.scan(ctx)
	if proc.callCount() != 1 {
		t.Fatalf("callCount = %d, want 1", proc.callCount())
	}

	// Further scans do not reprocess.
	svc.scan(ctx)
	if proc.callCount() != 1 {
		t.Fatal("file reprocessed")
	}
}

func TestScanIgnoresNonPDF(t *testing.T) {
	proc := &fakeProcessor{}
	svc, fs := newTestService(t, proc)

	if err := afero.WriteFile(fs, "/in/readme.txt", []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	svc.scan(ctx)
	svc.scan(ctx)

	if proc.callCount() != 0 {
		t.Error("non-PDF file was processed")
	}
}

func TestProcessRecordsLogAndStats(t *testing.T) {
	proc := &fakeProcessor{failOn: "/in/bad.pdf"}
	svc, fs := newTestService(t, proc)

	for _, name := range []string{"good.pdf", "bad.pdf"} {
		if err := afero.WriteFile(fs, "/in/"+name, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	svc.scan(ctx) // record sizes
	svc.scan(ctx) // process

	entries := svc.Log()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	byFile := make(map[string]LogEntry)
	for _, e := range entries {
		if e.JobID == "" {
			t.Error("log entry missing job ID")
		}
		byFile[e.File] = e
	}

	good := byFile["good.pdf"]
	if good.Status != StatusOK {
		t.Errorf("good.pdf status = %s, want ok", good.Status)
	}
	if good.Output != "good_processed.pdf" {
		t.Errorf("good.pdf output = %s, want good_processed.pdf", good.Output)
	}

	bad := byFile["bad.pdf"]
	if bad.Status != StatusFailed {
		t.Errorf("bad.pdf status = %s, want failed", bad.Status)
	}
	if bad.Detail == "" {
		t.Error("failed entry missing detail")
	}

	stats := svc.Stats()
	if stats.Processed != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 1 processed / 1 failed", stats)
	}
}

func TestStartStop(t *testing.T) {
	proc := &fakeProcessor{}
	svc, fs := newTestService(t, proc)

	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !svc.IsRunning() {
		t.Fatal("service should be running")
	}

	if err := svc.Start(); err == nil {
		t.Error("second Start() must fail while running")
	}

	if err := afero.WriteFile(fs, "/in/doc.pdf", []byte("stable content"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for proc.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the file to be processed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	svc.Stop()
	if svc.IsRunning() {
		t.Error("service should be stopped")
	}

	// Stop is idempotent.
	svc.Stop()
}

func TestStartMissingInputDir(t *testing.T) {
	proc := &fakeProcessor{}
	fs := afero.NewMemMapFs()
	p := profile.New("test", types.ActionCompress)

	svc := New(fs, proc, p, "/missing", "/out", time.Second)
	if err := svc.Start(); err == nil {
		t.Error("expected error for missing input directory")
	}
}
