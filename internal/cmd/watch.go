package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/blumekt/pdfdeck/internal/profile"
	"github.com/blumekt/pdfdeck/internal/watch"
)

// defaultEngine is the PDF engine binary invoked for each picked-up file.
const defaultEngine = "pdfdeck-engine"

var (
	watchInput    string
	watchOutput   string
	watchProfile  string
	watchEngine   string
	watchInterval int
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a folder and process arriving PDFs",
		Long: `Watch polls an input directory and runs every new PDF through a
processing profile. A file is picked up once its size is stable across
two scans, so files still being copied are left alone. Stop with Ctrl-C.

Examples:
  pdfdeck watch --input ~/inbox --output ~/done --profile legal.yaml
  pdfdeck watch --interval 5`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchInput, "input", "", "Input directory to poll (defaults to settings)")
	cmd.Flags().StringVar(&watchOutput, "output-dir", "", "Directory for processed files (defaults to settings)")
	cmd.Flags().StringVar(&watchProfile, "profile", "", "Profile file to apply (defaults to settings)")
	cmd.Flags().StringVar(&watchEngine, "engine", "", "PDF engine command (defaults to settings)")
	cmd.Flags().IntVar(&watchInterval, "interval", 0, "Scan interval in seconds (defaults to settings)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	input := firstNonEmpty(watchInput, settings.Watch.Input)
	outputDir := firstNonEmpty(watchOutput, settings.Watch.Output)
	profilePath := firstNonEmpty(watchProfile, settings.Watch.Profile)
	engine := firstNonEmpty(watchEngine, settings.Watch.Engine, defaultEngine)

	if input == "" {
		return fmt.Errorf("watch input directory is required (--input or settings watch.input)")
	}
	if outputDir == "" {
		return fmt.Errorf("watch output directory is required (--output-dir or settings watch.output)")
	}
	if profilePath == "" {
		return fmt.Errorf("watch profile is required (--profile or settings watch.profile)")
	}

	// A bare profile name resolves against the profiles directory.
	if settings.ProfilesDir != "" && filepath.Base(profilePath) == profilePath && filepath.Ext(profilePath) == "" {
		profilePath = filepath.Join(settings.ProfilesDir, profilePath+".yaml")
	}

	prof, err := profile.Load(profilePath)
	if err != nil {
		return err
	}

	interval := watchInterval
	if interval <= 0 {
		interval = settings.Watch.IntervalSeconds
	}

	processor := watch.NewCommandProcessor(engine)
	service := watch.New(afero.NewOsFs(), processor, prof, input, outputDir,
		time.Duration(interval)*time.Second)

	if err := service.Start(); err != nil {
		return err
	}

	fmt.Printf("Watching %s (profile %s, every %ds). Press Ctrl-C to stop.\n",
		input, prof.Name, interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	service.Stop()

	stats := service.Stats()
	fmt.Printf("\nProcessed %d file(s), %d failure(s).\n", stats.Processed, stats.Failed)

	if stats.Failed > 0 {
		for _, entry := range service.Log() {
			if entry.Status == watch.StatusFailed {
				fmt.Printf("  failed: %s: %s\n", entry.File, entry.Detail)
			}
		}
	}

	return nil
}
