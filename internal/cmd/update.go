package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blumekt/pdfdeck/internal/config"
	"github.com/blumekt/pdfdeck/internal/interactive"
	"github.com/blumekt/pdfdeck/internal/types"
	"github.com/blumekt/pdfdeck/internal/update"
)

var (
	updateChannel string
	assumeYes     bool
	downloadOnly  bool
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and install application updates",
		Long: `Update checks the PDFDeck release channel for a newer version and can
download, verify, and launch the installer.

Examples:
  pdfdeck update check                   # Report whether an update exists
  pdfdeck update check --channel beta    # Consult the beta channel
  pdfdeck update install --yes           # Download and launch without asking`,
	}

	cmd.PersistentFlags().StringVar(&updateChannel, "channel", "", "Release channel: stable or beta (defaults to settings)")

	cmd.AddCommand(newUpdateCheckCmd())
	cmd.AddCommand(newUpdateInstallCmd())

	_ = cmd.RegisterFlagCompletionFunc("channel", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"stable", "beta"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// newManager builds the update manager from settings and the --channel flag.
func newManager(settings *config.Settings) (*update.Manager, error) {
	channel := settings.UpdateChannel
	if updateChannel != "" {
		parsed, err := types.ParseUpdateChannel(updateChannel)
		if err != nil {
			return nil, err
		}
		channel = parsed
	}

	checker := update.NewManifestChecker(appVersion, channel)
	if settings.UpdateBaseURL != "" || settings.UpdateDownloadBase != "" {
		base := firstNonEmpty(settings.UpdateBaseURL, update.DefaultBaseURL)
		downloadBase := firstNonEmpty(settings.UpdateDownloadBase, update.DefaultDownloadBase)
		checker = checker.WithBaseURLs(base, downloadBase)
	}

	return update.NewManagerWith(checker, update.NewDownloader()), nil
}

func newUpdateCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer release is published",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			manager, err := newManager(settings)
			if err != nil {
				return err
			}
			writer, err := newOutputWriter()
			if err != nil {
				return err
			}

			result := manager.CheckForUpdates()
			if result.Err != "" {
				return fmt.Errorf("update check failed: %s", result.Err)
			}
			return writer.Write(result)
		},
	}
}

func newUpdateInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download, verify, and launch the latest installer",
		RunE:  runUpdateInstall,
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&downloadOnly, "download-only", false, "Download and verify without launching the installer")

	return cmd
}

func runUpdateInstall(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	manager, err := newManager(settings)
	if err != nil {
		return err
	}

	result := manager.CheckForUpdates()
	if result.Err != "" {
		return fmt.Errorf("update check failed: %s", result.Err)
	}
	if !result.Available {
		fmt.Printf("pdfdeck %s is up to date\n", result.CurrentVersion)
		return nil
	}

	fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)

	if !assumeYes {
		prompter := interactive.NewPrompter()
		if !prompter.Confirm(fmt.Sprintf("Download version %s?", result.LatestVersion), false) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	events, err := manager.StartDownload(nil)
	if err != nil {
		return err
	}

	path, err := renderTransfer(events)
	if err != nil {
		return err
	}

	if removed, err := manager.PruneStaging(update.DefaultKeepArtifacts); err == nil && len(removed) > 0 {
		log.Debug("pruned staged artifacts", "count", len(removed))
	}

	if downloadOnly {
		fmt.Printf("Installer saved to %s\n", path)
		return nil
	}

	if !manager.LaunchInstaller(path) {
		return fmt.Errorf("failed to launch installer at %s", path)
	}
	fmt.Println("Installer launched. Quit PDFDeck to let it proceed.")
	return nil
}

// renderTransfer drains the download event channel, printing progress, and
// returns the verified artifact path. A closed channel with no finished
// event means the download was cancelled.
func renderTransfer(events <-chan update.Event) (string, error) {
	var path string

	for ev := range events {
		switch ev.Kind {
		case update.EventProgress:
			if quiet {
				continue
			}
			if ev.Total > 0 {
				pct := float64(ev.Downloaded) / float64(ev.Total) * 100
				fmt.Printf("\rDownloading... %3.0f%% (%d/%d bytes)", pct, ev.Downloaded, ev.Total)
			} else {
				fmt.Printf("\rDownloading... %d bytes", ev.Downloaded)
			}
		case update.EventVerificationStarted:
			if !quiet {
				fmt.Println("\nVerifying checksum...")
			}
		case update.EventVerificationComplete:
			if !quiet && ev.Valid {
				fmt.Println("✓ Checksum verified")
			}
		case update.EventFinished:
			path = ev.Path
		case update.EventError:
			if !quiet {
				fmt.Println()
			}
			return "", fmt.Errorf("download failed: %s", ev.Message)
		}
	}

	if path == "" {
		return "", fmt.Errorf("download cancelled")
	}
	return path, nil
}
