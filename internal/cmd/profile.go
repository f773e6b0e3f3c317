package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blumekt/pdfdeck/internal/profile"
)

var profilesDir string

// profileList renders loaded profiles as a name/actions table in text mode.
type profileList []*profile.Profile

func (l profileList) String() string {
	if len(l) == 0 {
		return "no profiles found"
	}

	var b strings.Builder
	for _, p := range l {
		actions := make([]string, len(p.Actions))
		for i, a := range p.Actions {
			actions[i] = a.String()
		}
		fmt.Fprintf(&b, "%-24s %s\n", p.Name, strings.Join(actions, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and validate processing profiles",
		Long: `Profile works with PDFDeck processing profiles: named sets of actions
(normalize, compress, watermark, Bates numbering, and so on) stored as
YAML, TOML, or JSON files.

Examples:
  pdfdeck profile list
  pdfdeck profile list --dir ./profiles
  pdfdeck profile validate legal.yaml`,
	}

	cmd.PersistentFlags().StringVar(&profilesDir, "dir", "", "Profiles directory (defaults to settings profiles_dir)")

	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileValidateCmd())

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles in the profiles directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			dir := firstNonEmpty(profilesDir, settings.ProfilesDir)
			if dir == "" {
				return fmt.Errorf("no profiles directory configured (set profiles_dir in settings or pass --dir)")
			}

			profiles, err := profile.LoadDir(dir)
			if err != nil {
				return err
			}

			writer, err := newOutputWriter()
			if err != nil {
				return err
			}
			return writer.Write(profileList(profiles))
		},
	}
}

func newProfileValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("profile %q is valid (%d actions)\n", p.Name, len(p.Actions))
			return nil
		},
	}
}
