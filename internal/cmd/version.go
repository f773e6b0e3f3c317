package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (v versionInfo) String() string {
	return fmt.Sprintf("pdfdeck version %s (commit %s, built %s)", v.Version, v.Commit, v.Date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := newOutputWriter()
			if err != nil {
				return err
			}
			return writer.Write(versionInfo{
				Version: appVersion,
				Commit:  appCommit,
				Date:    appDate,
			})
		},
	}
}
