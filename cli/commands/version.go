package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/update"
	"github.com/satishbabariya/querystudio-go/cli/internal/version"
)

var (
	versionFull        bool
	versionCheckUpdate bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionFull {
			fmt.Println(info.FullString())
		} else {
			fmt.Println(info.String())
		}
		if versionCheckUpdate {
			return update.CheckForUpdates(info.Version)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Print build details")
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "Check whether a newer release exists")
	rootCmd.AddCommand(versionCmd)
}
