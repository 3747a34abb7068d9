package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current version of gdpdash
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gdpdash",
	Long:  "Print the version number of gdpdash",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gdpdash version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetVersionTemplate("gdpdash version {{.Version}}\n")
}
