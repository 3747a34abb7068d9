package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/db"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the imported dataset",
	Long:  "Show where the imported dataset came from, when it was imported and what it covers.",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := dbPath
	if src := dataSource(); src != "" && isDatabaseFile(src) {
		path = src
	}

	store, err := db.NewDatabase(path, false)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := store.Info()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:   %s\n", store.Path())
	fmt.Fprintf(out, "Source:     %s\n", info.Source)
	fmt.Fprintf(out, "Imported:   %s (%s)\n", info.ImportedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(info.ImportedAt))
	fmt.Fprintf(out, "Key column: %s\n", info.KeyColumn)
	fmt.Fprintf(out, "Countries:  %s\n", humanize.Comma(int64(info.Countries)))
	fmt.Fprintf(out, "Years:      %s (%d-%d)\n", humanize.Comma(int64(info.Years)), info.MinYear, info.MaxYear)
	return nil
}
