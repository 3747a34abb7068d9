package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataPath   string
	dbPath     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "gdpdash",
	Short: "GDP per capita dashboard",
	Long: `Explore per-country, per-year values as a line chart.

Data comes from a CSV file (--data or GDPDASH_DATA) whose first column names
the country and whose remaining columns are years, or from a dataset
database created with 'gdpdash import'.`,
	Version:       Version,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Dataset file, CSV or imported .db (default: $GDPDASH_DATA, then --db)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Dataset database path (default: ~/.local/share/gdpdash/dataset.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.Flags().BoolP("version", "v", false, "Print the version number of gdpdash")
}
