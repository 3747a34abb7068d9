package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var countriesMatch string

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the countries in the dataset",
	Long:  "List the countries in the dataset in table order, one per line.",
	RunE:  runCountries,
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	countriesCmd.Flags().StringVarP(&countriesMatch, "match", "m", "", "Only list countries containing this text (case-insensitive)")
}

func runCountries(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	needle := strings.ToLower(countriesMatch)
	for _, c := range table.Countries() {
		if needle != "" && !strings.Contains(strings.ToLower(c), needle) {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
