package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	// Register custom completions after all commands are initialized
	cobra.OnInitialize(registerCompletions)
}

func registerCompletions() {
	// --db flag: complete with .db files
	rootCmd.RegisterFlagCompletionFunc("db", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"db"}, cobra.ShellCompDirectiveFilterFileExt
	})

	// --data flag: CSV or imported database
	rootCmd.RegisterFlagCompletionFunc("data", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "tsv", "db"}, cobra.ShellCompDirectiveFilterFileExt
	})

	rootCmd.RegisterFlagCompletionFunc("config", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	importCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return []string{"csv", "tsv", "txt"}, cobra.ShellCompDirectiveFilterFileExt
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, cmd := range []*cobra.Command{chartCmd, seriesCmd, tuiCmd} {
		cmd.RegisterFlagCompletionFunc("country", completeCountry)
	}

	seriesCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"csv\tOne row per point",
			"table\tOne summary row per country",
			"json\tArray of points",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	seriesCmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// countriesFromData loads the configured dataset for completion. Errors
// mean no completions.
func countriesFromData() []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	table, err := loadTable(cfg)
	if err != nil {
		return nil
	}
	return table.Countries()
}

// completeCountry completes --country with dataset countries matching the
// typed prefix, ignoring case
func completeCountry(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.ToLower(toComplete)

	var completions []string
	for _, c := range countriesFromData() {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			completions = append(completions, c)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
