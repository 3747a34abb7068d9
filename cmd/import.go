package cmd

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/dataset"
	"github.com/chris/gdpdash/internal/db"
)

var importDelimiter string

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a CSV file into the dataset database",
	Long: `Load and normalize a CSV file and store it in the dataset database.

Any previously imported dataset is replaced. Later commands read the
database when neither --data nor GDPDASH_DATA is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importDelimiter, "delimiter", "d", "", "Field delimiter (default: from config, then ',')")
}

func runImport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	delim := cfg.DelimiterRune()
	if importDelimiter != "" {
		if utf8.RuneCountInString(importDelimiter) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", importDelimiter)
		}
		delim, _ = utf8.DecodeRuneInString(importDelimiter)
	}

	source, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	table, err := dataset.LoadFile(source, dataset.Options{Delimiter: delim})
	if err != nil {
		return err
	}

	target := dbPath
	if target == "" {
		if target, err = db.DefaultPath(); err != nil {
			return err
		}
	} else if target, err = db.NormalizeDatabasePath(target); err != nil {
		return err
	}
	if err := db.ValidateDatabasePath(target); err != nil {
		return err
	}

	store, err := db.NewDatabase(target, true)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.ImportTable(table, source); err != nil {
		return fmt.Errorf("failed to import %s: %w", source, err)
	}

	cells := table.Len() * len(table.Years())
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s countries over %s years (%d-%d), %s cells into %s\n",
		humanize.Comma(int64(table.Len())),
		humanize.Comma(int64(len(table.Years()))),
		table.MinYear(), table.MaxYear(),
		humanize.Comma(int64(cells)),
		store.Path(),
	)
	return nil
}
