package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/session"
	"github.com/chris/gdpdash/pkg/models"
)

var (
	seriesSel    selectionFlags
	seriesFormat string
	seriesColor  string
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the filtered series",
	Long: `Print the points plotted for a selection.

Formats:
  csv    one row per point: country, year, value (default)
  table  one summary row per country
  json   array of {country, year, value} objects`,
	Example: `  gdpdash series -c Japan --from 1990
  gdpdash series --format table --no-countries -c Chile -c Peru`,
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesSel.register(seriesCmd)
	seriesCmd.Flags().StringVarP(&seriesFormat, "format", "f", "csv", "Output format: csv, table or json")
	seriesCmd.Flags().StringVar(&seriesColor, "color", "auto", "Color table output: auto, always or never")
}

func runSeries(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	switch seriesFormat {
	case "csv", "table", "json":
	default:
		return fmt.Errorf("invalid --format %q (want csv, table or json)", seriesFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	sess := session.New(table, session.WithChartOptions(cfg.ChartOptions()))
	if err := seriesSel.apply(cmd, sess); err != nil {
		return err
	}
	view := sess.Current()
	out := cmd.OutOrStdout()

	switch seriesFormat {
	case "table":
		color, err := colorEnabled(seriesColor, out)
		if err != nil {
			return err
		}
		return render.WriteTable(out, view.Series, render.TableOptions{
			Title:   cfg.Title,
			Range:   view.Selection.Range,
			NoColor: !color,
		})
	case "json":
		coll := view.Series
		if coll == nil {
			coll = models.SeriesCollection{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(coll); err != nil {
			return fmt.Errorf("failed to encode series: %w", err)
		}
		return nil
	default:
		return render.WriteCSV(out, table.KeyColumn(), view.Series)
	}
}
