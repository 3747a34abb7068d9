package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/session"
)

const defaultChartOut = "gdp-%Y%m%d-%H%M%S.png"

var (
	chartSel    selectionFlags
	chartOut    string
	chartWidth  int
	chartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the chart to a PNG file",
	Long: `Render the line chart for a selection to a PNG file.

The output name is a strftime pattern expanded with the current time, so
repeated runs do not overwrite each other. Use --out - to write to stdout.`,
	Example: `  gdpdash chart -c Germany -c France --from 1950 --to 2020
  gdpdash chart --out 'gdp-%F.png' --width 800 --height 400`,
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartSel.register(chartCmd)
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", defaultChartOut, "Output file (strftime pattern, - for stdout)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "Image width in pixels (default: from config)")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "Image height in pixels (default: from config)")
}

func runChart(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	sess := session.New(table,
		session.WithChartOptions(cfg.ChartOptions()),
		session.WithColors(cfg.Palette),
	)
	if err := chartSel.apply(cmd, sess); err != nil {
		return err
	}

	width, height := cfg.ChartWidth, cfg.ChartHeight
	if chartWidth > 0 {
		width = chartWidth
	}
	if chartHeight > 0 {
		height = chartHeight
	}

	spec := sess.Current().Chart
	if chartOut == "-" {
		return render.WritePNG(cmd.OutOrStdout(), spec, width, height)
	}

	path := strftime.Format(chartOut, time.Now())
	if err := writeChartFile(path, func(w io.Writer) error {
		return render.WritePNG(w, spec, width, height)
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Chart written: %s (%d lines)\n", path, len(spec.Lines))
	return nil
}

// writeChartFile writes to a temporary file next to path and renames it
// into place once write succeeds
func writeChartFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gdpdash-chart-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
