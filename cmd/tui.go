package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/session"
	"github.com/chris/gdpdash/internal/tui"
)

var (
	tuiSel      selectionFlags
	tuiYearStep int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Explore the dataset in the terminal",
	Long: `Open an interactive terminal dashboard.

Pick countries from the list on the left and move the ends of the year range
with h/l and H/L. The chart redraws after every change. Press ? for all keys.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiSel.register(tuiCmd)
	tuiCmd.Flags().IntVar(&tuiYearStep, "year-step", 10, "Years moved by [ ] { }")
}

func runTUI(cmd *cobra.Command, args []string) error {
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
	if err := tuiSel.apply(cmd, sess); err != nil {
		return err
	}

	if !isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("tui requires a terminal, try 'gdpdash series' instead")
	}

	model := tui.New(sess, tui.WithYearStep(tuiYearStep))
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
