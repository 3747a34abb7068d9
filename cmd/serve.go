package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/server"
)

var (
	serveAddr    string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard page and its JSON API.

The page at / holds the country selector, the year slider and the chart.
The same data is available as JSON under /api and as an image at /chart.png.
Every request carries its own selection, so the server keeps no state.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default: from config, then 127.0.0.1:8050)")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Log every request at debug level")
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d countries (%d-%d) on http://%s\n",
		table.Len(), table.MinYear(), table.MaxYear(), ln.Addr())

	return server.New(table, cfg, logger).Serve(ctx, ln)
}
