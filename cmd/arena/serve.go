package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/bomb-arena/internal/games/bomber"
	"github.com/vovakirdan/bomb-arena/internal/metrics"
	"github.com/vovakirdan/bomb-arena/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the arena over SSH",
	Long: `Start an SSH server. Every connection gets its own menu and plays
local matches on its own terminal; all connections share the match
history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

With --metrics, Prometheus metrics (sessions, arena events, match
results) are served at http://<addr>/metrics.

Examples:
  arena serve                          # Listen on :23234
  arena serve --ssh :2222              # Listen on port 2222
  arena serve --metrics :9090          # Also expose /metrics

Players connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address")
}

func runServe(_ *cobra.Command, _ []string) error {
	// The server owns no terminal, so logs go to stderr unless --log is set.
	if flagLogPath == "" {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arena",
		})
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
		bomber.SetLogger(logger)
	}
	warnConfig()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var m *metrics.Metrics
	if flagMetricsAddr != "" {
		m = metrics.New("bomb_arena")
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, store, m, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving Bomb Arena on %s (ssh localhost -p <port>)\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(ctx) })
	if m != nil {
		logger.Info("serving metrics", "address", flagMetricsAddr)
		g.Go(func() error { return m.Serve(ctx, flagMetricsAddr) })
	}
	return g.Wait()
}
