package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/watzon/tock/internal/config"
	"github.com/watzon/tock/internal/events"
	"github.com/watzon/tock/internal/runner"
	"github.com/watzon/tock/internal/server"
)

var (
	serveManifest string
	servePort     int
	serveHost     string
	serveNoWatch  bool
	serveNoAPI    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler daemon",
	Long: `Run the scheduler daemon against a jobs manifest.

The daemon will:
  - Load job definitions from the manifest
  - Schedule and execute their commands
  - Reload the manifest when it changes
  - Serve the admin API (job control, /metrics, /api/events feed)

Use --no-watch to disable manifest watching, --no-api to disable the
admin server.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveManifest, "manifest", "m", "", "jobs manifest path (default: jobs.yaml)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "admin API port")
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "admin API host")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable manifest watching")
	serveCmd.Flags().BoolVar(&serveNoAPI, "no-api", false, "disable the admin API server")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	run := runner.New(cfg, bus)
	if err := run.Start(); err != nil {
		return err
	}
	defer run.Stop()

	var srv *server.Server
	errCh := make(chan error, 1)
	if cfg.Server.Enabled {
		srv = server.New(cfg, bus, run, version)
		go func() {
			errCh <- srv.Start()
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Admin server shutdown failed")
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: cfgFile})
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("manifest") {
		cfg.Jobs.Manifest = serveManifest
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if serveNoWatch {
		cfg.Jobs.Watch = false
	}
	if serveNoAPI {
		cfg.Server.Enabled = false
	}

	if cfg.Logging.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil && !verbose {
		zerolog.SetGlobalLevel(level)
	}

	return cfg, nil
}
