// Command apiserver serves the ordering bot over HTTP: the JSON chat API, the
// WhatsApp webhook, menu endpoints, probes and metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/Joana-OrderBot/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var version = "dev"

const sweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("apiserver stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	logger.Info("starting orderbot api server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("session_backend", cfg.Session.Backend),
		logging.String("order_sink", cfg.Orders.Sink),
		logging.Bool("whatsapp", cfg.WhatsApp.Enabled),
	)

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if configPath != "" {
		watchConfig(configPath, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpserver.NewServer(cfg.Server, a.handler, logger)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		a.housekeep(gctx, sweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownErr := srv.Shutdown(context.Background())
		if a.whatsapp != nil {
			a.whatsapp.Wait()
		}
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("api server stopped")
	return nil
}

// watchConfig reports edits of the config file. Settings are read once at
// startup, so an edit takes effect on the next restart.
func watchConfig(path string, logger logging.Logger) {
	err := config.Watch(path,
		func(c *config.Config) {
			logger.Warn("config file changed, restart to apply",
				logging.String("path", path),
				logging.String("session_backend", c.Session.Backend),
				logging.String("order_sink", c.Orders.Sink),
			)
		},
		func(err error) {
			logger.Error("config file changed but is invalid", logging.String("path", path), logging.Err(err))
		},
	)
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}
