// Command worker archives completed orders: it consumes order.completed
// events from Kafka and stores them in PostgreSQL.
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
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/postgres"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/Joana-OrderBot/internal/interfaces/http"
	"github.com/turtacn/Joana-OrderBot/internal/interfaces/http/handlers"
)

var version = "dev"

const (
	defaultHealthPort = 8081
	topicSetupTimeout = 15 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for probes and metrics")
	migrate := flag.Bool("migrate", false, "apply database migrations before consuming")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *healthPort, *migrate, logger); err != nil {
		logger.Error("worker stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, healthPort int, migrate bool, logger logging.Logger) error {
	logger.Info("starting orderbot archive worker",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.OrderTopic),
		logging.String("group", cfg.Kafka.GroupID),
	)

	if migrate {
		m := postgres.NewMigrator(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath, logger)
		if err := m.Up(); err != nil {
			return err
		}
	}

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	repo := repositories.NewPostgresOrderRepo(conn, logger)

	ensureTopics(cfg.Kafka, logger)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfigFrom(cfg.Kafka), logger)
	if err != nil {
		return err
	}
	consumer.Subscribe(cfg.Kafka.OrderTopic, kafka.OrderArchiveHandler(repo, logger))

	routerCfg := httpserver.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(version, handlers.CheckerFunc("postgres", conn.HealthCheck)),
		Logger:        logger,
		MetricsPath:   cfg.Metrics.Path,
	}
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            "worker",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		routerCfg.MetricsCollector = collector
	}
	serverCfg := cfg.Server
	serverCfg.Port = healthPort
	healthSrv := httpserver.NewServer(serverCfg, httpserver.NewRouter(routerCfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(healthSrv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return healthSrv.Shutdown(context.Background())
	})

	err = g.Wait()
	logger.Info("worker stopped",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("dead_lettered", consumer.DeadLettered()),
	)
	return err
}

// ensureTopics provisions the order topic and its dead-letter topic. Brokers
// with auto-creation or restricted ACLs make this best effort.
func ensureTopics(cfg config.KafkaConfig, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("topic provisioning skipped", logging.Err(err))
		return
	}
	defer tm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), topicSetupTimeout)
	defer cancel()
	if err := tm.EnsureTopics(ctx, kafka.OrderTopics(cfg.OrderTopic, cfg.EnableDLQ)); err != nil {
		logger.Warn("topic provisioning failed", logging.Err(err))
	}
}
