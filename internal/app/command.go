package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// NewRootCommand returns the inventory command. Without flags it serves the
// API; --init-db and --reset-db prepare the database and exit.
func NewRootCommand() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "inventory",
		Short:         "Product inventory web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger.SetLogger(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))

			initDB, _ := cmd.Flags().GetBool("init-db")
			resetDB, _ := cmd.Flags().GetBool("reset-db")
			out := cmd.OutOrStdout()

			switch {
			case resetDB:
				return runResetDB(cmd.Context(), cfg, out)
			case initDB:
				return runInitDB(cmd.Context(), cfg, out)
			default:
				return serve(cmd.Context(), cfg)
			}
		},
	}

	cmd.Flags().Bool("init-db", false, "create the schema and seed sample products if the store is empty, then exit")
	cmd.Flags().Bool("reset-db", false, "delete all stored products and reseed the samples, then exit")
	cmd.MarkFlagsMutuallyExclusive("init-db", "reset-db")

	cmd.Flags().String("config", "", "config file")
	cmd.Flags().String("port", "", "listen address, e.g. :8080")
	cmd.Flags().String("db-driver", "", "store backend: sqlite|postgres|memory")
	cmd.Flags().String("dsn", "", "database DSN or sqlite file path")
	cmd.Flags().String("log-level", "", "log level")
	bindFlags(v, cmd, map[string]string{
		"CONFIG_FILE":  "config",
		"APP_PORT":     "port",
		"DB_DRIVER":    "db-driver",
		"DATABASE_DSN": "dsn",
		"LOG_LEVEL":    "log-level",
	})

	return cmd
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func runInitDB(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.DBDriver == config.DriverMemory {
		return fmt.Errorf("--init-db needs a persistent DB_DRIVER, got %q", cfg.DBDriver)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Initialize(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(out, "Database initialized with sample data.")
	return nil
}

func runResetDB(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.DBDriver == config.DriverMemory {
		return fmt.Errorf("--reset-db needs a persistent DB_DRIVER, got %q", cfg.DBDriver)
	}
	db, err := database.Reset(ctx, cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	fmt.Fprintln(out, "Database reset with sample data.")
	return nil
}

// openStore returns the product repository for cfg, initialized and seeded.
func openStore(ctx context.Context, cfg *config.Config) (repositories.ProductRepository, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		repo := repositories.NewMemoryProductRepository()
		if _, err := database.Seed(ctx, repo); err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Initialize(ctx, db); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return repositories.NewGORMProductRepository(db), closeDB, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	products, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	authService := services.NewAuthService(Accounts(cfg), cfg.JWTSecret, cfg.TokenTTL)

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if cfg.RabbitMQConsume {
			logger.Info("starting RabbitMQ consumer for product events")
			if err := mqClient.Consume(logProductEvent); err != nil {
				logger.Error("failed to start RabbitMQ consumer", "error", err)
			}
		}
	}

	app := New(products, authService, publisher)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.AppPort, "driver", cfg.DBDriver)
		errCh <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during Fiber shutdown", "error", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

// logProductEvent is the consumer handler for product events.
func logProductEvent(msg amqp.Delivery) error {
	var event services.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Warn("discarding malformed product event", "delivery_tag", msg.DeliveryTag, "error", err)
		return nil
	}
	logger.Info("received product event",
		"type", event.Type,
		"product_id", event.ProductID,
		"status", string(event.Status),
		"event_id", event.EventID)
	return nil
}
