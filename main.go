package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"study/internal/config"
	"study/internal/database"
	"study/internal/events"
	"study/internal/forms"
	"study/internal/logger"
	"study/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "study",
		Short:        "Study group site with account settings",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional config file (yaml, json or toml)")

	load := func() (config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, nil, err
		}
		log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, log, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return runServer(cfg, log)
		},
	}
	root.AddCommand(serve)
	root.RunE = serve.RunE

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the accounts table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			return runMigrate(cfg, log)
		},
	})

	var nickname, email, password string
	createAccount := &cobra.Command{
		Use:   "create-account",
		Short: "Register an account from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			app, err := NewApp(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			account, fieldErrors, err := app.Accounts.SignUp(cmd.Context(), forms.SignUpForm{
				Nickname: nickname,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			if fieldErrors != nil {
				for field, message := range fieldErrors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, message)
				}
				return fmt.Errorf("account not created")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %s (%s)\n", account.Nickname, account.ID)
			return nil
		},
	}
	createAccount.Flags().StringVar(&nickname, "nickname", "", "account nickname")
	createAccount.Flags().StringVar(&email, "email", "", "account email")
	createAccount.Flags().StringVar(&password, "password", "", "account password")
	_ = createAccount.MarkFlagRequired("nickname")
	_ = createAccount.MarkFlagRequired("email")
	_ = createAccount.MarkFlagRequired("password")
	root.AddCommand(createAccount)

	root.AddCommand(&cobra.Command{
		Use:   "consume-events",
		Short: "Log account events from the configured broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return consumeEvents(ctx, cfg, log)
		},
	})

	return root
}

func runServer(cfg config.Config, log *zap.Logger) error {
	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := app.Server()
	if err != nil {
		return err
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serveUntil(srv, cfg.AppPort, log, quit)
}

// serveUntil listens on addr until a signal arrives on quit, then shuts the
// server down.
func serveUntil(srv *fiber.App, addr string, log *zap.Logger, quit <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", addr))
		errCh <- srv.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
	return nil
}

func runMigrate(cfg config.Config, log *zap.Logger) error {
	if cfg.DatabaseDriver == "memory" {
		return fmt.Errorf("nothing to migrate for the memory store")
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("database migrated", zap.String("driver", cfg.DatabaseDriver))
	return nil
}

func consumeEvents(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	switch cfg.EventsBroker {
	case "amqp":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.EventsChannel}, log)
		if err != nil {
			return err
		}
		defer client.Close()

		err = client.Consume(func(msg amqp.Delivery) error {
			event, err := events.Decode(msg.Body)
			if err != nil {
				// Requeueing a malformed message would loop forever.
				log.Warn("dropping malformed event", zap.Error(err))
				return nil
			}
			logEvent(log, event)
			return nil
		})
		if err != nil {
			return err
		}
		log.Info("listening for account events", zap.String("queue", cfg.EventsChannel))
		<-ctx.Done()
		return nil
	case "redis":
		client, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		sub := client.Subscribe(ctx, cfg.EventsChannel)
		defer sub.Close()
		log.Info("listening for account events", zap.String("channel", cfg.EventsChannel))
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-sub.Channel():
				if !ok {
					return nil
				}
				event, err := events.Decode([]byte(msg.Payload))
				if err != nil {
					log.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				logEvent(log, event)
			}
		}
	default:
		return fmt.Errorf("EVENTS_BROKER is %q, nothing to consume", cfg.EventsBroker)
	}
}

func logEvent(log *zap.Logger, event events.Event) {
	log.Info("account event",
		zap.String("type", event.Type),
		zap.String("nickname", event.Nickname),
		zap.Time("occurred_at", event.OccurredAt),
	)
}
