package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/wordrecall/internal/bot"
	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/config"
	"github.com/example/wordrecall/internal/database"
	"github.com/example/wordrecall/internal/logger"
	"github.com/example/wordrecall/internal/reminder"
	"github.com/example/wordrecall/internal/review"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "wordrecall",
		Short:        "Spaced-repetition vocabulary trainer",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/default.yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(answerCmd())
	rootCmd.AddCommand(uncollectCmd())
	rootCmd.AddCommand(wordsCmd())
	rootCmd.AddCommand(learnedCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(streakCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(repairCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *sqlx.DB
	repo  *database.Repository
	clock clock.Clock
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Init(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, database.Config{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		ConnMaxLife:  cfg.DB.ConnMaxLife,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("database connected", zap.String("driver", cfg.DB.Driver))
	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		repo:  database.NewRepository(db),
		clock: clock.NewSystem(loc),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// service builds a review service for one-shot commands. Reminders are only
// handed out here; the serve process arms them.
func (a *app) service() *review.Service {
	return review.NewService(a.repo, reminder.Deferred{}, a.clock, a.log)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and deliver review reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			botCfg := bot.DefaultConfig()
			botCfg.Debug = a.cfg.Env == "development"

			var api *tgbotapi.BotAPI
			var notifier reminder.Notifier = bot.LogNotifier{Log: a.log}
			if token := a.cfg.Telegram.Token; token != "" {
				api, err = bot.NewAPI(token, botCfg.Debug)
				if err != nil {
					return err
				}
				notifier = bot.NewNotifier(api, a.repo)
				a.log.Info("authorized on account",
					zap.String("username", api.Self.UserName), logger.Secret("token", token))
			} else {
				a.log.Warn("telegram token not set, reminders are only logged")
			}

			sched := reminder.New(notifier, a.clock.Location(), a.cfg.Reminder.Hour, a.log)
			svc := review.NewService(a.repo, sched, a.clock, a.log)

			n, err := svc.RearmReminders(ctx)
			if err != nil {
				return err
			}
			a.log.Info("reminders armed", zap.Int("schedules", n))

			err = sched.Every(a.cfg.Reminder.RearmInterval, func() {
				rctx, cancel := context.WithTimeout(ctx, time.Minute)
				defer cancel()
				if _, err := svc.RearmReminders(rctx); err != nil {
					a.log.Error("failed to rearm reminders", zap.Error(err))
				}
			})
			if err != nil {
				return fmt.Errorf("failed to schedule rearm job: %w", err)
			}

			sched.Start()
			defer sched.Stop()

			if api != nil {
				b := bot.New(api, svc, a.repo, botCfg, a.log)
				go b.Run(ctx, api)
			}

			a.log.Info("serving, press Ctrl+C to stop")
			<-ctx.Done()
			a.log.Info("shutting down")
			return nil
		},
	}
}
