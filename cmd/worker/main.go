package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jj-oyna/glass-pos/internal/config"
	"github.com/jj-oyna/glass-pos/internal/notify"
	"github.com/jj-oyna/glass-pos/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "glasspos")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	if !cfg.TelegramConfigured() {
		logger.Warn().Msg("telegram credentials missing, receipts will be skipped")
	}

	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	queue := cfg.NotifyQueue
	if queue == "" {
		queue = "default"
	}
	srv := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: envInt("WORKER_CONCURRENCY", 5),
		Queues:      map[string]int{queue: 1},
		Logger:      asynqLogger{log: logger},
	})

	deliverer := &notify.Deliverer{
		Telegram: notify.NewTelegramClient(
			cfg.TelegramBaseURL,
			cfg.TelegramBotToken,
			cfg.TelegramChatID,
			cfg.NotifyTimeout,
		),
		Timeout: cfg.NotifyTimeout,
		Logger:  logger,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TaskReceiptDeliver, deliverer.Handle)

	// asynq.Server traps SIGINT and SIGTERM itself.
	logger.Info().Str("queue", queue).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger adapts zerolog to asynq's logging interface.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
