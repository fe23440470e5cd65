package main

import (
	"os"

	"finny/internal/amqp"
	"finny/internal/cli"
	"finny/internal/log"
	"finny/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting reminder-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.NotificationsEnabled() {
		logger.Error("reminder-worker requires AMQP_URL")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	processor := services.NewReminderProcessor(repo, client, cfg.ReminderLookahead, logger)
	logger.Info("Bill reminder processor configured",
		"interval", cfg.ReminderInterval,
		"lookahead", cfg.ReminderLookahead,
		"sqlite_db", cfg.SQLiteDBPath)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	_ = processor.Run(ctx, cfg.ReminderInterval)
	logger.Info("reminder-worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
