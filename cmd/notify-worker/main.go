package main

import (
	"os"

	"finny/internal/amqp"
	"finny/internal/cli"
	"finny/internal/log"
	"finny/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting notify-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.NotificationsEnabled() {
		logger.Error("notify-worker requires AMQP_URL")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewNotificationWorker(nil, logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	logger.Info("Consuming notifications", "queue", cfg.AMQPQueue)
	_ = client.ConsumeWithRetry(ctx, w.Handle)
	logger.Info("notify-worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
