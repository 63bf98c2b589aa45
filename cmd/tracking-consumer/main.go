package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tendant/blog-backend/pkg/blog/config"
)

// The tracking consumer long-polls the queue and persists each delivered
// batch. A batch that fails (in whole or in part) is not acknowledged, so
// the queue's visibility timeout redelivers it; duplicates are accepted
// under at-least-once semantics.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	runtime, err := serverConfig.BuildRuntime(logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}

	queue, err := serverConfig.BuildConsumerQueue()
	if err != nil {
		logger.Error("failed to build consumer queue", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("tracking consumer starting", "queue_url", serverConfig.QueueURL)

	for {
		records, err := queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break
			}
			logger.Error("failed to receive batch", "error", err)
			continue
		}

		if len(records) == 0 {
			continue
		}

		logger.Info("processing tracking batch", "size", len(records))

		if err := runtime.Consumer.ProcessBatch(ctx, records); err != nil {
			// Leave the batch unacknowledged so it redelivers.
			logger.Error("tracking batch failed", "error", err)
			continue
		}

		for _, record := range records {
			if err := queue.Acknowledge(ctx, record); err != nil {
				logger.Error("failed to acknowledge record", "message_id", record.MessageID, "error", err)
			}
		}
	}

	logger.Info("tracking consumer exiting")
}
