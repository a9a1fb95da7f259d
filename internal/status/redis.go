package status

import (
	"context"
	"log/slog"
	"time"
)

const publishTimeout = 2 * time.Second

type statusRepo interface {
	Publish(ctx context.Context, text string) error
}

// RedisSink pushes status lines to a redis channel. Publishing is a network call, so wrap it in Async.
type RedisSink struct {
	logger     *slog.Logger
	statusRepo statusRepo
}

func NewRedisSink(logger *slog.Logger, statusRepo statusRepo) *RedisSink {
	return &RedisSink{
		logger:     logger.With("component", "redis-status"),
		statusRepo: statusRepo,
	}
}

func (that *RedisSink) Notify(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := that.statusRepo.Publish(ctx, text); err != nil {
		that.logger.Warn("failed to publish status", "error", err)
	}
}
