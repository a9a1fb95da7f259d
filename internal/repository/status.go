package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrStatusNotFound = errors.New("status not found")

type StatusRepository interface {
	Publish(ctx context.Context, text string) error
	Last(ctx context.Context) (string, error)
}

type dbStatus struct {
	client  *redis.Client
	channel string
}

// NewStatusRepository - status lines go out on channel; the latest one is kept under "<channel>:last".
func NewStatusRepository(client *redis.Client, channel string) StatusRepository {
	return &dbStatus{
		client:  client,
		channel: channel,
	}
}

func (that *dbStatus) Publish(ctx context.Context, text string) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, that.lastKey(), text, 0)
		pipe.Publish(ctx, that.channel, text)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish status: %w", err)
	}

	return nil
}

func (that *dbStatus) Last(ctx context.Context) (string, error) {
	text, err := that.client.Get(ctx, that.lastKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStatusNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get last status: %w", err)
	}

	return text, nil
}

func (that *dbStatus) lastKey() string {
	return that.channel + ":last"
}
