package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
	"github.com/rocketscienceinc/caro-backend/internal/repository/storage"
	"github.com/rocketscienceinc/caro-backend/internal/service"
	"github.com/rocketscienceinc/caro-backend/internal/status"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	"github.com/rocketscienceinc/caro-backend/transport/rest"
	"github.com/rocketscienceinc/caro-backend/transport/tcp"
	"github.com/rocketscienceinc/caro-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT/SIGTERM or a listener failure.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sinks := status.Multi{status.NewLogSink(logger)}

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		statusRepo := repository.NewStatusRepository(redisStorage.Connection, conf.Redis.StatusChannel)
		sinks = append(sinks, status.NewRedisSink(logger, statusRepo))
	}

	statusSink := status.NewAsync(logger, sinks, conf.Status.QueueSize)
	defer statusSink.Close()

	relay := service.NewRelay(service.NewBroadcaster(logger), statusSink)
	matchmaker := usecase.NewMatchmaker(logger, relay, conf.Game.MaxRooms)
	sessions := service.NewSessionHandler(logger, matchmaker, conf.Game.OutboundQueue)

	// run game server
	gameServer := tcp.New(logger, sessions, statusSink, conf.Game.MaxMessageSize)
	if err := gameServer.Start(conf.Game.Port); err != nil {
		return fmt.Errorf("could not start game server: %w", err)
	}
	defer gameServer.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	errCh := make(chan error, 2)

	// run HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, matchmaker).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			errCh <- httpErr
		}
	}()

	// run Websocket server
	if conf.WebSocketPort != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			log.Info("Starting WebSocket server", "port", conf.WebSocketPort)
			wsServer := websocket.New(logger, sessions, conf.Game.MaxMessageSize)
			if wsErr := wsServer.Start(ctx, conf.WebSocketPort); wsErr != nil {
				log.Error("WebSocket server error", "error", wsErr)
				errCh <- wsErr
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
		return nil
	case err := <-errCh:
		cancel()
		return fmt.Errorf("listener failed: %w", err)
	}
}
