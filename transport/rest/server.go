package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type roomLister interface {
	Rooms() []entity.RoomSnapshot
	Room(id int) (*entity.Room, bool)
}

// Server is the operator HTTP surface.
type Server struct {
	logger *slog.Logger
	rooms  roomLister
}

func New(logger *slog.Logger, rooms roomLister) *Server {
	return &Server{
		logger: logger.With("component", "rest_server"),
		rooms:  rooms,
	}
}

func (that *Server) Handler() http.Handler {
	ping := NewPingHandler()
	rooms := newRoomsHandler(that.logger, that.rooms)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", ping.PingHandler)
	mux.HandleFunc("GET /rooms", rooms.list)
	mux.HandleFunc("GET /rooms/{id}", rooms.get)

	return mux
}

// Start - serves HTTP until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
