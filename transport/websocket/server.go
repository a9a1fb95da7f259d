package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/caro-backend/internal/service"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type connHandler interface {
	Serve(ctx context.Context, conn service.Conn)
}

// Server is the browser-facing game listener. Each text frame carries one message.
type Server struct {
	logger         *slog.Logger
	handler        connHandler
	maxMessageSize int64

	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

func New(logger *slog.Logger, handler connHandler, maxMessageSize int) *Server {
	return &Server{
		logger:         logger.With("component", "websocket_server"),
		handler:        handler,
		maxMessageSize: int64(maxMessageSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// game clients are served from anywhere
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler - the /ws endpoint, bound to ctx for the lifetime of the connections it accepts.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgrade(ctx, w, r)
	})

	return mux
}

// Start - serves WebSocket connections until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}

		// hijacked connections are not tracked by http.Server
		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgrade - upgrades the request and runs the session on it until the client leaves.
func (that *Server) upgrade(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgrade")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("failed to upgrade connection", "error", err)
		return
	}

	if !that.track(ws) {
		_ = ws.Close()
		return
	}
	defer that.untrack(ws)

	if that.maxMessageSize > 0 {
		ws.SetReadLimit(that.maxMessageSize)
	}

	log.Debug("websocket connection established", "remote", ws.RemoteAddr().String())

	that.handler.Serve(ctx, &conn{ws: ws})
}

func (that *Server) track(ws *websocket.Conn) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	that.conns[ws] = struct{}{}

	return true
}

func (that *Server) untrack(ws *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, ws)
}

func (that *Server) closeAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
	for ws := range that.conns {
		_ = ws.Close()
	}
}

// conn adapts a websocket to service.Conn. Only the session's writer goroutine writes to it.
type conn struct {
	ws *websocket.Conn
}

// ReadMessage - returns the next text frame. Binary frames are skipped.
func (that *conn) ReadMessage() (string, error) {
	for {
		kind, data, err := that.ws.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("failed to read message: %w", err)
		}

		if kind == websocket.TextMessage {
			return string(data), nil
		}
	}
}

func (that *conn) WriteMessage(data []byte) error {
	if err := that.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *conn) Close() error {
	return that.ws.Close()
}

func (that *conn) RemoteAddr() string {
	return that.ws.RemoteAddr().String()
}
