package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/service"
	"github.com/rocketscienceinc/caro-backend/internal/status"
)

const (
	writeTimeout          = 10 * time.Second
	acceptBackoff         = 50 * time.Millisecond
	defaultMaxMessageSize = 1024
)

type connHandler interface {
	Serve(ctx context.Context, conn service.Conn)
}

// Server is the game listener. It can be stopped and started again.
type Server struct {
	logger         *slog.Logger
	handler        connHandler
	status         status.Sink
	maxMessageSize int

	lifecycle sync.Mutex

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	conns    map[net.Conn]struct{}

	wg sync.WaitGroup
}

func New(logger *slog.Logger, handler connHandler, sink status.Sink, maxMessageSize int) *Server {
	if sink == nil {
		sink = status.Nop{}
	}

	if maxMessageSize <= 0 {
		maxMessageSize = defaultMaxMessageSize
	}

	return &Server{
		logger:         logger.With("component", "tcp_server"),
		handler:        handler,
		status:         sink,
		maxMessageSize: maxMessageSize,
		conns:          make(map[net.Conn]struct{}),
	}
}

// Start - binds the port and accepts connections in the background. Starting a running server does nothing.
func (that *Server) Start(port string) error {
	log := that.logger.With("method", "Start")

	that.lifecycle.Lock()
	defer that.lifecycle.Unlock()

	if that.Running() {
		return nil
	}

	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		err = fmt.Errorf("failed to listen on port %s: %w", port, err)
		that.status.Notify("Error starting server: " + err.Error())
		log.Error("failed to start server", "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	that.mu.Lock()
	that.listener = listener
	that.cancel = cancel
	that.mu.Unlock()

	that.wg.Add(1)
	go that.acceptLoop(ctx, listener)

	bound := listener.Addr().(*net.TCPAddr).Port
	log.Info("server started", "port", bound)
	that.status.Notify(fmt.Sprintf("Server Status: Running on port %d", bound))

	return nil
}

// Stop - closes the listener and every live connection, then waits for their handlers.
func (that *Server) Stop() {
	that.lifecycle.Lock()
	defer that.lifecycle.Unlock()

	that.mu.Lock()
	if that.listener == nil {
		that.mu.Unlock()
		return
	}

	that.cancel()
	if err := that.listener.Close(); err != nil {
		that.logger.Warn("failed to close listener", "error", err)
	}
	that.listener = nil

	for conn := range that.conns {
		_ = conn.Close()
	}
	that.mu.Unlock()

	that.wg.Wait()

	that.logger.Info("server stopped")
	that.status.Notify("Server Status: Not Running")
}

func (that *Server) Running() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.listener != nil
}

// Addr - the bound address, nil when stopped.
func (that *Server) Addr() net.Addr {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.listener == nil {
		return nil
	}

	return that.listener.Addr()
}

func (that *Server) acceptLoop(ctx context.Context, listener net.Listener) {
	defer that.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}

			that.logger.Warn("failed to accept connection", "error", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(acceptBackoff):
			}

			continue
		}

		if !that.track(ctx, conn) {
			_ = conn.Close()
			continue
		}

		that.wg.Add(1)
		go that.serve(ctx, conn)
	}
}

func (that *Server) serve(ctx context.Context, conn net.Conn) {
	defer that.wg.Done()
	defer that.untrack(conn)

	that.handler.Serve(ctx, newLineConn(conn, that.maxMessageSize, writeTimeout))
}

// track - registers conn unless the server is stopping.
func (that *Server) track(ctx context.Context, conn net.Conn) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	that.conns[conn] = struct{}{}

	return true
}

func (that *Server) untrack(conn net.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, conn)
}
