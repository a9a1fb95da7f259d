package service

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

// Conn is one player's message stream, whatever the transport.
type Conn interface {
	// ReadMessage blocks until a whole message arrives or the stream fails.
	ReadMessage() (string, error)
	WriteMessage(data []byte) error
	Close() error
	RemoteAddr() string
}

// Peer owns the write side of a Conn: messages are queued without blocking and written
// by a single goroutine, in the order they were queued.
type Peer struct {
	id     string
	conn   Conn
	logger *slog.Logger

	mu       sync.Mutex
	closed   bool
	outbound chan []byte
	done     chan struct{}
}

func NewPeer(logger *slog.Logger, conn Conn, queueSize int) *Peer {
	if queueSize <= 0 {
		queueSize = 1
	}

	id := uuid.NewString()

	that := &Peer{
		id:       id,
		conn:     conn,
		logger:   logger.With("component", "peer", "conn_id", id),
		outbound: make(chan []byte, queueSize),
		done:     make(chan struct{}),
	}

	go that.writeLoop()

	return that
}

func (that *Peer) ID() string {
	return that.id
}

// Send - queues data for the writer. A full queue closes the peer.
func (that *Peer) Send(data []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrPeerClosed
	}

	select {
	case that.outbound <- data:
		return nil
	default:
		that.logger.Warn("outbound queue full, dropping connection")
		that.closeLocked()
		// unblock the reader so the handler runs its disconnect path
		_ = that.conn.Close()
		return apperror.ErrOutboundFull
	}
}

// Close - stops accepting messages. Queued messages are still written before the conn is closed.
func (that *Peer) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()
}

// Done is closed once the writer has finished and the conn is closed.
func (that *Peer) Done() <-chan struct{} {
	return that.done
}

func (that *Peer) closeLocked() {
	if that.closed {
		return
	}

	that.closed = true
	close(that.outbound)
}

func (that *Peer) writeLoop() {
	defer close(that.done)

	failed := false
	for data := range that.outbound {
		if failed {
			continue
		}

		if err := that.conn.WriteMessage(data); err != nil {
			that.logger.Debug("failed to write message", "error", err)
			failed = true
			_ = that.conn.Close()
		}
	}

	if err := that.conn.Close(); err != nil && !failed {
		that.logger.Debug("failed to close connection", "error", err)
	}
}
