package status

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Async decouples callers from a slow sink with a bounded queue. Lines that do not fit are dropped.
type Async struct {
	logger *slog.Logger
	next   Sink

	mu      sync.RWMutex
	closed  bool
	queue   chan string
	done    chan struct{}
	dropped atomic.Int64
}

func NewAsync(logger *slog.Logger, next Sink, size int) *Async {
	if size <= 0 {
		size = 1
	}

	that := &Async{
		logger: logger.With("component", "status-queue"),
		next:   next,
		queue:  make(chan string, size),
		done:   make(chan struct{}),
	}

	go that.run()

	return that
}

func (that *Async) Notify(text string) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.closed {
		return
	}

	select {
	case that.queue <- text:
	default:
		that.dropped.Add(1)
	}
}

// Dropped - number of lines discarded because the queue was full.
func (that *Async) Dropped() int64 {
	return that.dropped.Load()
}

// Close - delivers what is queued and stops the worker.
func (that *Async) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		<-that.done
		return
	}
	that.closed = true
	close(that.queue)
	that.mu.Unlock()

	<-that.done

	if dropped := that.dropped.Load(); dropped > 0 {
		that.logger.Warn("status lines dropped", "count", dropped)
	}
}

func (that *Async) run() {
	defer close(that.done)

	for text := range that.queue {
		that.next.Notify(text)
	}
}
