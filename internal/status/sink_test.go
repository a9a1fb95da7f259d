package status

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (that *recorder) Notify(text string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.lines = append(that.lines, text)
}

func (that *recorder) snapshot() []string {
	that.mu.Lock()
	defer that.mu.Unlock()
	return append([]string(nil), that.lines...)
}

// blockingSink holds every line until release is closed.
type blockingSink struct {
	release chan struct{}
	recorder
}

func (that *blockingSink) Notify(text string) {
	<-that.release
	that.recorder.Notify(text)
}

type fakeStatusRepo struct {
	err   error
	texts []string
}

func (that *fakeStatusRepo) Publish(_ context.Context, text string) error {
	that.texts = append(that.texts, text)
	return that.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAsync(t *testing.T) {
	t.Run("Delivers lines in order", func(t *testing.T) {
		next := &recorder{}
		async := NewAsync(discardLogger(), next, 16)

		async.Notify("one")
		async.Notify("two")
		async.Notify("three")
		async.Close()

		assert.Equal(t, []string{"one", "two", "three"}, next.snapshot())
	})

	t.Run("Never blocks when the queue is full", func(t *testing.T) {
		// Given: a sink that does not make progress
		next := &blockingSink{release: make(chan struct{})}
		async := NewAsync(discardLogger(), next, 2)

		// When: far more lines than the queue holds are sent
		done := make(chan struct{})
		go func() {
			for range 100 {
				async.Notify("line")
			}
			close(done)
		}()

		// Then: the caller returns without waiting on the sink
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Notify blocked on a stalled sink")
		}
		assert.Positive(t, async.Dropped())

		close(next.release)
		async.Close()
	})

	t.Run("Notify after Close is ignored", func(t *testing.T) {
		next := &recorder{}
		async := NewAsync(discardLogger(), next, 4)
		async.Close()

		async.Notify("late")
		async.Close()

		assert.Empty(t, next.snapshot())
	})
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}

	Multi{a, b, Nop{}}.Notify("hello")

	assert.Equal(t, []string{"hello"}, a.snapshot())
	assert.Equal(t, []string{"hello"}, b.snapshot())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.Notify("Server Status: Running on port 8888")

	assert.Contains(t, buf.String(), `"text":"Server Status: Running on port 8888"`)
	assert.Contains(t, buf.String(), `"component":"status"`)
}

func TestRedisSink(t *testing.T) {
	t.Run("Publishes through the repository", func(t *testing.T) {
		repo := &fakeStatusRepo{}
		sink := NewRedisSink(discardLogger(), repo)

		sink.Notify("Room 1: game started. Player X's turn.")

		require.Len(t, repo.texts, 1)
		assert.Equal(t, "Room 1: game started. Player X's turn.", repo.texts[0])
	})

	t.Run("Swallows publish errors", func(t *testing.T) {
		repo := &fakeStatusRepo{err: errors.New("connection refused")}
		sink := NewRedisSink(discardLogger(), repo)

		assert.NotPanics(t, func() { sink.Notify("x") })
	})
}
