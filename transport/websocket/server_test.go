package websocket_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/caro-backend/internal/service"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	caro "github.com/rocketscienceinc/caro-backend/transport/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ioTimeout = 2 * time.Second

func newTestServer(t *testing.T) string {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	relay := service.NewRelay(service.NewBroadcaster(logger), nil)
	matchmaker := usecase.NewMatchmaker(logger, relay, 0)
	handler := service.NewSessionHandler(logger, matchmaker, 16)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := httptest.NewServer(caro.New(logger, handler, 64).Handler(ctx))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = ws.Close() })

	return ws
}

func expect(t *testing.T, ws *websocket.Conn, want ...string) {
	t.Helper()

	for _, w := range want {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(ioTimeout)))
		kind, data, err := ws.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.Equal(t, w, string(data))
	}
}

func send(t *testing.T, ws *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(text)))
}

func TestServer_Game(t *testing.T) {
	url := newTestServer(t)

	// Given: two browser players
	x := dial(t, url)
	expect(t, x, "ROLE|X,1")
	o := dial(t, url)
	expect(t, o, "ROLE|O,1", "START|")
	expect(t, x, "START|")

	// When: X moves and O chats, with a binary frame in between that is ignored
	send(t, x, "MOVE|7,7")
	expect(t, x, "MOVE|7,7,0")
	expect(t, o, "MOVE|7,7,0")

	require.NoError(t, o.WriteMessage(websocket.BinaryMessage, []byte("MOVE|0,0")))
	send(t, o, "CHAT|hello")

	// Then: frames carry exactly one message each
	expect(t, x, "CHAT|Player 2: hello")
}

func TestServer_OversizedFrameEndsSession(t *testing.T) {
	url := newTestServer(t)

	x := dial(t, url)
	expect(t, x, "ROLE|X,1")
	o := dial(t, url)
	expect(t, o, "ROLE|O,1", "START|")
	expect(t, x, "START|")

	send(t, x, "CHAT|"+strings.Repeat("a", 128))

	expect(t, o, "DISCONNECT|Player 1 disconnected")
}

func TestServer_Start(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := caro.New(logger, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, "0") }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ioTimeout):
		t.Fatal("server did not stop")
	}
}
