package tcp

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// lineConn frames messages as newline terminated lines.
type lineConn struct {
	conn         net.Conn
	scanner      *bufio.Scanner
	writeTimeout time.Duration
}

func newLineConn(conn net.Conn, maxMessageSize int, writeTimeout time.Duration) *lineConn {
	scanner := bufio.NewScanner(conn)
	// +1 leaves room for the terminator
	scanner.Buffer(make([]byte, 0, min(maxMessageSize+1, 4096)), maxMessageSize+1)

	return &lineConn{
		conn:         conn,
		scanner:      scanner,
		writeTimeout: writeTimeout,
	}
}

func (that *lineConn) ReadMessage() (string, error) {
	if that.scanner.Scan() {
		return strings.TrimSuffix(that.scanner.Text(), "\r"), nil
	}

	if err := that.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}

	return "", io.EOF
}

func (that *lineConn) WriteMessage(data []byte) error {
	if that.writeTimeout > 0 {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')

	if _, err := that.conn.Write(line); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *lineConn) Close() error {
	return that.conn.Close()
}

func (that *lineConn) RemoteAddr() string {
	return that.conn.RemoteAddr().String()
}
