package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

const separator = "|"

type Command string

// inbound
const (
	CommandMove      Command = "MOVE"
	CommandChat      Command = "CHAT"
	CommandSurrender Command = "SURRENDER"
	CommandRematch   Command = "REMATCH"
	// CommandRestart is what older clients send to ask for a rematch.
	CommandRestart Command = "RESTART"
)

// outbound
const (
	CommandRole       Command = "ROLE"
	CommandStart      Command = "START"
	CommandGameOver   Command = "GAMEOVER"
	CommandDisconnect Command = "DISCONNECT"
	CommandReject     Command = "REJECT"
)

// Message is one COMMAND|PAYLOAD unit.
type Message struct {
	Command Command
	Payload string
}

func (that Message) String() string {
	return string(that.Command) + separator + that.Payload
}

func (that Message) Encode() []byte {
	return []byte(that.String())
}

// Parse - splits a raw unit on the first separator. Trailing line breaks are ignored.
func Parse(raw string) (Message, error) {
	raw = strings.TrimRight(raw, "\r\n")

	command, payload, _ := strings.Cut(raw, separator)
	if command == "" {
		return Message{}, fmt.Errorf("%w: empty command", apperror.ErrMalformedMessage)
	}

	return Message{Command: Command(command), Payload: payload}, nil
}

// ParseMove - reads a "row,col" payload.
func ParseMove(payload string) (int, int, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: move %q", apperror.ErrMalformedMessage, payload)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row %q", apperror.ErrMalformedMessage, parts[0])
	}

	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: col %q", apperror.ErrMalformedMessage, parts[1])
	}

	return row, col, nil
}

func Role(symbol string, roomID int) Message {
	return Message{Command: CommandRole, Payload: fmt.Sprintf("%s,%d", symbol, roomID)}
}

func Start() Message {
	return Message{Command: CommandStart}
}

func Move(row, col, slot int) Message {
	return Message{Command: CommandMove, Payload: fmt.Sprintf("%d,%d,%d", row, col, slot)}
}

func GameOver(text string) Message {
	return Message{Command: CommandGameOver, Payload: text}
}

func Chat(text string) Message {
	return Message{Command: CommandChat, Payload: text}
}

func Restart() Message {
	return Message{Command: CommandRestart}
}

func Disconnect(text string) Message {
	return Message{Command: CommandDisconnect, Payload: text}
}

func Reject(reason string) Message {
	return Message{Command: CommandReject, Payload: reason}
}
