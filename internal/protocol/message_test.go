package protocol

import (
	"testing"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Command with payload", func(t *testing.T) {
		msg, err := Parse("MOVE|3,4\n")

		require.NoError(t, err)
		assert.Equal(t, Message{Command: CommandMove, Payload: "3,4"}, msg)
	})

	t.Run("Command without payload", func(t *testing.T) {
		msg, err := Parse("SURRENDER")

		require.NoError(t, err)
		assert.Equal(t, CommandSurrender, msg.Command)
		assert.Empty(t, msg.Payload)
	})

	t.Run("Only the first separator splits", func(t *testing.T) {
		msg, err := Parse("CHAT|a|b\r\n")

		require.NoError(t, err)
		assert.Equal(t, "a|b", msg.Payload)
	})

	t.Run("Empty unit is malformed", func(t *testing.T) {
		_, err := Parse("\n")
		require.ErrorIs(t, err, apperror.ErrMalformedMessage)

		_, err = Parse("|x")
		require.ErrorIs(t, err, apperror.ErrMalformedMessage)
	})
}

func TestParseMove(t *testing.T) {
	row, col, err := ParseMove("7, 11")
	require.NoError(t, err)
	assert.Equal(t, 7, row)
	assert.Equal(t, 11, col)

	for _, payload := range []string{"", "7", "7,", "a,1", "1,b", "1,2,3"} {
		_, _, err = ParseMove(payload)
		require.ErrorIs(t, err, apperror.ErrMalformedMessage, "payload %q", payload)
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "ROLE|X,3", Role("X", 3).String())
	assert.Equal(t, "START|", Start().String())
	assert.Equal(t, "MOVE|7,8,1", Move(7, 8, 1).String())
	assert.Equal(t, "GAMEOVER|Draw!", GameOver("Draw!").String())
	assert.Equal(t, []byte("REJECT|Server full"), Reject("Server full").Encode())
}
