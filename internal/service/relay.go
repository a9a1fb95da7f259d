package service

import (
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
	"github.com/rocketscienceinc/caro-backend/internal/status"
)

// Relay turns room events into protocol messages for the players and lines for the status sink.
// It runs under the room lock, so everything it calls must return promptly.
type Relay struct {
	broadcaster *Broadcaster
	status      status.Sink
}

func NewRelay(broadcaster *Broadcaster, sink status.Sink) *Relay {
	if sink == nil {
		sink = status.Nop{}
	}

	return &Relay{
		broadcaster: broadcaster,
		status:      sink,
	}
}

func (that *Relay) Publish(event entity.Event) {
	members := event.Members[:]

	switch event.Type {
	case entity.EventJoined:
		that.broadcaster.SendTo(event.Members[event.Slot], protocol.Role(symbol(event.Slot), event.RoomID))
		that.notify(event, "client %d connected. Waiting for %d more players.", event.Slot+1, entity.SlotCount-event.Players)

	case entity.EventStarted:
		that.broadcaster.Broadcast(members, protocol.Start())
		that.notify(event, "game started. Player %s's turn.", symbol(0))

	case entity.EventMoved:
		that.broadcaster.Broadcast(members, protocol.Move(event.Row, event.Col, event.Slot))
		if !event.Outcome.Won && !event.Outcome.Drawn {
			that.notify(event, "Player %s's turn", symbol(1-event.Slot))
		}

	case entity.EventGameOver:
		that.broadcaster.Broadcast(members, protocol.GameOver(gameOverText(event)))
		that.notify(event, "game over. %s", gameOverStatus(event))

	case entity.EventChat:
		that.broadcaster.Broadcast(members, protocol.Chat(fmt.Sprintf("%s: %s", label(event.Slot), event.Text)))

	case entity.EventRematchRequested:
		that.notify(event, "Player %s wants a rematch.", symbol(event.Slot))

	case entity.EventRestarted:
		that.broadcaster.Broadcast(members, protocol.Restart())
		that.notify(event, "game restarted. Player %s's turn.", symbol(0))

	case entity.EventLeft:
		that.broadcaster.Broadcast(members, protocol.Disconnect(label(event.Slot)+" disconnected"))
		that.notify(event, "player %d disconnected. %d players connected.", event.Slot+1, event.Players)
	}
}

func (that *Relay) notify(event entity.Event, format string, args ...any) {
	that.status.Notify(fmt.Sprintf("Room %d: ", event.RoomID) + fmt.Sprintf(format, args...))
}

func gameOverText(event entity.Event) string {
	switch event.Reason {
	case entity.ReasonDraw:
		return "Draw!"
	case entity.ReasonSurrender:
		return fmt.Sprintf("Player %s wins! Player %s surrendered.", symbol(event.Winner), symbol(event.Slot))
	default:
		return fmt.Sprintf("Player %s wins!", symbol(event.Winner))
	}
}

func gameOverStatus(event entity.Event) string {
	switch event.Reason {
	case entity.ReasonDraw:
		return "It's a draw!"
	case entity.ReasonSurrender:
		return fmt.Sprintf("Player %s surrendered, Player %s wins!", symbol(event.Slot), symbol(event.Winner))
	default:
		return fmt.Sprintf("Player %s wins!", symbol(event.Winner))
	}
}

func symbol(slot int) string {
	return entity.SymbolForSlot(slot).String()
}

// label is how other players see a slot in chat and notices.
func label(slot int) string {
	return fmt.Sprintf("Player %d", slot+1)
}
