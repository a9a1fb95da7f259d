package service

import (
	"log/slog"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
)

// Broadcaster delivers a message to each member on its own. A failed member is logged and skipped.
type Broadcaster struct {
	logger *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{logger: logger.With("component", "broadcaster")}
}

func (that *Broadcaster) Broadcast(members []entity.Member, msg protocol.Message) {
	data := msg.Encode()

	for _, member := range members {
		that.deliver(member, msg.Command, data)
	}
}

func (that *Broadcaster) SendTo(member entity.Member, msg protocol.Message) {
	that.deliver(member, msg.Command, msg.Encode())
}

func (that *Broadcaster) deliver(member entity.Member, command protocol.Command, data []byte) {
	if member == nil {
		return
	}

	if err := member.Send(data); err != nil {
		that.logger.Debug("delivery failed", "conn_id", member.ID(), "command", command, "error", err)
	}
}
