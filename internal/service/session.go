package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
)

const rejectServerFull = "Server full"

type matchmaker interface {
	Accept(member entity.Member) (*entity.Room, int, error)
	Release(room *entity.Room)
}

// SessionHandler runs the read loop of one player connection and dispatches its commands to the room.
type SessionHandler struct {
	logger     *slog.Logger
	matchmaker matchmaker
	queueSize  int

	handlers map[protocol.Command]func(room *entity.Room, slot int, payload string) error
}

func NewSessionHandler(logger *slog.Logger, matchmaker matchmaker, queueSize int) *SessionHandler {
	that := &SessionHandler{
		logger:     logger.With("component", "session"),
		matchmaker: matchmaker,
		queueSize:  queueSize,

		handlers: make(map[protocol.Command]func(*entity.Room, int, string) error),
	}

	that.handlers[protocol.CommandMove] = that.handleMove
	that.handlers[protocol.CommandChat] = that.handleChat
	that.handlers[protocol.CommandSurrender] = that.handleSurrender
	that.handlers[protocol.CommandRematch] = that.handleRematch
	that.handlers[protocol.CommandRestart] = that.handleRematch

	return that
}

// Serve - seats the connection and processes its messages until the stream fails.
// Returns once the player has left the room and the connection is closed.
func (that *SessionHandler) Serve(ctx context.Context, conn Conn) {
	peer := NewPeer(that.logger, conn, that.queueSize)
	defer func() {
		peer.Close()
		<-peer.Done()
	}()

	log := that.logger.With("conn_id", peer.ID(), "remote", conn.RemoteAddr())

	room, slot, err := that.matchmaker.Accept(peer)
	if err != nil {
		log.Warn("connection rejected", "error", err)
		if sendErr := peer.Send(protocol.Reject(rejectReason(err)).Encode()); sendErr != nil {
			log.Debug("failed to send reject", "error", sendErr)
		}
		return
	}

	log = log.With("room_id", room.ID, "slot", slot)
	log.Info("player connected")

	err = that.readLoop(ctx, conn, room, slot, log)
	log.Info("player disconnected", "reason", err)

	if err = room.Leave(slot); err != nil {
		log.Error("failed to leave room", "error", err)
	}

	that.matchmaker.Release(room)
}

func (that *SessionHandler) readLoop(ctx context.Context, conn Conn, room *entity.Room, slot int, log *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if err = that.dispatch(room, slot, raw); err != nil {
			log.Debug("message ignored", "raw", raw, "error", err)
		}
	}
}

// dispatch - handles a single inbound unit. Errors are protocol violations and leave the room untouched.
func (that *SessionHandler) dispatch(room *entity.Room, slot int, raw string) error {
	msg, err := protocol.Parse(raw)
	if err != nil {
		return err
	}

	handler, ok := that.handlers[msg.Command]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownCommand, msg.Command)
	}

	return handler(room, slot, msg.Payload)
}

func (that *SessionHandler) handleMove(room *entity.Room, slot int, payload string) error {
	row, col, err := protocol.ParseMove(payload)
	if err != nil {
		return err
	}

	if _, err = room.ApplyMove(slot, row, col); err != nil {
		return fmt.Errorf("move refused: %w", err)
	}

	return nil
}

func (that *SessionHandler) handleChat(room *entity.Room, slot int, payload string) error {
	return room.Chat(slot, payload)
}

func (that *SessionHandler) handleSurrender(room *entity.Room, slot int, _ string) error {
	if _, err := room.Surrender(slot); err != nil {
		return fmt.Errorf("surrender refused: %w", err)
	}

	return nil
}

func (that *SessionHandler) handleRematch(room *entity.Room, slot int, _ string) error {
	if _, err := room.RequestRematch(slot); err != nil {
		return fmt.Errorf("rematch refused: %w", err)
	}

	return nil
}

func rejectReason(err error) string {
	if errors.Is(err, apperror.ErrNoRoomAvailable) {
		return rejectServerFull
	}
	return "Server unavailable"
}
