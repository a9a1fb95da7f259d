package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameNotFinished  = errors.New("game is not finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell")
	ErrInvalidSlot      = errors.New("invalid slot index")
	ErrSeatEmpty        = errors.New("seat is empty")

	ErrRoomFull        = errors.New("room is full")
	ErrNoRoomAvailable = errors.New("no room available")

	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownCommand   = errors.New("unknown command")

	ErrPeerClosed   = errors.New("peer is closed")
	ErrOutboundFull = errors.New("outbound queue is full")
)
