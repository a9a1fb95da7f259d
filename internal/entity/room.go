package entity

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

const (
	SlotCount = 2
	NoWinner  = -1
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "game_over"
)

// Member is the room's handle on a connected player.
type Member interface {
	ID() string
	Send(data []byte) error
}

type MoveOutcome struct {
	Applied bool
	Won     bool
	Drawn   bool
	Winner  int
}

type Room struct {
	ID int

	mu      sync.Mutex
	board   *Board
	members [SlotCount]Member
	status  Status
	turn    int
	votes   [SlotCount]bool
	sink    EventSink
}

func NewRoom(id int, sink EventSink) *Room {
	if sink == nil {
		sink = nopSink{}
	}

	return &Room{
		ID:     id,
		board:  NewBoard(),
		status: StatusWaiting,
		sink:   sink,
	}
}

// Join - seats member in the lowest free slot. The game starts once both slots are taken.
func (that *Room) Join(member Member) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	slot := -1
	for i, m := range that.members {
		if m == nil {
			slot = i
			break
		}
	}

	if slot < 0 {
		return -1, fmt.Errorf("%w: room %d", apperror.ErrRoomFull, that.ID)
	}

	that.members[slot] = member
	that.emit(Event{Type: EventJoined, Slot: slot})

	if that.playerCount() == SlotCount {
		that.status = StatusPlaying
		that.turn = 0
		that.emit(Event{Type: EventStarted, Slot: slot})
	}

	return slot, nil
}

// ApplyMove - places the slot's stone at (row, col) if the slot holds the turn of a running game.
// A rejected move changes nothing and emits nothing.
func (that *Room) ApplyMove(slot, row, col int) (MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	outcome := MoveOutcome{Winner: NoWinner}

	if err := that.validateMove(slot, row, col); err != nil {
		return outcome, err
	}

	that.board.Place(row, col, SymbolForSlot(slot))
	outcome.Applied = true

	switch {
	case that.board.CheckWin(row, col):
		outcome.Won = true
		outcome.Winner = slot
		that.status = StatusGameOver
	case that.board.IsFull():
		outcome.Drawn = true
		that.status = StatusGameOver
	default:
		that.turn = 1 - that.turn
	}

	that.emit(Event{Type: EventMoved, Slot: slot, Row: row, Col: col, Outcome: outcome})

	switch {
	case outcome.Won:
		that.emit(Event{Type: EventGameOver, Slot: slot, Reason: ReasonWin, Winner: slot})
	case outcome.Drawn:
		that.emit(Event{Type: EventGameOver, Slot: slot, Reason: ReasonDraw, Winner: NoWinner})
	}

	return outcome, nil
}

// validateMove - checks if the move is valid.
func (that *Room) validateMove(slot, row, col int) error {
	if err := that.checkSeat(slot); err != nil {
		return err
	}

	switch that.status {
	case StatusWaiting:
		return apperror.ErrGameIsNotStarted
	case StatusGameOver:
		return apperror.ErrGameFinished
	}

	if that.turn != slot {
		return apperror.ErrNotYourTurn
	}

	if !that.board.InBounds(row, col) {
		return fmt.Errorf("%w: %d,%d", apperror.ErrInvalidCell, row, col)
	}

	if that.board.At(row, col) != Empty {
		return fmt.Errorf("%w: %d,%d", apperror.ErrCellOccupied, row, col)
	}

	return nil
}

// Surrender - ends the game in favour of the other slot. Not allowed while waiting.
func (that *Room) Surrender(slot int) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkSeat(slot); err != nil {
		return NoWinner, err
	}

	if that.status == StatusWaiting {
		return NoWinner, apperror.ErrGameIsNotStarted
	}

	winner := 1 - slot
	that.status = StatusGameOver
	that.emit(Event{Type: EventGameOver, Slot: slot, Reason: ReasonSurrender, Winner: winner})

	return winner, nil
}

// RequestRematch - records the slot's vote. The second vote resets the board and restarts the game.
// Votes are only taken once the game is over.
func (that *Room) RequestRematch(slot int) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkSeat(slot); err != nil {
		return false, err
	}

	if that.status != StatusGameOver {
		return false, apperror.ErrGameNotFinished
	}

	if that.votes[slot] {
		return false, nil
	}

	that.votes[slot] = true

	for _, voted := range that.votes {
		if !voted {
			that.emit(Event{Type: EventRematchRequested, Slot: slot})
			return false, nil
		}
	}

	that.board.Reset()
	that.status = StatusPlaying
	that.turn = 0
	that.votes = [SlotCount]bool{}
	that.emit(Event{Type: EventRestarted, Slot: slot})

	return true, nil
}

func (that *Room) Chat(slot int, text string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkSeat(slot); err != nil {
		return err
	}

	that.emit(Event{Type: EventChat, Slot: slot, Text: text})

	return nil
}

// Leave - frees the slot. A room that was not waiting goes back to waiting with a fresh board,
// so the next player seated here starts a new game.
func (that *Room) Leave(slot int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkSeat(slot); err != nil {
		return err
	}

	that.members[slot] = nil
	that.votes = [SlotCount]bool{}

	if that.status != StatusWaiting {
		that.status = StatusWaiting
		that.board.Reset()
		that.turn = 0
	}

	that.emit(Event{Type: EventLeft, Slot: slot})

	return nil
}

func (that *Room) Status() Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Room) Turn() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *Room) PlayerCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerCount()
}

// IsOpen reports whether the room is waiting for a player.
func (that *Room) IsOpen() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status == StatusWaiting && that.playerCount() < SlotCount
}

func (that *Room) IsEmpty() bool {
	return that.PlayerCount() == 0
}

func (that *Room) CellAt(row, col int) Cell {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.At(row, col)
}

func (that *Room) Filled() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Filled()
}

func (that *Room) Snapshot() RoomSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	votes := 0
	for _, voted := range that.votes {
		if voted {
			votes++
		}
	}

	return RoomSnapshot{
		ID:           that.ID,
		Status:       that.status,
		Players:      that.playerCount(),
		Turn:         that.turn,
		RematchVotes: votes,
		Board:        that.board.Rows(),
	}
}

func (that *Room) checkSeat(slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidSlot, slot)
	}

	if that.members[slot] == nil {
		return fmt.Errorf("%w: slot %d", apperror.ErrSeatEmpty, slot)
	}

	return nil
}

func (that *Room) playerCount() int {
	count := 0
	for _, m := range that.members {
		if m != nil {
			count++
		}
	}
	return count
}

func (that *Room) emit(event Event) {
	event.RoomID = that.ID
	event.Members = that.members
	event.Players = that.playerCount()
	that.sink.Publish(event)
}
