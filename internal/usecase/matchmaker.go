package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// Matchmaker seats incoming players into rooms, first fit in creation order.
type Matchmaker struct {
	logger   *slog.Logger
	sink     entity.EventSink
	maxRooms int

	mu     sync.Mutex
	rooms  []*entity.Room
	nextID int
}

// NewMatchmaker - maxRooms <= 0 means no limit.
func NewMatchmaker(logger *slog.Logger, sink entity.EventSink, maxRooms int) *Matchmaker {
	return &Matchmaker{
		logger:   logger.With("component", "matchmaker"),
		sink:     sink,
		maxRooms: maxRooms,
		nextID:   1,
	}
}

// Accept - seats member in the first open room, creating a room when none is open.
func (that *Matchmaker) Accept(member entity.Member) (*entity.Room, int, error) {
	log := that.logger.With("method", "Accept", "conn_id", member.ID())

	that.mu.Lock()
	defer that.mu.Unlock()

	that.reapLocked()

	for _, room := range that.rooms {
		if !room.IsOpen() {
			continue
		}

		slot, err := room.Join(member)
		if err != nil {
			log.Debug("open room refused player", "room_id", room.ID, "error", err)
			continue
		}

		log.Info("player seated", "room_id", room.ID, "slot", slot)

		return room, slot, nil
	}

	if that.maxRooms > 0 && len(that.rooms) >= that.maxRooms {
		return nil, -1, fmt.Errorf("%w: %d rooms in use", apperror.ErrNoRoomAvailable, len(that.rooms))
	}

	room := entity.NewRoom(that.nextID, that.sink)
	that.nextID++
	that.rooms = append(that.rooms, room)

	slot, err := room.Join(member)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to join new room: %w", err)
	}

	log.Info("room created", "room_id", room.ID, "slot", slot)

	return room, slot, nil
}

// Release - drops the room once nobody is seated in it.
func (that *Matchmaker) Release(room *entity.Room) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !room.IsEmpty() {
		return
	}

	for i, r := range that.rooms {
		if r == room {
			that.rooms = append(that.rooms[:i], that.rooms[i+1:]...)
			that.logger.Info("room removed", "room_id", room.ID)
			return
		}
	}
}

func (that *Matchmaker) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

// Room - looks up a live room by id.
func (that *Matchmaker) Room(id int) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, room := range that.rooms {
		if room.ID == id {
			return room, true
		}
	}

	return nil, false
}

func (that *Matchmaker) Rooms() []entity.RoomSnapshot {
	that.mu.Lock()
	rooms := make([]*entity.Room, len(that.rooms))
	copy(rooms, that.rooms)
	that.mu.Unlock()

	snapshots := make([]entity.RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		snapshots = append(snapshots, room.Snapshot())
	}

	return snapshots
}

func (that *Matchmaker) reapLocked() {
	kept := that.rooms[:0]
	for _, room := range that.rooms {
		if room.IsEmpty() {
			that.logger.Info("room removed", "room_id", room.ID)
			continue
		}
		kept = append(kept, room)
	}

	for i := len(kept); i < len(that.rooms); i++ {
		that.rooms[i] = nil
	}

	that.rooms = kept
}
