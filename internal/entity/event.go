package entity

type EventType string

const (
	EventJoined           EventType = "joined"
	EventStarted          EventType = "started"
	EventMoved            EventType = "moved"
	EventGameOver         EventType = "game_over"
	EventChat             EventType = "chat"
	EventRematchRequested EventType = "rematch_requested"
	EventRestarted        EventType = "restarted"
	EventLeft             EventType = "left"
)

type GameOverReason string

const (
	ReasonWin       GameOverReason = "win"
	ReasonDraw      GameOverReason = "draw"
	ReasonSurrender GameOverReason = "surrender"
)

// Event is emitted by a Room for every state change, while the room lock is held.
// Members is the seating right after the change.
type Event struct {
	Type   EventType
	RoomID int

	// Slot is the acting player.
	Slot int

	Row     int
	Col     int
	Outcome MoveOutcome

	Reason GameOverReason
	// Winner is the winning slot or NoWinner.
	Winner int

	Text    string
	Players int

	Members [SlotCount]Member
}

// EventSink receives room events. Publish runs under the room lock: it must not block
// and must not call back into the room.
type EventSink interface {
	Publish(event Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
