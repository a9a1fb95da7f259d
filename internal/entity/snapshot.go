package entity

// RoomSnapshot is a point-in-time copy of a room for operators.
type RoomSnapshot struct {
	ID           int      `json:"id"`
	Status       Status   `json:"status"`
	Players      int      `json:"players"`
	Turn         int      `json:"turn"`
	RematchVotes int      `json:"rematch_votes"`
	Board        []string `json:"board"`
}
