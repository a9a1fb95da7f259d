package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type roomsHandler struct {
	logger *slog.Logger
	rooms  roomLister
}

func newRoomsHandler(logger *slog.Logger, rooms roomLister) *roomsHandler {
	return &roomsHandler{logger: logger, rooms: rooms}
}

// list - every live room with its board.
func (that *roomsHandler) list(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.rooms.Rooms())
}

func (that *roomsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	room, ok := that.rooms.Room(id)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	that.writeJSON(w, http.StatusOK, room.Snapshot())
}

func (that *roomsHandler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "method", "writeJSON", "error", err)
	}
}
