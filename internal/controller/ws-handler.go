package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/svincent/tandem.io/internal/room"
)

// streamRoom upgrades the connection and hands it to the room engine. The
// handshake, presence bookkeeping and bus splice all happen inside
// Room.Serve; by the time it returns the connection is fully torn down.
func (c controller) streamRoom(w http.ResponseWriter, r *http.Request) {
	target, ok := c.registry.Get(chi.URLParam(r, "room-id"))
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	if err := target.Serve(ws); err != nil {
		switch {
		case errors.Is(err, room.ErrAuthFailed), errors.Is(err, room.ErrAuthTimeout):
			c.logger.InfoContext(r.Context(), "connection rejected", "room_id", target.ID, "error", err)
		default:
			c.logger.DebugContext(r.Context(), "connection closed", "room_id", target.ID, "error", err)
		}
	}
}
