package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/svincent/tandem.io/internal/catalog"
	"github.com/svincent/tandem.io/internal/room"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var params room.CreateRoomParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if validationErrors, ok := c.validate.Validate(params); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	created := c.registry.Create(&params)
	c.logger.InfoContext(r.Context(), "room created", "room_id", created.ID, "name", created.Name)

	writeJSON(w, http.StatusCreated, created.Summary())
}

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.registry.List())
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	found, ok := c.registry.Get(chi.URLParam(r, "room-id"))
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	writeJSON(w, http.StatusOK, found.Summary())
}

type mintTokenParams struct {
	ID   string `json:"id" validate:"required,max=100"`
	Name string `json:"name" validate:"required,max=100"`
}

// mintToken is the credential issuance endpoint. The room engine only ever
// verifies tokens; this is the single place they are produced.
func (c controller) mintToken(w http.ResponseWriter, r *http.Request) {
	var params mintTokenParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if validationErrors, ok := c.validate.Validate(params); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    params.ID,
		"name":  params.Name,
		"token": c.verifier.Token(params.ID, params.Name),
	})
}

func (c controller) resolveTrack(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	track, err := c.catalog.Resolve(r.Context(), rawURL)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to resolve url", "url", rawURL, "error", err)
		writeError(w, catalogErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, track)
}

func (c controller) searchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	results, err := c.catalog.Search(r.Context(), query, r.URL.Query().Get("source"))
	if err != nil {
		c.logger.DebugContext(r.Context(), "search failed", "query", query, "error", err)
		writeError(w, catalogErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type likeItemParams struct {
	ItemID      string `json:"item_id" validate:"required"`
	AccessToken string `json:"access_token" validate:"required"`
}

func (c controller) likeItem(w http.ResponseWriter, r *http.Request) {
	var params likeItemParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if validationErrors, ok := c.validate.Validate(params); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	source := chi.URLParam(r, "source")
	if err := c.catalog.Like(r.Context(), source, params.ItemID, params.AccessToken); err != nil {
		c.logger.DebugContext(r.Context(), "like failed", "source", source, "item_id", params.ItemID, "error", err)
		writeError(w, catalogErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func catalogErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotStreamable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
