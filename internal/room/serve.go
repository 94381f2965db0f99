package room

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type authPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Serve runs the connection lifecycle against the room: auth handshake,
// splice into the bus, read until the connection closes. It blocks for the
// lifetime of the connection and always leaves the presence table consistent
// on return.
//
// Exactly one auth message is accepted, within the configured deadline.
// Mismatched tokens, timeouts and any other pre-auth traffic all end the
// same way: a notifications error followed by the connection closing. No
// retry is offered.
func (r *Room) Serve(ws *websocket.Conn) error {
	ws.SetReadDeadline(time.Now().Add(r.cfg.AuthTimeout))

	var first inbound
	if err := ws.ReadJSON(&first); err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			revoke(ws, "Authentication timed out")
			return ErrAuthTimeout
		}
		revoke(ws, "Authentication error")
		return fmt.Errorf("%w: %w", ErrProtocolViolation, err)
	}

	if first.Type != "auth" {
		revoke(ws, "Authentication error")
		return fmt.Errorf("%w: expected auth, got %q", ErrProtocolViolation, first.Type)
	}

	var creds authPayload
	if err := json.Unmarshal(first.Payload, &creds); err != nil {
		revoke(ws, "Authentication error")
		return fmt.Errorf("%w: %w", ErrProtocolViolation, err)
	}

	if !r.verifier.Verify(creds.ID, creds.Name, creds.Token) {
		revoke(ws, "Authentication error")
		return ErrAuthFailed
	}

	ws.SetReadDeadline(time.Time{})

	sess := Session{
		ID:   uuid.NewString(),
		User: User{ID: creds.ID, Name: creds.Name},
	}
	c := newConn(sess, ws, r.cfg.SendBuffer)
	go c.writeLoop()

	r.attach(c)
	defer r.detach(c)

	r.logger.Info("session connected", "room_id", r.ID, "user_id", sess.User.ID, "sid", sess.ID)

	for {
		var msg inbound
		if err := ws.ReadJSON(&msg); err != nil {
			r.logger.Info("session disconnected", "room_id", r.ID, "user_id", sess.User.ID, "sid", sess.ID)
			return nil
		}
		r.handleInbound(sess, msg)
	}
}

func revoke(ws *websocket.Conn, reason string) {
	ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	ws.WriteJSON(Envelope{
		Module:  ModuleNotifications,
		Type:    "error",
		Payload: errorPayload{Message: reason},
	})
	ws.Close()
}
