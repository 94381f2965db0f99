package room

import "encoding/json"

// Bus modules. Every message flowing through a room is namespaced by one of
// these.
const (
	ModulePlaylist      = "playlist"
	ModulePlayer        = "player"
	ModulePresences     = "presences"
	ModuleNotifications = "notifications"
)

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Envelope is the unit broadcast to every attached connection. User is
// stamped server-side after the handshake; a client-supplied value never
// survives. Item is attached to player skip messages so consumers can show
// what was skipped.
type Envelope struct {
	Module  string `json:"module"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	User    *User  `json:"user,omitempty"`
	Item    *Item  `json:"item,omitempty"`
}

// inbound is the wire shape read off a connection. The payload stays raw
// until the dispatch table knows what to decode it into.
type inbound struct {
	Module  string          `json:"module"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type sessionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SID  string `json:"sid"`
}

type usersPayload struct {
	Users []Presence `json:"users"`
}

type userPayload struct {
	User sessionInfo `json:"user"`
}

type errorPayload struct {
	Message string `json:"message"`
}
