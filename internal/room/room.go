package room

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svincent/tandem.io/internal/auth"
	"github.com/svincent/tandem.io/internal/catalog"
)

const DefaultRoomName = "Default Room Name"

type Config struct {
	// TickInterval is the player clock resolution; elapsed advances by this
	// much per tick.
	TickInterval time.Duration
	// AuthTimeout bounds how long a fresh connection may take to present its
	// auth message.
	AuthTimeout time.Duration
	// SendBuffer is the per-connection outbound queue size.
	SendBuffer int
	// Random picks an index in [0, n); injectable so shuffle selection is
	// deterministic under test.
	Random func(n int) int
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = 3 * time.Second
	}
	if c.AuthTimeout <= 0 {
		c.AuthTimeout = 15 * time.Second
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 32
	}
	if c.Random == nil {
		c.Random = rand.Intn
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return c
}

// Room groups connected clients around one shared playlist, player and
// presence table. It exclusively owns all three; every mutation serializes
// under its lock, requested either by the bus dispatch path or by the player
// tick.
type Room struct {
	ID   string
	Name string

	cfg      Config
	verifier *auth.Verifier
	logger   *slog.Logger

	mu       sync.Mutex
	users    presenceTable
	playlist playlist
	player   playerState
	conns    map[*conn]struct{}
}

func newRoom(name string, verifier *auth.Verifier, cfg Config) *Room {
	if name == "" {
		name = DefaultRoomName
	}

	return &Room{
		ID:       uuid.NewString(),
		Name:     name,
		cfg:      cfg,
		verifier: verifier,
		logger:   cfg.Logger,
		player:   playerState{order: OrderFIFO},
		conns:    make(map[*conn]struct{}),
	}
}

// attach splices an authenticated connection into the room bus: current
// presences are pushed to the new connection first, then the session joins
// the table (broadcasting presences:join only for the user's first session),
// then the playlist and player snapshots follow. Only the new connection
// receives the snapshots.
func (r *Room) attach(c *conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c] = struct{}{}

	c.trySend(Envelope{Module: ModulePresences, Type: "list", Payload: usersPayload{Users: r.users.list()}})

	if r.users.add(c.sess) == 1 {
		r.broadcastLocked(Envelope{Module: ModulePresences, Type: "join", Payload: userPayload{
			User: sessionInfo{ID: c.sess.User.ID, Name: c.sess.User.Name, SID: c.sess.ID},
		}})
	}

	c.trySend(Envelope{Module: ModulePlaylist, Type: "list", Payload: r.playlist.list()})
	c.trySend(Envelope{Module: ModulePlayer, Type: "state", Payload: r.playerSnapshotLocked()})
}

// detach runs the presence-leave path for a connection, whatever the reason
// it closed. It cancels no room timers.
func (r *Room) detach(c *conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	delete(r.conns, c)
	close(c.send)

	count, err := r.users.remove(c.sess)
	if err != nil {
		// Indicates a handshake bug upstream; never worth crashing the room.
		r.logger.Error("presence invariant violated", "room_id", r.ID, "error", err)
		return
	}
	if count == 0 {
		r.broadcastLocked(Envelope{Module: ModulePresences, Type: "leave", Payload: userPayload{
			User: sessionInfo{ID: c.sess.User.ID, Name: c.sess.User.Name, SID: c.sess.ID},
		}})
	}
}

// handleInbound applies one stamped client envelope: dispatch by (module,
// type) mutates room state, then the envelope fans out to every attached
// connection. Unrecognized module/type pairs have no dispatch effect but
// still fan out. Malformed payloads for recognized pairs are dropped whole,
// so room state is never partially mutated.
func (r *Room) handleInbound(sess Session, msg inbound) {
	r.mu.Lock()
	defer r.mu.Unlock()

	env := Envelope{Module: msg.Module, Type: msg.Type, Payload: msg.Payload, User: &sess.User}

	switch {
	case msg.Module == ModulePlaylist && msg.Type == "add":
		var track catalog.Track
		if err := json.Unmarshal(msg.Payload, &track); err != nil {
			r.logger.Warn("malformed playlist add payload", "room_id", r.ID, "error", err)
			return
		}
		item := r.playlist.add(track, sess.User)
		env.Payload = item
		r.broadcastLocked(env)
		if r.player.item == nil {
			r.nextItemLocked()
		}

	case msg.Module == ModulePlaylist && msg.Type == "remove":
		var id string
		if err := json.Unmarshal(msg.Payload, &id); err != nil {
			r.logger.Warn("malformed playlist remove payload", "room_id", r.ID, "error", err)
			return
		}
		if _, ok := r.playlist.remove(id); !ok {
			return
		}
		r.broadcastLocked(env)

	case msg.Module == ModulePlayer && msg.Type == "skip":
		env.Item = r.player.item
		r.broadcastLocked(env)
		r.nextItemLocked()

	case msg.Module == ModulePlayer && msg.Type == "order":
		var order Order
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &order); err != nil {
				r.logger.Warn("malformed player order payload", "room_id", r.ID, "error", err)
				return
			}
		}
		if err := r.setOrderLocked(order); err != nil {
			r.logger.Warn("rejected order change", "room_id", r.ID, "order", order, "error", err)
			return
		}
		r.broadcastLocked(env)

	default:
		r.broadcastLocked(env)
	}
}

func (r *Room) playerSnapshotLocked() PlayerSnapshot {
	snap := PlayerSnapshot{
		Elapsed: r.player.elapsed,
		Order:   r.player.order,
	}
	if r.player.item != nil {
		item := *r.player.item
		snap.Item = &item
	}

	return snap
}

// Presences returns a snapshot of the room's presence table.
func (r *Room) Presences() []Presence {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.users.list()
}

// Playlist returns a snapshot of the room's queue.
func (r *Room) Playlist() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playlist.list()
}

// Player returns a snapshot of the room's playback state.
func (r *Room) Player() PlayerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playerSnapshotLocked()
}

// Summary is the immutable room snapshot handed to the REST surface. No
// caller ever receives a mutable reference to room internals.
type Summary struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Users    []Presence     `json:"users"`
	Playlist []Item         `json:"playlist"`
	Player   PlayerSnapshot `json:"player"`
}

func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Summary{
		ID:       r.ID,
		Name:     r.Name,
		Users:    r.users.list(),
		Playlist: r.playlist.list(),
		Player:   r.playerSnapshotLocked(),
	}
}
