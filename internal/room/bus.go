package room

// roomSocket is the write side of an attached connection. *websocket.Conn
// satisfies it; tests attach recording fakes.
type roomSocket interface {
	WriteJSON(v any) error
	Close() error
}

// conn couples a session with its outbound queue. The queue is bounded:
// broadcast never blocks on a connection, a full queue gets the connection
// dropped instead.
type conn struct {
	sess Session
	sock roomSocket
	send chan Envelope
}

func newConn(sess Session, sock roomSocket, buffer int) *conn {
	return &conn{
		sess: sess,
		sock: sock,
		send: make(chan Envelope, buffer),
	}
}

// writeLoop drains the outbound queue onto the socket until the queue is
// closed by detach. Write failures close the socket, which unblocks the
// reader and runs the normal leave path.
func (c *conn) writeLoop() {
	for env := range c.send {
		if err := c.sock.WriteJSON(env); err != nil {
			c.sock.Close()
		}
	}
	c.sock.Close()
}

func (c *conn) trySend(env Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// broadcastLocked fans env out to every attached connection, the originator
// included. A connection too slow to keep its queue drained is closed; its
// read loop then runs the presence-leave path. The room never stalls on one
// consumer.
func (r *Room) broadcastLocked(env Envelope) {
	for c := range r.conns {
		if !c.trySend(env) {
			r.logger.Warn("dropping slow consumer",
				"room_id", r.ID,
				"user_id", c.sess.User.ID,
				"sid", c.sess.ID,
			)
			c.sock.Close()
		}
	}
}
