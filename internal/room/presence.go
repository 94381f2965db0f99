package room

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Session is one live connection for one authenticated user. A user may hold
// several sessions at once (multiple tabs or devices).
type Session struct {
	ID   string
	User User
}

type Presence struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SessionIDs []string `json:"sids"`
}

// presenceTable refcounts sessions per user id. An entry exists exactly while
// its session set is non-empty. Not safe for concurrent use; the owning
// room's lock covers it.
type presenceTable struct {
	users []Presence
}

// add returns the user's session count after insertion. A return of 1 means
// the user just joined the room.
func (t *presenceTable) add(sess Session) int {
	i := slices.IndexFunc(t.users, func(p Presence) bool { return p.ID == sess.User.ID })
	if i < 0 {
		t.users = append(t.users, Presence{
			ID:         sess.User.ID,
			Name:       sess.User.Name,
			SessionIDs: []string{sess.ID},
		})
		return 1
	}

	t.users[i].SessionIDs = append(t.users[i].SessionIDs, sess.ID)

	return len(t.users[i].SessionIDs)
}

// remove returns the user's session count after removal. A return of 0 means
// the user left the room and their entry is gone.
func (t *presenceTable) remove(sess Session) (int, error) {
	i := slices.IndexFunc(t.users, func(p Presence) bool { return p.ID == sess.User.ID })
	if i < 0 {
		return 0, fmt.Errorf("%w: no user %s", ErrPresenceNotFound, sess.User.ID)
	}

	if j := slices.Index(t.users[i].SessionIDs, sess.ID); j >= 0 {
		t.users[i].SessionIDs = slices.Delete(t.users[i].SessionIDs, j, j+1)
	}

	count := len(t.users[i].SessionIDs)
	if count == 0 {
		t.users = slices.Delete(t.users, i, i+1)
	}

	return count, nil
}

// list returns a snapshot safe to hand outside the room lock.
func (t *presenceTable) list() []Presence {
	out := make([]Presence, len(t.users))
	for i, p := range t.users {
		p.SessionIDs = slices.Clone(p.SessionIDs)
		out[i] = p
	}

	return out
}
