package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(userID, name, sid string) Session {
	return Session{ID: sid, User: User{ID: userID, Name: name}}
}

func TestPresenceAddCountsSessions(t *testing.T) {
	var table presenceTable

	assert.Equal(t, 1, table.add(session("u1", "Steve", "s1")))
	assert.Equal(t, 2, table.add(session("u1", "Steve", "s2")))
	assert.Equal(t, 3, table.add(session("u1", "Steve", "s3")))
	assert.Equal(t, 1, table.add(session("u2", "Dave", "s4")))

	users := table.list()
	require.Len(t, users, 2)
	assert.Equal(t, []string{"s1", "s2", "s3"}, users[0].SessionIDs)
	assert.Equal(t, "Steve", users[0].Name)
}

func TestPresenceRemoveCountsSessions(t *testing.T) {
	var table presenceTable
	table.add(session("u1", "Steve", "s1"))
	table.add(session("u1", "Steve", "s2"))

	count, err := table.remove(session("u1", "Steve", "s1"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, table.list(), 1)

	count, err = table.remove(session("u1", "Steve", "s2"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, table.list(), "entry must be deleted when its session set empties")
}

func TestPresenceRemoveUnknownUser(t *testing.T) {
	var table presenceTable

	_, err := table.remove(session("ghost", "Ghost", "s1"))
	assert.True(t, errors.Is(err, ErrPresenceNotFound))
}

func TestPresenceListIsSnapshot(t *testing.T) {
	var table presenceTable
	table.add(session("u1", "Steve", "s1"))

	users := table.list()
	users[0].SessionIDs[0] = "mutated"
	users[0].Name = "mutated"

	fresh := table.list()
	assert.Equal(t, "s1", fresh[0].SessionIDs[0])
	assert.Equal(t, "Steve", fresh[0].Name)
}
