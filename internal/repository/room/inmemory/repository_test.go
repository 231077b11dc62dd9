package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinLeaveCount(t *testing.T) {
	r := NewRepo()

	assert.Equal(t, 1, r.Join("c1", "v1", "alice"))
	assert.Equal(t, 2, r.Join("c2", "v1", "bob"))
	assert.Equal(t, 2, r.Count("v1"))

	videoId, count, ok := r.Leave("c1")
	assert.True(t, ok)
	assert.Equal(t, "v1", videoId)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, r.Count("v1"))
}

func TestJoinIdempotentAtSetLevel(t *testing.T) {
	r := NewRepo()

	assert.Equal(t, 1, r.Join("c1", "v1", "alice"))
	assert.Equal(t, 1, r.Join("c1", "v1", "alice"))
	assert.Equal(t, 1, r.Count("v1"))
}

func TestJoinMovesBetweenRooms(t *testing.T) {
	r := NewRepo()

	r.Join("c1", "v1", "alice")
	r.Join("c2", "v1", "bob")
	assert.Equal(t, 1, r.Join("c1", "v2", "alice"))

	assert.Equal(t, 1, r.Count("v1"))
	assert.Equal(t, 1, r.Count("v2"))

	session, ok := r.GetSession("c1")
	assert.True(t, ok)
	assert.Equal(t, "v2", session.VideoId)
}

func TestEmptyRoomIsRemoved(t *testing.T) {
	r := NewRepo()

	r.Join("c1", "v1", "alice")
	r.Join("c2", "v1", "bob")
	r.Leave("c1")
	assert.True(t, r.HasRoom("v1"))

	r.Leave("c2")
	assert.False(t, r.HasRoom("v1"), "room entry must be fully absent after last leave")
}

func TestLeaveWithoutSession(t *testing.T) {
	r := NewRepo()

	_, _, ok := r.Leave("ghost")
	assert.False(t, ok)
}

func TestLeaveIsNotDoubleCounted(t *testing.T) {
	r := NewRepo()

	r.Join("c1", "v1", "alice")
	r.Join("c2", "v1", "bob")

	_, count, ok := r.Leave("c1")
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	// second leave must be a no-op, the session is already gone
	_, _, ok = r.Leave("c1")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count("v1"))
}

func TestMembersSnapshot(t *testing.T) {
	r := NewRepo()

	r.Join("c1", "v1", "alice")
	r.Join("c2", "v1", "bob")
	r.Join("c3", "v2", "carol")

	assert.ElementsMatch(t, []string{"c1", "c2"}, r.Members("v1"))
	assert.ElementsMatch(t, []string{"c3"}, r.Members("v2"))
	assert.Empty(t, r.Members("v3"))
}
