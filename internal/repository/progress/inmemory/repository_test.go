package inmemory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetAbsent(t *testing.T) {
	r := NewRepo()

	_, ok := r.Get("alice", "v1")
	assert.False(t, ok)
}

func TestLastWriteWins(t *testing.T) {
	r := NewRepo()

	for i := 1; i <= 10; i++ {
		r.Set("alice", "v1", Record{
			CurrentTime: float64(i * 10),
			Duration:    100,
			Percentage:  float64(i * 10),
			LastUpdated: time.Now(),
		})
	}

	record, ok := r.Get("alice", "v1")
	assert.True(t, ok)
	assert.Equal(t, float64(100), record.CurrentTime)
	assert.Equal(t, float64(100), record.Percentage)
}

func TestKeysAreIndependent(t *testing.T) {
	r := NewRepo()

	r.Set("alice", "v1", Record{CurrentTime: 1})
	r.Set("alice", "v2", Record{CurrentTime: 2})
	r.Set("bob", "v1", Record{CurrentTime: 3})

	for i, tc := range []struct {
		user, video string
		want        float64
	}{
		{"alice", "v1", 1},
		{"alice", "v2", 2},
		{"bob", "v1", 3},
	} {
		record, ok := r.Get(tc.user, tc.video)
		assert.True(t, ok, fmt.Sprintf("case %d", i))
		assert.Equal(t, tc.want, record.CurrentTime)
	}
}
