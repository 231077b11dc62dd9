package inmemory

import (
	"sync"
	"time"
)

type Record struct {
	CurrentTime float64   `json:"current_time"`
	Duration    float64   `json:"duration"`
	Percentage  float64   `json:"percentage"`
	LastUpdated time.Time `json:"last_updated"`
}

type key struct {
	userLabel string
	videoId   string
}

// Repo keeps the last reported playback position per (user, video).
// Last write wins. Entries live for the process lifetime, there is no
// eviction.
type Repo struct {
	mu      sync.RWMutex
	records map[key]Record
}

func NewRepo() *Repo {
	return &Repo{records: make(map[key]Record)}
}

func (r *Repo) Set(userLabel, videoId string, record Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key{userLabel, videoId}] = record
}

func (r *Repo) Get(userLabel, videoId string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[key{userLabel, videoId}]
	return record, ok
}
