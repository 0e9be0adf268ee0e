package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

// DB is an in-memory stand-in for the Postgres store, used in tests and in
// credential-less local runs.
type DB struct {
	mutex sync.RWMutex

	// newest first, matching the SQL repos' created_at DESC ordering
	profiles []profile.Profile
	fb       []feedback.Feedback

	byID map[uuid.UUID]int // index into profiles
}

func NewDB() *DB {
	return &DB{byID: make(map[uuid.UUID]int)}
}

func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.profiles = nil
	db.fb = nil
	db.byID = make(map[uuid.UUID]int)
}
