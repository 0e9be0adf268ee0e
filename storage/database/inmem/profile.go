package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealmatch/mealmatch/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CreateProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = uuid.New()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	repo.db.profiles = append([]profile.Profile{p}, repo.db.profiles...)
	repo.db.byID = reindex(repo.db.profiles)
	return p, nil
}

func (repo *profileRepository) QueryAllProfiles(_ context.Context) ([]profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]profile.Profile{}, repo.db.profiles...), nil
}

func (repo *profileRepository) GetProfileByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if i, ok := repo.db.byID[id]; ok {
		return repo.db.profiles[i], nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func reindex(profiles []profile.Profile) map[uuid.UUID]int {
	idx := make(map[uuid.UUID]int, len(profiles))
	for i, p := range profiles {
		idx[p.ID] = i
	}
	return idx
}
