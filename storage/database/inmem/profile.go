package inmemdb

import (
	"github.com/trezcool/koperasi/core/profile"
)

type profileRepository struct {
	db *table[profile.Record]
}

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) GetByUserID(userID string) (profile.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.rows[userID]; ok {
		return *r, nil
	}
	return profile.Record{}, profile.ErrNotFound
}

func (repo *profileRepository) Save(r profile.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[r.UserID] = &r
	return nil
}
