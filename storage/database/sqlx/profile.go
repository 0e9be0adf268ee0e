package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core/profile"
)

const createProfileSQL = `
INSERT INTO profile (
	name, email, phone, majors, class_level, interests,
	personality_type, humor_type, conversation_type, planner_type, hp_house, match_preference,
	housing_status, roommate_gender_preference, cleanliness_level, housing_time_period, housing_number,
	meal_plan, guest_swipe, dining_locations, meal_times_json
) VALUES (
	:name, :email, :phone, :majors, :class_level, :interests,
	:personality_type, :humor_type, :conversation_type, :planner_type, :hp_house, :match_preference,
	:housing_status, :roommate_gender_preference, :cleanliness_level, :housing_time_period, :housing_number,
	:meal_plan, :guest_swipe, :dining_locations, :meal_times_json
)
RETURNING *`

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	rows, err := repo.db.NamedQueryContext(ctx, createProfileSQL, p)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return profile.Profile{}, errors.New("inserting profile: no row returned")
	}
	var out profile.Profile
	if err = rows.StructScan(&out); err != nil {
		return profile.Profile{}, errors.Wrap(err, "scanning inserted profile")
	}
	return out, nil
}

func (repo *profileRepository) QueryAllProfiles(ctx context.Context) ([]profile.Profile, error) {
	var out []profile.Profile
	err := repo.db.SelectContext(ctx, &out, `SELECT * FROM profile ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	return out, nil
}

func (repo *profileRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	var out profile.Profile
	err := repo.db.GetContext(ctx, &out, `SELECT * FROM profile WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "getting profile")
	}
	return out, nil
}
