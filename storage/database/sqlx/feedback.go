package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core/feedback"
)

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *sqlx.DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	rows, err := repo.db.NamedQueryContext(ctx, `INSERT INTO feedback (text) VALUES (:text) RETURNING *`, fb)
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return feedback.Feedback{}, errors.New("inserting feedback: no row returned")
	}
	var out feedback.Feedback
	if err = rows.StructScan(&out); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "scanning inserted feedback")
	}
	return out, nil
}

func (repo *feedbackRepository) QueryAllFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	err := repo.db.SelectContext(ctx, &out, `SELECT * FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}
	return out, nil
}
