package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealmatch/mealmatch/core/feedback"
)

type feedbackRepository struct {
	db *DB
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	fb.ID = uuid.New()
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	repo.db.fb = append([]feedback.Feedback{fb}, repo.db.fb...)
	return fb, nil
}

func (repo *feedbackRepository) QueryAllFeedback(_ context.Context) ([]feedback.Feedback, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]feedback.Feedback{}, repo.db.fb...), nil
}
