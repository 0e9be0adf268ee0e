package feedback

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mealmatch/mealmatch/core"
)

// Feedback is one free-text entry. Immutable once inserted.
type Feedback struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC, store-assigned
}

// NewFeedback contains information needed to create a new Feedback entry.
type NewFeedback struct {
	Text string `json:"text" validate:"required"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Text = core.CleanString(nf.Text)
	return validate.Struct(nf)
}
