package admin

import (
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

type Table string

const (
	TableProfile  Table = "profile"
	TableFeedback Table = "feedback"
)

// Inserted is the typed event emitted by the store-change collaborator when a
// row lands between syncs. View.Apply is the only place that mutates the
// "new" buckets in response.
type Inserted struct {
	Table    Table
	Profile  *profile.Profile
	Feedback *feedback.Feedback
}
