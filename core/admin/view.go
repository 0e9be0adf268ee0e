package admin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

// View holds the admin dashboard's working copy of the store: the main
// buckets from the last full sync and the "new" buckets fed by live insert
// events, plus the session-local annotations (matching groups, sort toggle).
//
// All state is confined to this one view; it is rebuilt empty on process
// start and lost on restart, matching the session-scoped original.
type View struct {
	profileSvc  *profile.Service
	feedbackSvc *feedback.Service
	logger      core.Logger

	mu          sync.RWMutex
	profiles    []profile.Profile
	newProfiles []profile.Profile
	fbEntries   []feedback.Feedback
	newFb       []feedback.Feedback
	lastSync    time.Time

	groups  *Groups
	sortKey string
	sortAsc bool
}

func NewView(profileSvc *profile.Service, feedbackSvc *feedback.Service, logger core.Logger) *View {
	return &View{
		profileSvc:  profileSvc,
		feedbackSvc: feedbackSvc,
		logger:      logger,
		groups:      NewGroups(),
	}
}

// Refresh pulls the entire profile table and the entire feedback table and
// stamps the sync time. The two queries are independent: there is no
// transactional guarantee spanning them. Overlapping refreshes are not
// cancelled; the one that completes last wins.
func (v *View) Refresh(ctx context.Context) error {
	profiles, err := v.profileSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching profiles")
	}
	fb, err := v.feedbackSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching feedback")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.profiles = profiles
	v.fbEntries = fb
	v.newProfiles = nil
	v.newFb = nil
	v.lastSync = time.Now().UTC()
	return nil
}

// Apply is the single mutator for the "new" buckets. Events are prepended in
// arrival order with no de-duplication by id: a replayed notification shows
// up twice, exactly as the original behaved.
func (v *View) Apply(ev Inserted) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch ev.Table {
	case TableProfile:
		if ev.Profile != nil {
			v.newProfiles = append([]profile.Profile{*ev.Profile}, v.newProfiles...)
		}
	case TableFeedback:
		if ev.Feedback != nil {
			v.newFb = append([]feedback.Feedback{*ev.Feedback}, v.newFb...)
		}
	default:
		v.logger.Warn("ignoring insert event for unknown table: " + string(ev.Table))
	}
}

// MarkReviewed merges the new buckets to the front of the main buckets and
// clears them.
func (v *View) MarkReviewed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.newProfiles) > 0 {
		v.profiles = append(append([]profile.Profile{}, v.newProfiles...), v.profiles...)
		v.newProfiles = nil
	}
	if len(v.newFb) > 0 {
		v.fbEntries = append(append([]feedback.Feedback{}, v.newFb...), v.fbEntries...)
		v.newFb = nil
	}
}

func (v *View) LastSync() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastSync
}

func (v *View) NewCounts() (profiles, fb int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.newProfiles), len(v.newFb)
}

// DisplayedProfiles runs the projection over the current buckets.
func (v *View) DisplayedProfiles(q Query) []profile.Profile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Project(v.profiles, v.newProfiles, q)
}

// NextSort applies the sort-toggle rule: repeating the current key flips the
// direction, a different key resets to ascending. It returns the effective
// direction for this selection.
func (v *View) NextSort(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if key == v.sortKey {
		v.sortAsc = !v.sortAsc
	} else {
		v.sortKey = key
		v.sortAsc = true
	}
	return v.sortAsc
}

// AllProfiles returns a copy of the main + new profile buckets (new first).
func (v *View) AllProfiles() []profile.Profile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]profile.Profile, 0, len(v.newProfiles)+len(v.profiles))
	out = append(out, v.newProfiles...)
	out = append(out, v.profiles...)
	return out
}

// Feedback returns a copy of the main + new feedback buckets (new first).
func (v *View) Feedback() []feedback.Feedback {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]feedback.Feedback, 0, len(v.newFb)+len(v.fbEntries))
	out = append(out, v.newFb...)
	out = append(out, v.fbEntries...)
	return out
}

// DeleteLocal removes a profile from the view's buckets only; the store row
// is untouched.
func (v *View) DeleteLocal(id uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	var deleted bool
	v.profiles, deleted = removeProfile(v.profiles, id)
	if !deleted {
		v.newProfiles, deleted = removeProfile(v.newProfiles, id)
	}
	return deleted
}

// ScheduleTree builds the day/meal/slot aggregation over every profile
// currently in the view, annotated with matching groups.
func (v *View) ScheduleTree() ScheduleTree {
	v.mu.RLock()
	defer v.mu.RUnlock()
	all := make([]profile.Profile, 0, len(v.newProfiles)+len(v.profiles))
	all = append(all, v.newProfiles...)
	all = append(all, v.profiles...)
	return BuildScheduleTree(all, v.groups)
}

// UpdateGroup coerces and stores a matching-group assignment.
func (v *View) UpdateGroup(id uuid.UUID, rawValue string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.groups.Update(id, rawValue)
}

func (v *View) ResetGroups() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.groups.Reset()
}

// GroupState is the legend payload: every assignment, the highest group in
// use and the palette.
type GroupState struct {
	Assignments map[uuid.UUID]int `json:"assignments"`
	MaxGroup    int               `json:"max_group"`
	Palette     []string          `json:"palette"`
}

func (v *View) GroupsSnapshot() GroupState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return GroupState{
		Assignments: v.groups.Assignments(),
		MaxGroup:    v.groups.Max(),
		Palette:     append([]string{}, groupPalette...),
	}
}

func removeProfile(set []profile.Profile, id uuid.UUID) ([]profile.Profile, bool) {
	for i, p := range set {
		if p.ID == id {
			return append(set[:i:i], set[i+1:]...), true
		}
	}
	return set, false
}
