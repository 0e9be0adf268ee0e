package admin

import (
	"sort"
	"strings"

	"github.com/mealmatch/mealmatch/core/profile"
)

type ViewMode string

const (
	ModeAll      ViewMode = "all"
	ModeNew      ViewMode = "new"
	ModeFiltered ViewMode = "filtered"
)

// Query captures every input the displayed-profiles projection depends on.
// Project is a pure function of (profile set, Query): identical inputs yield
// an identical ordered sequence.
type Query struct {
	Mode    ViewMode
	Filters map[string]string // field -> exact-match value; ANDed
	Search  string            // case-insensitive substring, ANY field passes
	SortKey string            // "" = keep fetch order
	SortAsc bool
}

// Project derives the displayed profile sequence without mutating its inputs.
func Project(all, fresh []profile.Profile, q Query) []profile.Profile {
	var base []profile.Profile
	switch q.Mode {
	case ModeNew:
		base = fresh
	case ModeFiltered:
		base = all
	default:
		base = all
	}

	out := make([]profile.Profile, 0, len(base))
	for _, p := range base {
		if q.Mode == ModeFiltered && !matchesFilters(p, q.Filters) {
			continue
		}
		if !matchesSearch(p, q.Search) {
			continue
		}
		out = append(out, p)
	}

	if q.SortKey != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareByField(out[i], out[j], q.SortKey)
			if q.SortAsc {
				return c < 0
			}
			return c > 0
		})
	}
	return out
}

func matchesFilters(p profile.Profile, filters map[string]string) bool {
	for field, want := range filters {
		got, ok := fieldValue(p, field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func matchesSearch(p profile.Profile, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, fld := range p.SearchFields() {
		if strings.Contains(strings.ToLower(fld), query) {
			return true
		}
	}
	return false
}

// fieldValue resolves an exact-match filter field to its scalar string form.
func fieldValue(p profile.Profile, field string) (string, bool) {
	switch field {
	case "name":
		return p.Name, true
	case "email":
		return p.Email, true
	case "phone":
		return p.Phone, true
	case "class_level":
		return p.ClassLevel, true
	case "personality_type":
		return p.PersonalityType.String, true
	case "humor_type":
		return p.HumorType.String, true
	case "conversation_type":
		return p.ConversationType.String, true
	case "planner_type":
		return p.PlannerType.String, true
	case "hp_house":
		return p.HPHouse.String, true
	case "match_preference":
		return p.MatchPreference.String, true
	case "housing_status":
		return p.HousingStatus.String, true
	case "roommate_gender_preference":
		return p.RoommateGenderPreference.String, true
	case "cleanliness_level":
		return p.CleanlinessLevel.String, true
	case "housing_time_period":
		return p.HousingTimePeriod.String, true
	case "meal_plan":
		return boolString(p.MealPlan), true
	case "guest_swipe":
		return boolString(p.GuestSwipe), true
	}
	return "", false
}

// compareByField orders by the sort key: lexicographic for string fields,
// length for set-valued fields, chronological for created_at.
func compareByField(a, b profile.Profile, field string) int {
	switch field {
	case "majors":
		return len(a.Majors) - len(b.Majors)
	case "interests":
		return len(a.Interests) - len(b.Interests)
	case "dining_locations":
		return len(a.DiningLocations) - len(b.DiningLocations)
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
	av, _ := fieldValue(a, field)
	bv, _ := fieldValue(b, field)
	return strings.Compare(av, bv)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
