package profile

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/mealmatch/mealmatch/core"
)

// Class levels
const (
	ClassFreshman  = "freshman"
	ClassSophomore = "sophomore"
	ClassJunior    = "junior"
	ClassSenior    = "senior"
	ClassGraduate  = "graduate"
)

var ClassLevels = []string{ClassFreshman, ClassSophomore, ClassJunior, ClassSenior, ClassGraduate}

// Days and meals are a lowercase fixed vocabulary; time-slot labels are
// free-form display strings (e.g. "6:00-6:30 PM").
var (
	Days  = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	Meals = []string{"breakfast", "lunch", "dinner"}
)

// MealTimes maps day -> meal -> ordered time-slot labels the student is available for.
type MealTimes map[string]map[string][]string

// ParseMealTimes decodes a persisted meal-times document.
func ParseMealTimes(raw []byte) (MealTimes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var mt MealTimes
	if err := json.Unmarshal(raw, &mt); err != nil {
		return nil, err
	}
	return mt, nil
}

// Profile is one student's sign-up record. Once inserted it is immutable:
// the admin view never writes profile fields back and only deletes locally.
type Profile struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Email string    `db:"email" json:"email"`
	Phone string    `db:"phone" json:"phone,omitempty"`

	Majors     pq.StringArray `db:"majors" json:"majors"`
	ClassLevel string         `db:"class_level" json:"class_level"`

	Interests        pq.StringArray `db:"interests" json:"interests,omitempty"`
	PersonalityType  null.String    `db:"personality_type" json:"personality_type,omitempty"`
	HumorType        null.String    `db:"humor_type" json:"humor_type,omitempty"`
	ConversationType null.String    `db:"conversation_type" json:"conversation_type,omitempty"`
	PlannerType      null.String    `db:"planner_type" json:"planner_type,omitempty"`
	HPHouse          null.String    `db:"hp_house" json:"hp_house,omitempty"`
	MatchPreference  null.String    `db:"match_preference" json:"match_preference,omitempty"`

	HousingStatus            null.String `db:"housing_status" json:"housing_status,omitempty"`
	RoommateGenderPreference null.String `db:"roommate_gender_preference" json:"roommate_gender_preference,omitempty"`
	CleanlinessLevel         null.String `db:"cleanliness_level" json:"cleanliness_level,omitempty"`
	HousingTimePeriod        null.String `db:"housing_time_period" json:"housing_time_period,omitempty"`
	HousingNumber            null.Int    `db:"housing_number" json:"housing_number,omitempty"`

	MealPlan        bool           `db:"meal_plan" json:"meal_plan"`
	GuestSwipe      bool           `db:"guest_swipe" json:"guest_swipe"`
	DiningLocations pq.StringArray `db:"dining_locations" json:"dining_locations,omitempty"`

	// MealTimesJSON is kept raw: a malformed document must only cost that
	// profile its contribution to the schedule aggregation, never a scan error.
	MealTimesJSON json.RawMessage `db:"meal_times_json" json:"meal_times_json,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC, store-assigned
}

// MealTimes parses the raw meal-times document; callers must tolerate an error
// by skipping the profile.
func (p Profile) MealTimes() (MealTimes, error) {
	return ParseMealTimes(p.MealTimesJSON)
}

// SearchFields returns every free-text field the admin search matches against.
func (p Profile) SearchFields() []string {
	flds := make([]string, 0, 8+len(p.Majors)+len(p.Interests))
	flds = append(flds, p.Name, p.Email, p.Phone)
	flds = append(flds, p.Majors...)
	flds = append(flds, p.Interests...)
	flds = append(flds,
		p.HousingStatus.String,
		p.RoommateGenderPreference.String,
		p.CleanlinessLevel.String,
		p.HousingTimePeriod.String,
	)
	return flds
}

// Step1 covers the identity step of the sign-up form.
type Step1 struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email,eduemail"`
	Phone     string `json:"phone"`
}

func (s *Step1) Validate(validate *validator.Validate) error {
	s.FirstName = core.CleanString(s.FirstName)
	s.LastName = core.CleanString(s.LastName)
	s.Email = core.CleanString(s.Email, true /* lower */)
	s.Phone = core.CleanString(s.Phone)
	return validate.Struct(s)
}

// Step2 covers the academic/interests step.
type Step2 struct {
	ClassLevel string   `json:"class_level" validate:"required,classlevel"`
	Majors     []string `json:"majors" validate:"required,min=1,dive,required"`
	Interests  []string `json:"interests" validate:"omitempty,dive,required"`
}

func (s *Step2) Validate(validate *validator.Validate) error {
	s.ClassLevel = core.CleanString(s.ClassLevel, true)
	for i, m := range s.Majors {
		s.Majors[i] = core.CleanString(m)
	}
	return validate.Struct(s)
}

// NewProfile is the composite record submitted on the final step.
type NewProfile struct {
	Step1
	Step2

	PersonalityType  string `json:"personality_type" validate:"omitempty,oneof=introvert extrovert ambivert"`
	HumorType        string `json:"humor_type" validate:"omitempty,oneof=dry goofy sarcastic witty dark"`
	ConversationType string `json:"conversation_type" validate:"omitempty,oneof=deep casual debate storytelling"`
	PlannerType      string `json:"planner_type" validate:"omitempty,oneof=planner spontaneous"`
	HPHouse          string `json:"hp_house" validate:"omitempty,oneof=gryffindor hufflepuff ravenclaw slytherin"`
	MatchPreference  string `json:"match_preference" validate:"omitempty,oneof=one_on_one small_group either"`

	HousingStatus            string `json:"housing_status" validate:"omitempty"`
	RoommateGenderPreference string `json:"roommate_gender_preference" validate:"omitempty"`
	CleanlinessLevel         string `json:"cleanliness_level" validate:"omitempty"`
	HousingTimePeriod        string `json:"housing_time_period" validate:"omitempty"`
	HousingNumber            int    `json:"housing_number" validate:"omitempty,min=0"`

	MealPlan        bool      `json:"meal_plan"`
	GuestSwipe      bool      `json:"guest_swipe"` // only meaningful with MealPlan
	DiningLocations []string  `json:"dining_locations" validate:"omitempty,dive,required"`
	MealTimes       MealTimes `json:"meal_times" validate:"omitempty,mealtimes"`
}

func (np *NewProfile) Validate(validate *validator.Validate) error {
	if err := np.Step1.Validate(validate); err != nil {
		return err
	}
	if err := np.Step2.Validate(validate); err != nil {
		return err
	}
	if !np.MealPlan {
		np.GuestSwipe = false
	}
	return validate.Struct(np)
}
