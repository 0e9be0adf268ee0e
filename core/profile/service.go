package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/mealmatch/mealmatch/core"
)

var (
	// errors
	ErrNotFound = errors.New("profile not found")
)

type (
	// Repository owns row identity and the created_at audit stamp; both are
	// assigned at insert time.
	Repository interface {
		CreateProfile(ctx context.Context, p Profile) (Profile, error)
		QueryAllProfiles(ctx context.Context) ([]Profile, error)
		GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Create inserts one composite sign-up record. There is no amendment path;
// resubmission creates a new row.
func (svc *Service) Create(ctx context.Context, np NewProfile) (Profile, error) {
	p := Profile{
		Name:       np.FirstName + " " + np.LastName,
		Email:      np.Email,
		Phone:      np.Phone,
		Majors:     pq.StringArray(np.Majors),
		ClassLevel: np.ClassLevel,

		Interests:        pq.StringArray(np.Interests),
		PersonalityType:  optString(np.PersonalityType),
		HumorType:        optString(np.HumorType),
		ConversationType: optString(np.ConversationType),
		PlannerType:      optString(np.PlannerType),
		HPHouse:          optString(np.HPHouse),
		MatchPreference:  optString(np.MatchPreference),

		HousingStatus:            optString(np.HousingStatus),
		RoommateGenderPreference: optString(np.RoommateGenderPreference),
		CleanlinessLevel:         optString(np.CleanlinessLevel),
		HousingTimePeriod:        optString(np.HousingTimePeriod),
		HousingNumber:            optInt(np.HousingNumber),

		MealPlan:        np.MealPlan,
		GuestSwipe:      np.MealPlan && np.GuestSwipe,
		DiningLocations: pq.StringArray(np.DiningLocations),
	}

	if len(np.MealTimes) > 0 {
		raw, err := json.Marshal(np.MealTimes)
		if err != nil {
			return Profile{}, err
		}
		p.MealTimesJSON = raw
	}

	p, err := svc.repo.CreateProfile(ctx, p)
	if err != nil {
		return Profile{}, err
	}

	svc.sendConfirmation(p)
	return p, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Profile, error) {
	return svc.repo.QueryAllProfiles(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

// sendConfirmation fires off the sign-up confirmation email.
// Delivery failure never fails the submission.
func (svc *Service) sendConfirmation(p Profile) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: p.Name, Address: p.Email}},
		Subject:      "You're signed up!",
		TemplateName: "profile_confirmation",
		TemplateData: struct{ Name string }{p.Name},
	})
}

func optString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func optInt(i int) null.Int {
	if i == 0 {
		return null.Int{}
	}
	return null.IntFrom(i)
}
