package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

// Logger is a no-op core.Logger for tests.
type Logger struct{}

var _ core.Logger = (*Logger)(nil)

func (Logger) Debug(msg string, args ...interface{}) {}
func (Logger) Info(msg string, args ...interface{})  {}
func (Logger) Warn(msg string, args ...interface{})  {}
func (Logger) Error(msg string, args ...interface{}) {}
func (Logger) Fatal(msg string, args ...interface{}) {}

// NewConfig returns a self-contained TEST config; nothing is read from the
// environment.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:         "MealMatch",
		Env:             "TEST",
		TestMode:        true,
		Build:           "test",
		SecretKey:       "secret-test-key",
		FrontendBaseURL: "http://localhost:5173",
		WorkDir:         core.Getwd(),
		EduDomain:       "brandeis.edu",
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               "8000",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Admin:    core.AdminConfig{Password: "s3cret"},
		Database: core.DatabaseConfig{Engine: "postgres", Name: "test", User: "test"},
		Relay:    core.RelayConfig{BaseURL: "http://localhost:8001"},
		Sendgrid: core.SendgridConfig{DefaultFromName: "MealMatch", DefaultFromEmail: "noreply@localhost"},
	}
}

// NewValidator returns a validator/translator pair with every custom rule
// registered.
func NewValidator(conf *core.Config) (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator, conf.EduDomain)
	return validate, translator
}

// CreateProfile inserts a minimal valid profile with the given overrides.
func CreateProfile(
	t *testing.T,
	repo profile.Repository,
	name, email string,
	mealTimes profile.MealTimes,
	createdAt ...time.Time,
) profile.Profile {
	t.Helper()

	p := profile.Profile{
		Name:       name,
		Email:      email,
		Majors:     pq.StringArray{"Computer Science"},
		ClassLevel: profile.ClassSenior,
	}
	if len(createdAt) > 0 {
		p.CreatedAt = createdAt[0].UTC()
	}
	if len(mealTimes) > 0 {
		raw, err := json.Marshal(mealTimes)
		if err != nil {
			t.Fatalf("CreateProfile() failed: %v", err)
		}
		p.MealTimesJSON = raw
	}

	p, err := repo.CreateProfile(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return p
}

// CreateFeedback inserts one feedback entry.
func CreateFeedback(t *testing.T, repo feedback.Repository, text string) feedback.Feedback {
	t.Helper()

	fb, err := repo.CreateFeedback(context.Background(), feedback.Feedback{Text: text})
	if err != nil {
		t.Fatalf("CreateFeedback() failed: %v", err)
	}
	return fb
}
