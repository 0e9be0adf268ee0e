package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
)

// signupApi serves the public sign-up form endpoints. Inserts only; nothing
// here can read other students' data.
type signupApi struct {
	profileSvc  *profile.Service
	feedbackSvc *feedback.Service
	validate    *validator.Validate
}

func registerSignupAPI(g *echo.Group, deps ServerDeps) {
	api := signupApi{
		profileSvc:  deps.ProfileSvc,
		feedbackSvc: deps.FeedbackSvc,
		validate:    deps.Validate,
	}

	g.POST("/profiles", api.create)
	g.POST("/profiles/validate-step", api.validateStep)
	g.POST("/feedback", api.createFeedback)
}

// create inserts the composite record submitted on the final step.
// There is no amendment path: resubmitting creates a new row.
func (api *signupApi) create(ctx echo.Context) error {
	var data profile.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.profileSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, p)
}

type validateStepRequest struct {
	Step int             `json:"step"`
	Data json.RawMessage `json:"data"`
}

// validateStep checks a single form step so the client can gate transitions
// before the final submit. Pure; no record is written.
func (api *signupApi) validateStep(ctx echo.Context) error {
	var req validateStepRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to validateStepRequest")
	}

	badData := core.NewValidationError(nil, core.FieldError{Field: "data", Error: "invalid step payload"})

	var err error
	switch req.Step {
	case 1:
		var s profile.Step1
		if json.Unmarshal(req.Data, &s) != nil {
			return badData
		}
		err = s.Validate(api.validate)
	case 2:
		var s profile.Step2
		if json.Unmarshal(req.Data, &s) != nil {
			return badData
		}
		err = s.Validate(api.validate)
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "step", Error: "must be 1 or 2"})
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"valid": true})
}

func (api *signupApi) createFeedback(ctx echo.Context) error {
	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fb, err := api.feedbackSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating feedback")
	}
	return ctx.JSON(http.StatusCreated, fb)
}
