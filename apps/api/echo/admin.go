package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/admin"
	"github.com/mealmatch/mealmatch/core/profile"
)

// filterParamPrefix namespaces exact-match filter query params, e.g.
// ?filter.class_level=senior&filter.hp_house=ravenclaw.
const filterParamPrefix = "filter."

type adminApi struct {
	conf     *core.Config
	logger   core.Logger
	view     *admin.View
	validate *validator.Validate
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{
		conf:     deps.Conf,
		logger:   deps.Logger,
		view:     deps.AdminView,
		validate: deps.Validate,
	}

	ag := g.Group("/admin", dbConfiguredMiddleware(deps.Conf))
	ag.POST("/login", api.login)

	authed := ag.Group("", adminMiddleware(deps.Conf))
	authed.POST("/refresh", api.refresh)
	authed.POST("/review", api.review)
	authed.GET("/status", api.status)
	authed.GET("/profiles", api.queryProfiles)
	authed.GET("/profiles/export", api.exportCSV)
	authed.DELETE("/profiles/:id", api.deleteProfile)
	authed.PUT("/profiles/:id/group", api.updateGroup)
	authed.GET("/groups", api.groups)
	authed.POST("/groups/reset", api.resetGroups)
	authed.GET("/meal-times", api.mealTimes)
	authed.GET("/feedback", api.feedback)
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// login checks the shared dashboard password and, on success, runs the
// initial full sync before handing out a session token. A failed sync does
// not block the login: the dashboard opens with an empty view and the client
// can refresh.
func (api *adminApi) login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := api.validate.Struct(req); err != nil {
		return err
	}
	if err := authenticateAdmin(api.conf, req.Password); err != nil {
		return err
	}

	if err := api.view.Refresh(ctx.Request().Context()); err != nil {
		api.logger.Error("initial dashboard sync failed", err)
	}

	token, err := GenerateToken(api.conf, newAdminClaims(api.conf))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"token":     token,
		"last_sync": api.view.LastSync(),
	})
}

// refresh re-pulls both tables in full and clears the new buckets.
func (api *adminApi) refresh(ctx echo.Context) error {
	if err := api.view.Refresh(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "refreshing admin view")
	}
	return api.status(ctx)
}

// review merges the new buckets into the main ones without touching the store.
func (api *adminApi) review(ctx echo.Context) error {
	api.view.MarkReviewed()
	return api.status(ctx)
}

func (api *adminApi) status(ctx echo.Context) error {
	newProfiles, newFb := api.view.NewCounts()
	return ctx.JSON(http.StatusOK, echo.Map{
		"last_sync":    api.view.LastSync(),
		"new_profiles": newProfiles,
		"new_feedback": newFb,
	})
}

// queryProfiles runs the display projection: mode, exact-match filters,
// substring search and a single sort key. When no explicit direction is
// given, repeating the same sort key toggles the direction.
func (api *adminApi) queryProfiles(ctx echo.Context) error {
	q := admin.Query{
		Mode:    admin.ViewMode(ctx.QueryParam("mode")),
		Search:  ctx.QueryParam("search"),
		SortKey: ctx.QueryParam("sort"),
	}
	if q.Mode == "" {
		q.Mode = admin.ModeAll
	}

	for param, values := range ctx.QueryParams() {
		if !strings.HasPrefix(param, filterParamPrefix) || len(values) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[strings.TrimPrefix(param, filterParamPrefix)] = values[0]
	}

	if q.SortKey != "" {
		switch ctx.QueryParam("dir") {
		case "asc":
			q.SortAsc = true
		case "desc":
			q.SortAsc = false
		default:
			q.SortAsc = api.view.NextSort(q.SortKey)
		}
	}

	profiles := api.view.DisplayedProfiles(q)
	return ctx.JSON(http.StatusOK, echo.Map{
		"count":    len(profiles),
		"profiles": profiles,
	})
}

// exportCSV streams every profile in the view as a CSV attachment. The
// header is the union of fields observed across all rows.
func (api *adminApi) exportCSV(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := profile.WriteCSV(&buf, api.view.AllProfiles()); err != nil {
		if errors.Cause(err) == profile.ErrNoProfiles {
			return core.NewValidationError(errors.New("no profiles to export"))
		}
		return errors.Wrap(err, "writing CSV export")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", profile.ExportFilename(time.Now())))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// deleteProfile removes a profile from the dashboard's working copy only;
// the store row survives and reappears on the next full sync.
func (api *adminApi) deleteProfile(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if !api.view.DeleteLocal(id) {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

type updateGroupRequest struct {
	// Group is accepted as a string or a number; anything that does not
	// parse as a positive integer clears the assignment.
	Group interface{} `json:"group"`
}

func (api *adminApi) updateGroup(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var req updateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to updateGroupRequest")
	}

	raw := ""
	if req.Group != nil {
		raw = fmt.Sprint(req.Group)
	}
	group := api.view.UpdateGroup(id, raw)
	return ctx.JSON(http.StatusOK, echo.Map{
		"id":    id,
		"group": group,
		"color": admin.GroupColor(group),
	})
}

func (api *adminApi) groups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.view.GroupsSnapshot())
}

func (api *adminApi) resetGroups(ctx echo.Context) error {
	api.view.ResetGroups()
	return ctx.JSON(http.StatusOK, api.view.GroupsSnapshot())
}

// mealTimes returns the day -> meal -> time-slot aggregation tree.
func (api *adminApi) mealTimes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.view.ScheduleTree())
}

func (api *adminApi) feedback(ctx echo.Context) error {
	fb := api.view.Feedback()
	return ctx.JSON(http.StatusOK, echo.Map{
		"count":    len(fb),
		"feedback": fb,
	})
}
