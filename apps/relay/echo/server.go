package relayapi

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mealmatch/mealmatch/core"
	emailsvc "github.com/mealmatch/mealmatch/services/email"
)

type (
	// Sender delivers one rendered message synchronously so the relay can
	// report the provider's outcome to its caller.
	Sender interface {
		Send(msg core.EmailMessage) error
	}

	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Sender         Sender
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		deps ServerDeps
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps: deps,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if !(s.deps.Conf.Debug || s.deps.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Debug = s.deps.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/healthz", s.healthz)
	s.app.POST("/api/emails/send", s.send)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.deps.Conf.Relay.Address()))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// send accepts one message and delivers it synchronously. The caller learns
// the provider's verdict; there is no queue and no retry on either side.
func (s *server) send(ctx echo.Context) error {
	var msg emailsvc.RelayMessage
	if err := ctx.Bind(&msg); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := s.deps.Validate.Struct(msg); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{
			"error":   "invalid request body",
			"details": err.Error(),
		})
	}

	err := s.deps.Sender.Send(core.EmailMessage{
		To:          []mail.Address{{Address: msg.To}},
		Subject:     msg.Subject,
		TextContent: msg.Text,
	})
	if err != nil {
		s.deps.Logger.Error(fmt.Sprintf("sending email to %s: %v", msg.To, err), err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Email sent successfully"})
}
