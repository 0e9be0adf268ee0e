package echoapi

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core"
)

// The dashboard has one shared password and no per-admin accounts: a
// successful login yields a short-lived session token with admin claims.
// This gates the UI, it is not a real access-control boundary.

const claimsContextKey = "adminClaims"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin,omitempty"`
}

func newAdminClaims(conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.JWTExpirationDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		IsAdmin: true,
	}
}

// authenticateAdmin checks the shared dashboard password. An empty configured
// password keeps the dashboard locked for everyone.
func authenticateAdmin(conf *core.Config, password string) error {
	if conf.Admin.Password == "" {
		return errAdminDegraded
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(conf.Admin.Password)) != 1 {
		return errAuthenticationFailed
	}
	return nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// adminMiddleware requires a valid admin session token.
func adminMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return errUnauthorized
			}

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(auth, "Bearer "), claims,
				func(t *jwt.Token) (interface{}, error) {
					if t.Method != jwt.SigningMethodHS256 {
						return nil, errors.New("unexpected signing method")
					}
					return []byte(conf.SecretKey), nil
				},
			)
			if err != nil || !token.Valid || !claims.IsAdmin {
				return errUnauthorized
			}

			ctx.Set(claimsContextKey, claims)
			return next(ctx)
		}
	}
}

// dbConfiguredMiddleware degrades every data operation to an explanatory 503
// while store credentials are absent.
func dbConfiguredMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !conf.Database.Configured() {
				return errAdminDegraded
			}
			return next(ctx)
		}
	}
}
