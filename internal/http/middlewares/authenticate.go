package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "complaint-desk.com/complaint-desk/internal/errors"
)

const requesterKey = "requester_id"

// Authenticate verifies an HS256 bearer token and stores its subject as
// the requester id. Tokens without a subject fall back to an "id" claim.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return apperrors.ErrUnauthorized
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil {
				return apperrors.ErrUnauthorized
			}

			subject, _ := claims.GetSubject()
			if subject == "" {
				subject, _ = claims["id"].(string)
			}
			if subject == "" {
				return apperrors.ErrUnauthorized
			}

			c.Set(requesterKey, subject)
			return next(c)
		}
	}
}

// Anonymous lets every request through without an identity.
func Anonymous() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return next
	}
}

// RequesterID returns the authenticated requester, or "" when the request
// carries no identity.
func RequesterID(c echo.Context) string {
	id, _ := c.Get(requesterKey).(string)
	return id
}
