package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/omsomani/account-system/internal/core/ports"
)

// accountIDKey is the context key the Auth middleware stores the verified
// account ID under.
const accountIDKey = "account_id"

// Auth validates the bearer token and injects the account ID into context.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			accountID, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(accountIDKey, accountID)

			return next(c)
		}
	}
}

// AccountID extracts the authenticated account ID injected by Auth. A zero
// value means the route was wired without the middleware; reject with 401.
func AccountID(c echo.Context) (uint64, error) {
	id, _ := c.Get(accountIDKey).(uint64)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
