package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/adapters/in/auth"
)

const principalContextKey = "principal"

// Role claim values accepted by the API. They match the actor roles the
// order transition table knows about.
const (
	RoleCustomer    = "customer"
	RoleMerchant    = "merchant"
	RoleRider       = "rider"
	RoleCoordinator = "coordinator"
)

var knownRoles = map[string]struct{}{
	RoleCustomer:    {},
	RoleMerchant:    {},
	RoleRider:       {},
	RoleCoordinator: {},
}

// AuthMiddleware returns an echo middleware that verifies the bearer token
// and stores the caller's principal on the request context.
func AuthMiddleware(verifier *auth.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if _, ok := knownRoles[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "unknown role")
			}

			c.Set(principalContextKey, principal)
			return next(c)
		}
	}
}

// RequireRole returns a middleware that only lets the listed roles through.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[currentPrincipal(c).Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// currentPrincipal retrieves the authenticated caller set by AuthMiddleware.
func currentPrincipal(c echo.Context) auth.Principal {
	principal, _ := c.Get(principalContextKey).(auth.Principal)
	return principal
}
