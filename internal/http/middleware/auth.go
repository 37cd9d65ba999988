package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"farmhub/internal/auth"
)

// JWTAuth validates the bearer token and stores the caller identity on the
// echo context for downstream handlers.
func JWTAuth(authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			if claims.Type != "access" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			c.Set("user_id", claims.UserID.String())
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)
			if claims.OrganizationID != nil {
				c.Set("organization_id", claims.OrganizationID.String())
			}

			return next(c)
		}
	}
}

// RequireSystemRole ensures the caller is a system admin with no
// organization context.
func RequireSystemRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			if userRole.(string) != "system_admin" {
				return echo.NewHTTPError(http.StatusForbidden, "System admin access required")
			}

			if c.Get("organization_id") != nil {
				return echo.NewHTTPError(http.StatusForbidden, "System admin cannot have organization context")
			}

			return next(c)
		}
	}
}

// RequireOrganizationRole ensures the caller belongs to an organization.
// System admins pass through without an organization.
func RequireOrganizationRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			roleStr := userRole.(string)
			if roleStr != "system_admin" && roleStr != "org_admin" && roleStr != "org_user" {
				return echo.NewHTTPError(http.StatusForbidden, "Organization access required")
			}

			if roleStr == "system_admin" {
				return next(c)
			}

			if c.Get("organization_id") == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Organization context required")
			}

			return next(c)
		}
	}
}

// RequireOrganizationAdmin restricts the route to organization admins.
func RequireOrganizationAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			if userRole.(string) != "org_admin" {
				return echo.NewHTTPError(http.StatusForbidden, "Organization admin access required")
			}

			if c.Get("organization_id") == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Organization context required")
			}

			return next(c)
		}
	}
}
