package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrganizationID returns the organization the caller is scoped to. System
// admins may act on behalf of an organization via the X-Organization-ID
// header; everyone else is bound to the organization in their token.
func OrganizationID(c echo.Context) (uuid.UUID, error) {
	if orgID := c.Get("organization_id"); orgID != nil {
		id, err := uuid.Parse(orgID.(string))
		if err != nil {
			return uuid.Nil, echo.NewHTTPError(http.StatusInternalServerError, "Invalid organization context")
		}
		return id, nil
	}

	if role, ok := c.Get("user_role").(string); ok && role == "system_admin" {
		header := c.Request().Header.Get("X-Organization-ID")
		if header == "" {
			return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "X-Organization-ID header required for system admin")
		}
		id, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid X-Organization-ID header")
		}
		return id, nil
	}

	return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "Organization context required")
}

// UserID returns the authenticated user's id.
func UserID(c echo.Context) (uuid.UUID, error) {
	raw, ok := c.Get("user_id").(string)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "User context required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusInternalServerError, "Invalid user context")
	}
	return id, nil
}
