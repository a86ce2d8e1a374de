package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/api/middleware"
	"github.com/salesdesk/crm-api/internal/core/domain"
)

// caller extracts the identity injected by the Auth middleware. A missing
// identity means the route was mounted without Auth and is rejected as
// unauthenticated.
func caller(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
