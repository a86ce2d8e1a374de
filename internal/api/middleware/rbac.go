package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/policy"
)

// Permit rejects callers whose role could not perform action on kind even
// for a record they own. It is a route-level gate; the services still make
// the record-level decision.
func Permit(kind policy.Kind, action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			res := policy.Resource{Kind: kind, ID: c.Param("id")}
			if kind.Owned() {
				res.AssignedTo = caller.UserID
			}
			d := policy.Authorize(policy.Subject{ID: caller.UserID, Role: caller.Role}, action, res)
			if !d.Allowed() {
				return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
			}
			return next(c)
		}
	}
}
