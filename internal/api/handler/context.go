package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/soundhub/user-service/internal/api/middleware"
	"github.com/soundhub/user-service/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. An empty
// subject means the middleware did not run, which is reported as 401.
func ctxClaims(c echo.Context) (accountID string, role domain.Role, err error) {
	accountID, _ = c.Get(middleware.CtxAccountID).(string)
	if accountID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	r, _ := c.Get(middleware.CtxRole).(string)
	return accountID, domain.Role(r), nil
}

// authorizeSelf allows the call when the caller owns target or is an admin.
// Object id hex is compared without regard to case.
func authorizeSelf(c echo.Context, target string) error {
	accountID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if role == domain.RoleAdmin || strings.EqualFold(accountID, target) {
		return nil
	}
	return domain.ErrForbidden
}
