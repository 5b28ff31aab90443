package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"galleria/internal/auth"
	apperrors "galleria/internal/errors"
)

// respondError maps a domain error onto the HTTP taxonomy and writes the
// standardized error body.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// currentUser returns the authenticated principal placed in the context by
// the JWT middleware. Handlers behind the secured group thread it into every
// service call that needs the caller's identity.
func currentUser(c echo.Context) (userID uint, email string, err error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	userID, err = claims.UserID()
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return userID, claims.Email, nil
}
