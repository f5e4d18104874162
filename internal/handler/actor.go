package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"claimhub/internal/auth"
	"claimhub/internal/model"
	"claimhub/internal/service"
)

// actorFromContext builds the acting user from the validated JWT the
// middleware stored on the request context.
func actorFromContext(c echo.Context) (service.Actor, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid user id in token")
	}
	return service.Actor{ID: userID, Role: model.Role(claims.Role)}, nil
}
