package handler

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pulseboard/internal/auth"
	"pulseboard/internal/errors"
)

// currentIdentity resolves the caller from the JWT the middleware put
// on the context. A request without a verified token is rejected here;
// there is no synthetic fallback identity.
func currentIdentity(c echo.Context) (auth.Identity, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return auth.Identity{}, unauthorized()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Identity{}, unauthorized()
	}

	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return auth.Identity{}, unauthorized()
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	demo, _ := claims["demo"].(bool)

	return auth.Identity{ID: id, Email: email, Role: role, Demo: demo}, nil
}

func unauthorized() error {
	he := errors.MapErrorToHTTP(errors.ErrUnauthorized)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
