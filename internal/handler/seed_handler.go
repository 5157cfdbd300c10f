package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pulseboard/internal/errors"
	"pulseboard/internal/repository"
	"pulseboard/internal/seed"
)

// SeedHandler exposes demo-data seeding. Routed only in demo mode.
type SeedHandler struct {
	users   repository.UserRepository
	entries repository.EntryRepository
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(users repository.UserRepository, entries repository.EntryRepository) *SeedHandler {
	return &SeedHandler{users: users, entries: entries}
}

// SeedResponse reports what the seed run did.
type SeedResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
}

// SeedDemo godoc
// @Summary Seed the demo user and its canned dashboard entries
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/demo [post]
func (h *SeedHandler) SeedDemo(c echo.Context) error {
	created, err := seed.Demo(c.Request().Context(), h.users, h.entries)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to seed demo data",
			Code:  "SEED_FAILED",
		})
	}

	return c.JSON(http.StatusOK, SeedResponse{
		Message: "demo data seeded",
		Created: created,
	})
}
