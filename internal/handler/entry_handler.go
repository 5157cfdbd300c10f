package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pulseboard/internal/errors"
	"pulseboard/internal/service"
)

// EntryHandler handles the /user-data CRUD endpoints.
type EntryHandler struct {
	entryService service.EntryService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(entryService service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// EntryRequest is the create/update body. Pointer fields distinguish
// absent fields from zero values.
type EntryRequest struct {
	Date     *string  `json:"date"`
	Sales    *float64 `json:"sales"`
	Profit   *float64 `json:"profit"`
	Category *string  `json:"category"`
}

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// List godoc
// @Summary List the caller's data entries
// @Tags user-data
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.DataEntry
// @Failure 401 {object} errors.ErrorResponse
// @Router /user-data [get]
func (h *EntryHandler) List(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	entries, err := h.entryService.List(c.Request().Context(), ident.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, entries)
}

// Create godoc
// @Summary Create a data entry
// @Tags user-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EntryRequest true "Entry fields"
// @Success 201 {object} model.DataEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user-data [post]
func (h *EntryHandler) Create(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	entry, err := h.entryService.Create(c.Request().Context(), ident.ID, service.CreateEntryInput{
		Date:     req.Date,
		Sales:    req.Sales,
		Profit:   req.Profit,
		Category: req.Category,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, entry)
}

// Update godoc
// @Summary Update a data entry
// @Tags user-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query string true "Entry ID"
// @Param request body EntryRequest true "Fields to replace"
// @Success 200 {object} model.DataEntry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user-data [put]
func (h *EntryHandler) Update(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	entryID, err := entryIDParam(c)
	if err != nil {
		return err
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	entry, err := h.entryService.Update(c.Request().Context(), ident.ID, entryID, service.UpdateEntryInput{
		Date:     req.Date,
		Sales:    req.Sales,
		Profit:   req.Profit,
		Category: req.Category,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a data entry
// @Tags user-data
// @Produce json
// @Security BearerAuth
// @Param id query string true "Entry ID"
// @Success 200 {object} DeleteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user-data [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	entryID, err := entryIDParam(c)
	if err != nil {
		return err
	}

	if err := h.entryService.Delete(c.Request().Context(), ident.ID, entryID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, DeleteResponse{Success: true})
}

// entryIDParam reads the ?id= query parameter. An unparseable id can
// never match an entry, so it maps to not-found.
func entryIDParam(c echo.Context) (uuid.UUID, error) {
	entryID, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrEntryNotFound)
		return uuid.Nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return entryID, nil
}
