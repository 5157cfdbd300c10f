package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "pulseboard/internal/errors"
	"pulseboard/internal/model"
	"pulseboard/internal/service"
)

// MockEntryService is a mock implementation of EntryService.
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) List(ctx context.Context, userID uuid.UUID) ([]model.DataEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DataEntry), args.Error(1)
}

func (m *MockEntryService) Create(ctx context.Context, userID uuid.UUID, in service.CreateEntryInput) (*model.DataEntry, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataEntry), args.Error(1)
}

func (m *MockEntryService) Update(ctx context.Context, userID, entryID uuid.UUID, in service.UpdateEntryInput) (*model.DataEntry, error) {
	args := m.Called(ctx, userID, entryID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataEntry), args.Error(1)
}

func (m *MockEntryService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}

// newRequestContext builds an echo context carrying the verified JWT
// the way the middleware leaves it.
func newRequestContext(t *testing.T, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "test@example.com",
		"role":    model.RoleUser,
		"demo":    false,
	}))
	return c, rec
}

func TestEntryHandler_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("valid body returns 201 with generated id", func(t *testing.T) {
		mockSvc := new(MockEntryService)
		entryID := uuid.New()
		mockSvc.On("Create", mock.Anything, userID, mock.AnythingOfType("service.CreateEntryInput")).Return(&model.DataEntry{
			ID:       entryID,
			UserID:   userID,
			Date:     "2024-01-01",
			Sales:    100,
			Profit:   20,
			Category: "X",
		}, nil)

		c, rec := newRequestContext(t, http.MethodPost, "/api/user-data",
			`{"date":"2024-01-01","sales":100,"profit":20,"category":"X"}`, userID)

		err := NewEntryHandler(mockSvc).Create(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var got model.DataEntry
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, entryID, got.ID)
		assert.Equal(t, "X", got.Category)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing field returns 400 with the canonical message", func(t *testing.T) {
		mockSvc := new(MockEntryService)
		mockSvc.On("Create", mock.Anything, userID, mock.AnythingOfType("service.CreateEntryInput")).Return(nil, apperrors.ErrMissingFields)

		c, _ := newRequestContext(t, http.MethodPost, "/api/user-data",
			`{"date":"2024-01-01","sales":100,"profit":20}`, userID)

		err := NewEntryHandler(mockSvc).Create(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)

		resp, ok := he.Message.(apperrors.ErrorResponse)
		assert.True(t, ok)
		assert.Equal(t, "Missing required fields", resp.Error)
	})

	t.Run("no token returns 401", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/user-data", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := NewEntryHandler(new(MockEntryService)).Create(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestEntryHandler_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("unknown entry returns 404", func(t *testing.T) {
		entryID := uuid.New()
		mockSvc := new(MockEntryService)
		mockSvc.On("Update", mock.Anything, userID, entryID, mock.AnythingOfType("service.UpdateEntryInput")).Return(nil, apperrors.ErrEntryNotFound)

		c, _ := newRequestContext(t, http.MethodPut, "/api/user-data?id="+entryID.String(),
			`{"sales":50}`, userID)

		err := NewEntryHandler(mockSvc).Update(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("unparseable id returns 404", func(t *testing.T) {
		c, _ := newRequestContext(t, http.MethodPut, "/api/user-data?id=not-a-uuid",
			`{"sales":50}`, userID)

		err := NewEntryHandler(new(MockEntryService)).Update(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("successful update returns the new fields", func(t *testing.T) {
		entryID := uuid.New()
		mockSvc := new(MockEntryService)
		mockSvc.On("Update", mock.Anything, userID, entryID, mock.AnythingOfType("service.UpdateEntryInput")).Return(&model.DataEntry{
			ID:       entryID,
			UserID:   userID,
			Date:     "2024-02-02",
			Sales:    50,
			Profit:   5,
			Category: "Y",
		}, nil)

		c, rec := newRequestContext(t, http.MethodPut, "/api/user-data?id="+entryID.String(),
			`{"date":"2024-02-02","sales":50,"profit":5,"category":"Y"}`, userID)

		err := NewEntryHandler(mockSvc).Update(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.DataEntry
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Y", got.Category)
		assert.Equal(t, float64(50), got.Sales)
	})
}

func TestEntryHandler_Delete(t *testing.T) {
	userID := uuid.New()
	entryID := uuid.New()

	t.Run("success flag on delete", func(t *testing.T) {
		mockSvc := new(MockEntryService)
		mockSvc.On("Delete", mock.Anything, userID, entryID).Return(nil)

		c, rec := newRequestContext(t, http.MethodDelete, "/api/user-data?id="+entryID.String(), "", userID)

		err := NewEntryHandler(mockSvc).Delete(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})

	t.Run("second delete returns 404", func(t *testing.T) {
		mockSvc := new(MockEntryService)
		mockSvc.On("Delete", mock.Anything, userID, entryID).Return(apperrors.ErrEntryNotFound)

		c, _ := newRequestContext(t, http.MethodDelete, "/api/user-data?id="+entryID.String(), "", userID)

		err := NewEntryHandler(mockSvc).Delete(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestEntryHandler_List(t *testing.T) {
	userID := uuid.New()
	mockSvc := new(MockEntryService)
	mockSvc.On("List", mock.Anything, userID).Return([]model.DataEntry{
		{ID: uuid.New(), UserID: userID, Date: "2024-01-01", Sales: 100, Profit: 20, Category: "X"},
	}, nil)

	c, rec := newRequestContext(t, http.MethodGet, "/api/user-data", "", userID)

	err := NewEntryHandler(mockSvc).List(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.DataEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "X", got[0].Category)
}
