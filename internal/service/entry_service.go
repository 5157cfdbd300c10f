package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "pulseboard/internal/errors"
	"pulseboard/internal/model"
	"pulseboard/internal/realtime"
	"pulseboard/internal/repository"
)

// EventPublisher fans mutation events out to dashboard subscribers.
// Satisfied by the in-process hub and by the broker publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

// CreateEntryInput carries the four required entry fields. Pointers
// distinguish absent from zero-valued fields.
type CreateEntryInput struct {
	Date     *string
	Sales    *float64
	Profit   *float64
	Category *string
}

// UpdateEntryInput carries the mutable fields; nil keeps the stored value.
type UpdateEntryInput struct {
	Date     *string
	Sales    *float64
	Profit   *float64
	Category *string
}

// EntryService exposes user-scoped CRUD over dashboard data entries.
type EntryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.DataEntry, error)
	Create(ctx context.Context, userID uuid.UUID, in CreateEntryInput) (*model.DataEntry, error)
	Update(ctx context.Context, userID, entryID uuid.UUID, in UpdateEntryInput) (*model.DataEntry, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
}

type entryService struct {
	entries repository.EntryRepository
	events  EventPublisher
	log     *zap.Logger
}

// NewEntryService builds an EntryService; every mutation publishes a
// widget event plus a dashboard-updated event for the owner's dashboard.
func NewEntryService(entries repository.EntryRepository, events EventPublisher, log *zap.Logger) EntryService {
	return &entryService{entries: entries, events: events, log: log}
}

func (s *entryService) List(ctx context.Context, userID uuid.UUID) ([]model.DataEntry, error) {
	return s.entries.ListByOwner(ctx, userID)
}

func (s *entryService) Create(ctx context.Context, userID uuid.UUID, in CreateEntryInput) (*model.DataEntry, error) {
	if in.Date == nil || in.Sales == nil || in.Profit == nil || in.Category == nil {
		return nil, apperrors.ErrMissingFields
	}
	if *in.Sales < 0 {
		return nil, apperrors.ErrInvalidSales
	}

	entry := &model.DataEntry{
		UserID:   userID,
		Date:     *in.Date,
		Sales:    *in.Sales,
		Profit:   *in.Profit,
		Category: *in.Category,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.WidgetAdded{DashboardID: userID.String(), Entry: *entry})
	s.publish(ctx, realtime.DashboardUpdated{DashboardID: userID.String()})
	return entry, nil
}

func (s *entryService) Update(ctx context.Context, userID, entryID uuid.UUID, in UpdateEntryInput) (*model.DataEntry, error) {
	entry, err := s.entries.FindOwned(ctx, entryID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, err
	}

	if in.Sales != nil && *in.Sales < 0 {
		return nil, apperrors.ErrInvalidSales
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.Sales != nil {
		entry.Sales = *in.Sales
	}
	if in.Profit != nil {
		entry.Profit = *in.Profit
	}
	if in.Category != nil {
		entry.Category = *in.Category
	}

	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.WidgetUpdated{DashboardID: userID.String(), Entry: *entry})
	s.publish(ctx, realtime.DashboardUpdated{DashboardID: userID.String()})
	return entry, nil
}

func (s *entryService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	rows, err := s.entries.DeleteOwned(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrEntryNotFound
	}

	s.publish(ctx, realtime.WidgetDeleted{DashboardID: userID.String(), EntryID: entryID.String()})
	s.publish(ctx, realtime.DashboardUpdated{DashboardID: userID.String()})
	return nil
}

// publish is best-effort; a broker hiccup must not fail the mutation.
func (s *entryService) publish(ctx context.Context, ev realtime.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event failed",
			zap.String("topic", ev.Topic()),
			zap.Error(err))
	}
}
