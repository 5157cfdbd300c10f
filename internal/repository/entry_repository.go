package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pulseboard/internal/model"
)

// EntryRepository defines data entry persistence operations. Mutations
// are scoped by the ownership predicate: both the entry id and the
// owner id must match.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.DataEntry) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.DataEntry, error)
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*model.DataEntry, error)
	Save(ctx context.Context, entry *model.DataEntry) error
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository builds a GORM-backed repository.
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *model.DataEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByOwner returns all entries owned by userID in insertion order.
func (r *entryRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.DataEntry, error) {
	var entries []model.DataEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindOwned finds an entry matched by (id, owner).
func (r *entryRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*model.DataEntry, error) {
	var entry model.DataEntry
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) Save(ctx context.Context, entry *model.DataEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// DeleteOwned removes the entry matched by (id, owner) and reports how
// many rows matched.
func (r *entryRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.DataEntry{})
	return res.RowsAffected, res.Error
}
