package groups

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// Repository handles group persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to group operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows listGroups. Empty fields match everything.
type ListFilter struct {
	GroupTypes []enums.GroupType
	CaptainID  *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, group *models.Group) error {
	if group == nil {
		return fmt.Errorf("group is required")
	}
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDs returns the groups with the given ids in no particular order.
// Missing ids are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var groups []models.Group
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// List returns groups matching filter, sorted by name.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Group, error) {
	query := r.db.WithContext(ctx).Model(&models.Group{})
	if len(filter.GroupTypes) > 0 {
		query = query.Where("group_type IN ?", filter.GroupTypes)
	}
	if filter.CaptainID != nil {
		query = query.Where("captain_id = ?", *filter.CaptainID)
	}
	var groups []models.Group
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// IDsByCaptain returns the ids of every group captained by userID.
func (r *Repository) IDsByCaptain(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("captain_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) CountByCaptain(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Group{}).Where("captain_id = ?", userID).Count(&count).Error
	return count, err
}

// NameTaken reports whether another group already uses name.
func (r *Repository) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Group{}).Where("LOWER(name) = LOWER(?)", name)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Update(ctx context.Context, group *models.Group) error {
	if group == nil {
		return fmt.Errorf("group is required")
	}
	return r.db.WithContext(ctx).Save(group).Error
}
