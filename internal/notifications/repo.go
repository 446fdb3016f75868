package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// Recipient is a group captain who receives notification email.
type Recipient struct {
	GroupID   uuid.UUID
	GroupName string
	Name      string
	Email     string
}

// Repository resolves captains for notification fan-out.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CaptainOf returns the captain of groupID, or nil when the group is gone.
func (r *Repository) CaptainOf(ctx context.Context, groupID uuid.UUID) (*Recipient, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).Limit(1).Find(&groups).Error; err != nil {
		return nil, err
	}
	recipients, err := r.resolve(ctx, groups)
	if err != nil || len(recipients) == 0 {
		return nil, err
	}
	return &recipients[0], nil
}

// SendingGroupCaptains returns the captain of every sending group.
func (r *Repository) SendingGroupCaptains(ctx context.Context) ([]Recipient, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Where("group_type = ?", enums.GroupTypeSendingGroup).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return r.resolve(ctx, groups)
}

func (r *Repository) resolve(ctx context.Context, groups []models.Group) ([]Recipient, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.CaptainID)
	}
	var users []models.UserAccount
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.UserAccount, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	recipients := make([]Recipient, 0, len(groups))
	for _, g := range groups {
		captain, ok := byID[g.CaptainID]
		if !ok {
			continue
		}
		recipients = append(recipients, Recipient{
			GroupID:   g.ID,
			GroupName: g.Name,
			Name:      captain.Name,
			Email:     captain.Email,
		})
	}
	return recipients, nil
}
