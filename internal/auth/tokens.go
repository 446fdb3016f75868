package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// TokenRepository persists email verification codes.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, email, token string) (*models.VerificationToken, error) {
	row := &models.VerificationToken{
		Email:  email,
		Token:  token,
		Status: enums.VerificationTokenUnused,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// LatestUnused returns the newest unused token issued to email.
func (r *TokenRepository) LatestUnused(ctx context.Context, email string) (*models.VerificationToken, error) {
	var row models.VerificationToken
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, enums.VerificationTokenUnused).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.VerificationToken{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": enums.VerificationTokenUsed, "updated_at": time.Now().UTC()}).Error
}

// ExpireIssuedBefore flips every unused token created before cutoff to
// expired and reports how many rows changed.
func (r *TokenRepository) ExpireIssuedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.VerificationToken{}).
		Where("status = ? AND created_at < ?", enums.VerificationTokenUnused, cutoff).
		Updates(map[string]any{"status": enums.VerificationTokenExpired, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
