package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetByUserEmail(ctx context.Context, email string) (*domain.MicrosoftToken, error) {
	var token domain.MicrosoftToken
	err := r.db.WithContext(ctx).
		Where("LOWER(user_email) = LOWER(?)", email).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Upsert inserts or replaces the token pair for a user
func (r *TokenRepository) Upsert(ctx context.Context, token *domain.MicrosoftToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "name", "microsoft_id", "updated_at",
		}),
	}).Create(token).Error
}

// DeleteByUserEmail removes the stored token pair, ending the Outlook session
func (r *TokenRepository) DeleteByUserEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("LOWER(user_email) = LOWER(?)", email).
		Delete(&domain.MicrosoftToken{}).Error
}
