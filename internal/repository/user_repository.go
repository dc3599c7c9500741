package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail finds a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

// MarkVerified flips the verification flag
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": true, "updated_at": time.Now()}).Error
}

// SetPassword stores a new password hash and stamps password_changed_at so
// previously issued tokens stop validating.
func (r *UserRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":       passwordHash,
			"password_changed_at": changedAt,
			"updated_at":          time.Now(),
		}).Error
}

// UserSortOption defines sort options for user listings
type UserSortOption string

const (
	UserSortByNameAsc  UserSortOption = "name_asc"
	UserSortByNameDesc UserSortOption = "name_desc"
)

// ListAdmins returns admin accounts, optionally filtered by partial name
func (r *UserRepository) ListAdmins(ctx context.Context, nameFilter string, sortBy UserSortOption) ([]domain.User, error) {
	var users []domain.User

	query := r.db.WithContext(ctx).Where("role = ?", domain.UserRoleAdmin)
	if nameFilter != "" {
		query = query.Where("name ILIKE ?", "%"+nameFilter+"%")
	}

	order := "name ASC"
	if sortBy == UserSortByNameDesc {
		order = "name DESC"
	}

	err := query.Order(order).Find(&users).Error
	return users, err
}

// ListNotificationRecipients returns admins who opted in to email
// notifications about new inquiries.
func (r *UserRepository) ListNotificationRecipients(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND email_notifications = ?", domain.UserRoleAdmin, true).
		Find(&users).Error
	return users, err
}
