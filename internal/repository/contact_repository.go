package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetByEmail finds a contact by email address, case-insensitively
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// ContactSortOption defines sort options for contacts
type ContactSortOption string

const (
	ContactSortByNameAsc  ContactSortOption = "name_asc"
	ContactSortByNameDesc ContactSortOption = "name_desc"
)

// List returns contacts with pagination, sorted by name
func (r *ContactRepository) List(ctx context.Context, page, pageSize int, sortBy ContactSortOption) ([]domain.Contact, int64, error) {
	var contacts []domain.Contact
	var total int64

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).Model(&domain.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "name ASC"
	if sortBy == ContactSortByNameDesc {
		order = "name DESC"
	}

	err := r.db.WithContext(ctx).
		Order(order).
		Offset(offset).
		Limit(pageSize).
		Find(&contacts).Error

	return contacts, total, err
}

// ListAll returns the whole directory, sorted by name
func (r *ContactRepository) ListAll(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).Order("name ASC").Find(&contacts).Error
	return contacts, err
}

// Search returns contacts matching every supplied partial criterion
func (r *ContactRepository) Search(ctx context.Context, params *domain.ContactSearchParams) ([]domain.Contact, error) {
	var contacts []domain.Contact

	query := r.db.WithContext(ctx).Model(&domain.Contact{})
	if params.Name != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(params.Name)+"%")
	}
	if params.Email != "" {
		query = query.Where("email ILIKE ?", "%"+escapeLike(params.Email)+"%")
	}
	if params.Phone != "" {
		query = query.Where("phone ILIKE ?", "%"+escapeLike(params.Phone)+"%")
	}
	if params.BusinessName != "" {
		query = query.Where("business_name ILIKE ?", "%"+escapeLike(params.BusinessName)+"%")
	}

	err := query.Order("name ASC").Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).Count(&count).Error
	return count, err
}
