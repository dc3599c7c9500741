package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/mapper"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

var phonePattern = regexp.MustCompile(`^[+\d\s()\-]{5,20}$`)

// ContactService handles business logic for the advisor/partner directory
type ContactService struct {
	contactRepo *repository.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo *repository.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// Create adds a contact to the directory. Email addresses are unique
// case-insensitively and stored lower-cased.
func (s *ContactService) Create(ctx context.Context, req *domain.CreateContactRequest, createdByID *uuid.UUID) (*domain.ContactDTO, error) {
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.contactRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	contact := &domain.Contact{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Phone:          req.Phone,
		OfficeLocation: req.OfficeLocation,
		BusinessName:   req.BusinessName,
		Responsibility: req.Responsibility,
		CreatedByID:    createdByID,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("contact created",
		zap.String("contactID", contact.ID.String()),
		zap.String("email", contact.Email))

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// GetByID retrieves a contact
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// List returns the directory page by page, sorted by name
func (s *ContactService) List(ctx context.Context, page, pageSize int, sortBy repository.ContactSortOption) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	contacts, total, err := s.contactRepo.List(ctx, page, pageSize, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i, contact := range contacts {
		dtos[i] = mapper.ToContactDTO(&contact)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Search finds contacts matching all supplied partial criteria. An empty
// result is reported as not found, matching the directory UI contract.
func (s *ContactService) Search(ctx context.Context, params *domain.ContactSearchParams) ([]domain.ContactDTO, error) {
	if params.Name == "" && params.Email == "" && params.Phone == "" && params.BusinessName == "" {
		return nil, fmt.Errorf("%w: at least one search parameter is required", ErrInvalidInput)
	}

	contacts, err := s.contactRepo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i, contact := range contacts {
		dtos[i] = mapper.ToContactDTO(&contact)
	}
	return dtos, nil
}

// Update applies a partial update, re-running the same validation as Create
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if req.Phone != nil && *req.Phone != "" && !phonePattern.MatchString(*req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.EqualFold(email, contact.Email) {
			existing, err := s.contactRepo.GetByEmail(ctx, email)
			if err == nil && existing.ID != id {
				return nil, ErrDuplicateEmail
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
		}
		contact.Email = email
	}
	if req.Name != nil {
		contact.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.OfficeLocation != nil {
		contact.OfficeLocation = *req.OfficeLocation
	}
	if req.BusinessName != nil {
		contact.BusinessName = *req.BusinessName
	}
	if req.Responsibility != nil {
		contact.Responsibility = *req.Responsibility
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// Delete removes a contact from the directory
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contactRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get contact: %w", err)
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.logger.Info("contact deleted", zap.String("contactID", id.String()))
	return nil
}
