package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/mapper"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

// InquiryNotifier receives the inquiry after a successful create. Delivery
// is best-effort and fully decoupled from the request path; implementations
// must not block.
type InquiryNotifier interface {
	InquiryCreated(inquiry *domain.Inquiry)
}

// InquiryService handles business logic for business inquiries
type InquiryService struct {
	inquiryRepo *repository.InquiryRepository
	userRepo    *repository.UserRepository
	notifier    InquiryNotifier
	logger      *zap.Logger
}

// NewInquiryService creates a new InquiryService. The notifier may be nil
// when notifications are disabled.
func NewInquiryService(
	inquiryRepo *repository.InquiryRepository,
	userRepo *repository.UserRepository,
	notifier InquiryNotifier,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		inquiryRepo: inquiryRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create registers a new inquiry from the public submission form. The case
// number is generated here and the result always starts unread and
// unarchived. Admin notification is handed off asynchronously and can never
// fail the create.
func (s *InquiryService) Create(ctx context.Context, req *domain.CreateInquiryRequest, attachmentURL string) (*domain.InquiryDTO, error) {
	inquiry := &domain.Inquiry{
		CaseNumber:         NewCaseNumber(),
		CompanyName:        req.CompanyName,
		CompanyCity:        req.CompanyCity,
		CompanyWebsite:     req.CompanyWebsite,
		ContactName:        req.ContactName,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		ProductTitle:       req.ProductTitle,
		ProductDescription: req.ProductDescription,
		DevelopmentStage:   req.DevelopmentStage,
		ProductTypes:       req.ProductTypes,
		PartnerDescription: req.PartnerDescription,
		AdditionalNotes:    req.AdditionalNotes,
		AttachmentURL:      attachmentURL,
		Status:             domain.InquiryStatusUnread,
		Archived:           false,
		Tags:               []string{},
	}

	if req.DevelopmentStage != "" && !req.DevelopmentStage.IsValid() {
		return nil, fmt.Errorf("%w: unknown development stage %q", ErrInvalidInput, req.DevelopmentStage)
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	s.logger.Info("inquiry created",
		zap.String("inquiryID", inquiry.ID.String()),
		zap.String("caseNumber", inquiry.CaseNumber))

	if s.notifier != nil {
		s.notifier.InquiryCreated(inquiry)
	}

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// GetByID retrieves an inquiry with its comments and recommendations
func (s *InquiryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// List returns a paginated, filtered list of inquiries, newest first
func (s *InquiryService) List(ctx context.Context, page, pageSize int, filters *domain.InquiryFilters) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	if filters != nil {
		if filters.Status != nil && !filters.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		filters.Tag = domain.NormalizeTag(filters.Tag)
	}

	inquiries, total, err := s.inquiryRepo.ListWithFilters(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}

	dtos := make([]domain.InquiryDTO, len(inquiries))
	for i, inquiry := range inquiries {
		dtos[i] = mapper.ToInquiryDTO(&inquiry)
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

// Update applies a partial update to the inquiry's submission fields
func (s *InquiryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInquiryRequest) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if req.DevelopmentStage != nil && *req.DevelopmentStage != "" && !req.DevelopmentStage.IsValid() {
		return nil, fmt.Errorf("%w: unknown development stage %q", ErrInvalidInput, *req.DevelopmentStage)
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&inquiry.CompanyName, req.CompanyName)
	applyString(&inquiry.CompanyCity, req.CompanyCity)
	applyString(&inquiry.CompanyWebsite, req.CompanyWebsite)
	applyString(&inquiry.ContactName, req.ContactName)
	applyString(&inquiry.ContactEmail, req.ContactEmail)
	applyString(&inquiry.ContactPhone, req.ContactPhone)
	applyString(&inquiry.ProductTitle, req.ProductTitle)
	applyString(&inquiry.ProductDescription, req.ProductDescription)
	applyString(&inquiry.PartnerDescription, req.PartnerDescription)
	applyString(&inquiry.AdditionalNotes, req.AdditionalNotes)
	if req.DevelopmentStage != nil {
		inquiry.DevelopmentStage = *req.DevelopmentStage
	}
	if req.ProductTypes != nil {
		inquiry.ProductTypes = req.ProductTypes
	}

	if err := s.inquiryRepo.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// Delete removes an inquiry permanently, with its comments and
// recommendations.
func (s *InquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.inquiryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get inquiry: %w", err)
	}

	if err := s.inquiryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}

	s.logger.Info("inquiry deleted", zap.String("inquiryID", id.String()))
	return nil
}

// Archive marks the inquiry archived. Archiving an already archived
// inquiry succeeds and changes nothing.
func (s *InquiryService) Archive(ctx context.Context, id uuid.UUID) (*domain.InquiryDTO, error) {
	found, err := s.inquiryRepo.SetArchived(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to archive inquiry: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

// Restore returns an archived inquiry to the active list. Restoring an
// inquiry that is not archived is rejected.
func (s *InquiryService) Restore(ctx context.Context, id uuid.UUID) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if !inquiry.Archived {
		return nil, ErrNotArchived
	}

	if _, err := s.inquiryRepo.SetArchived(ctx, id, false); err != nil {
		return nil, fmt.Errorf("failed to restore inquiry: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Assign hands the inquiry to an admin user. Reassignment is always
// allowed; the previous assignee is simply replaced.
func (s *InquiryService) Assign(ctx context.Context, id uuid.UUID, adminID, actingUserID uuid.UUID) (*domain.InquiryDTO, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if admin.Role != domain.UserRoleAdmin {
		return nil, ErrNotAdmin
	}

	found, err := s.inquiryRepo.Assign(ctx, id, adminID, actingUserID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to assign inquiry: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	s.logger.Info("inquiry assigned",
		zap.String("inquiryID", id.String()),
		zap.String("assignedTo", adminID.String()),
		zap.String("assignedBy", actingUserID.String()))

	return s.GetByID(ctx, id)
}

// UpdateStatus moves the inquiry to a new workflow status. The status set
// is flat: any valid status may follow any other.
func (s *InquiryService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (*domain.InquiryDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	found, err := s.inquiryRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update inquiry status: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

// Comment operations

// AddComment appends an internal note to the inquiry
func (s *InquiryService) AddComment(ctx context.Context, inquiryID uuid.UUID, authorID uuid.UUID, req *domain.CreateCommentRequest) (*domain.CommentDTO, error) {
	if _, err := s.inquiryRepo.GetByID(ctx, inquiryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	comment := &domain.InquiryComment{
		InquiryID: inquiryID,
		Text:      req.Text,
		AuthorID:  authorID,
	}

	if err := s.inquiryRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	dto := mapper.ToCommentDTO(comment)
	return &dto, nil
}

// EditComment updates a comment's text. Only the author may edit.
func (s *InquiryService) EditComment(ctx context.Context, inquiryID, commentID uuid.UUID, actingUserID uuid.UUID, req *domain.UpdateCommentRequest) (*domain.CommentDTO, error) {
	comment, err := s.inquiryRepo.GetCommentByID(ctx, inquiryID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if comment.AuthorID != actingUserID {
		return nil, ErrNotCommentAuthor
	}

	comment.Text = req.Text
	if err := s.inquiryRepo.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	dto := mapper.ToCommentDTO(comment)
	return &dto, nil
}

// DeleteComment removes a comment. Only the author may delete.
func (s *InquiryService) DeleteComment(ctx context.Context, inquiryID, commentID uuid.UUID, actingUserID uuid.UUID) error {
	comment, err := s.inquiryRepo.GetCommentByID(ctx, inquiryID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	if comment.AuthorID != actingUserID {
		return ErrNotCommentAuthor
	}

	if err := s.inquiryRepo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// Tag operations

// AddTag adds a normalized tag to the inquiry. Adding a tag the inquiry
// already carries is a no-op, not an error.
func (s *InquiryService) AddTag(ctx context.Context, id uuid.UUID, tag string) (*domain.InquiryDTO, error) {
	normalized := domain.NormalizeTag(tag)
	if normalized == "" {
		return nil, fmt.Errorf("%w: tag must not be blank", ErrInvalidInput)
	}

	if _, err := s.inquiryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if err := s.inquiryRepo.AddTag(ctx, id, normalized); err != nil {
		return nil, fmt.Errorf("failed to add tag: %w", err)
	}

	return s.GetByID(ctx, id)
}

// AddTags adds several tags at once with the same normalization and
// dedup rules as AddTag.
func (s *InquiryService) AddTags(ctx context.Context, id uuid.UUID, tags []string) (*domain.InquiryDTO, error) {
	normalized := domain.NormalizeTags(tags)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no usable tags in request", ErrInvalidInput)
	}

	if _, err := s.inquiryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	for _, tag := range normalized {
		if err := s.inquiryRepo.AddTag(ctx, id, tag); err != nil {
			return nil, fmt.Errorf("failed to add tag %q: %w", tag, err)
		}
	}

	return s.GetByID(ctx, id)
}

// RemoveTag removes a single tag. Removing a tag the inquiry does not
// carry is an error, unlike the bulk variant.
func (s *InquiryService) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*domain.InquiryDTO, error) {
	normalized := domain.NormalizeTag(tag)
	if normalized == "" {
		return nil, fmt.Errorf("%w: tag must not be blank", ErrInvalidInput)
	}

	removed, err := s.inquiryRepo.RemoveTag(ctx, id, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to remove tag: %w", err)
	}
	if !removed {
		// Zero rows means either a missing inquiry or a missing tag.
		if _, err := s.inquiryRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get inquiry: %w", err)
		}
		return nil, ErrTagNotFound
	}

	return s.GetByID(ctx, id)
}

// RemoveTags removes every listed tag that the inquiry carries and
// silently ignores the rest.
func (s *InquiryService) RemoveTags(ctx context.Context, id uuid.UUID, tags []string) (*domain.InquiryDTO, error) {
	normalized := domain.NormalizeTags(tags)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no usable tags in request", ErrInvalidInput)
	}

	if _, err := s.inquiryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if err := s.inquiryRepo.RemoveTags(ctx, id, normalized); err != nil {
		return nil, fmt.Errorf("failed to remove tags: %w", err)
	}

	return s.GetByID(ctx, id)
}
