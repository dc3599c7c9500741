package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/storage"
)

// ErrAttachmentTooLarge is returned when an upload exceeds the size limit
var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

// ErrNoAttachment is returned when an inquiry has no attachment
var ErrNoAttachment = errors.New("inquiry has no attachment")

// allowedAttachmentTypes are the content types accepted on the public form
var allowedAttachmentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// AttachmentService stores and serves inquiry attachments
type AttachmentService struct {
	inquiryRepo *repository.InquiryRepository
	store       storage.Storage
	maxSize     int64
	logger      *zap.Logger
}

// NewAttachmentService creates a new AttachmentService. maxSizeMB caps
// upload size.
func NewAttachmentService(inquiryRepo *repository.InquiryRepository, store storage.Storage, maxSizeMB int64, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		inquiryRepo: inquiryRepo,
		store:       store,
		maxSize:     maxSizeMB * 1024 * 1024,
		logger:      logger,
	}
}

// Store validates and uploads a file, returning its storage path. Used by
// the public form where the file arrives before the inquiry exists; the
// caller records the path.
func (s *AttachmentService) Store(ctx context.Context, filename, contentType string, size int64, data io.Reader) (string, error) {
	if size > s.maxSize {
		return "", ErrAttachmentTooLarge
	}
	if !allowedAttachmentTypes[strings.ToLower(contentType)] {
		return "", fmt.Errorf("%w: unsupported attachment type %q", ErrInvalidInput, contentType)
	}

	// LimitReader backstops the declared size against the actual stream
	path, stored, err := s.store.Upload(ctx, filename, contentType, io.LimitReader(data, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}
	if stored > s.maxSize {
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.logger.Warn("failed to remove oversized attachment", zap.Error(delErr))
		}
		return "", ErrAttachmentTooLarge
	}
	return path, nil
}

// Remove deletes a stored file that is no longer referenced
func (s *AttachmentService) Remove(ctx context.Context, path string) error {
	return s.store.Delete(ctx, path)
}

// Upload stores an attachment and records its path on the inquiry
func (s *AttachmentService) Upload(ctx context.Context, inquiryID uuid.UUID, filename, contentType string, size int64, data io.Reader) error {
	inquiry, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get inquiry: %w", err)
	}

	path, err := s.Store(ctx, filename, contentType, size, data)
	if err != nil {
		return err
	}

	// Replace any previous attachment
	if inquiry.AttachmentURL != "" {
		if err := s.store.Delete(ctx, inquiry.AttachmentURL); err != nil {
			s.logger.Warn("failed to delete previous attachment",
				zap.String("inquiryID", inquiryID.String()),
				zap.Error(err))
		}
	}

	inquiry.AttachmentURL = path
	if err := s.inquiryRepo.Update(ctx, inquiry); err != nil {
		return fmt.Errorf("failed to record attachment: %w", err)
	}

	s.logger.Info("attachment stored",
		zap.String("inquiryID", inquiryID.String()),
		zap.String("path", path))
	return nil
}

// Download opens the inquiry's attachment for reading
func (s *AttachmentService) Download(ctx context.Context, inquiryID uuid.UUID) (io.ReadCloser, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	if inquiry.AttachmentURL == "" {
		return nil, ErrNoAttachment
	}

	reader, err := s.store.Download(ctx, inquiry.AttachmentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return reader, nil
}
