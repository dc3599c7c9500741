package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/mapper"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

// AccountMailer sends account lifecycle emails. Failures never fail the
// triggering operation; they are logged and the user can request a new mail.
type AccountMailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// UserService handles account registration, login and profile management
type UserService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	mailer   AccountMailer
	logger   *zap.Logger
}

// NewUserService creates a new UserService. The mailer may be nil when
// email delivery is disabled.
func NewUserService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	mailer AccountMailer,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates a new account and sends a verification email
func (s *UserService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserDTO, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		PasswordHash:       hash,
		Role:               domain.UserRoleAdmin,
		IsVerified:         false,
		EmailNotifications: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("userID", user.ID.String()),
		zap.String("email", user.Email))

	s.sendVerificationMail(ctx, user)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Login verifies credentials and issues a session token
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("user logged in", zap.String("userID", user.ID.String()))

	return &domain.AuthResponse{
		Token: token,
		User:  mapper.ToUserDTO(user),
	}, nil
}

// VerifyEmail confirms an account with the token from the verification mail
func (s *UserService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString, auth.PurposeVerifyEmail)
	if err != nil {
		return ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	s.logger.Info("user verified", zap.String("userID", user.ID.String()))
	return nil
}

// RequestPasswordReset mails a one-hour reset token. Unknown addresses are
// not revealed: the call succeeds either way.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.tokens.IssuePasswordReset(user)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			s.logger.Warn("failed to send password reset email",
				zap.String("userID", user.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

// ResetPassword sets a new password using a reset token. All outstanding
// session tokens stop validating from this moment.
func (s *UserService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	claims, err := s.tokens.Validate(req.Token, auth.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}

	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	// Tokens issued before the change must stop validating, including the
	// reset token itself.
	if user.TokenIssuedBeforePasswordChange(claims.IssuedAt.Time) {
		return ErrInvalidToken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.SetPassword(ctx, user.ID, hash, time.Now()); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	s.logger.Info("password reset", zap.String("userID", user.ID.String()))
	return nil
}

// GetProfile returns the user's own profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateProfile changes name, password or notification preference. A
// password change invalidates every outstanding session token.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Validate everything before the first write so a rejected password
	// cannot leave a partially applied profile
	if req.Password != nil {
		if err := auth.ValidatePasswordStrength(*req.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.SetPassword(ctx, user.ID, hash, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", zap.String("userID", userID.String()))
	return nil
}

// ListAdmins lists admin accounts, optionally filtered by partial name
func (s *UserService) ListAdmins(ctx context.Context, nameFilter string, sortBy repository.UserSortOption) ([]domain.UserDTO, error) {
	users, err := s.userRepo.ListAdmins(ctx, nameFilter, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i, user := range users {
		dtos[i] = mapper.ToUserDTO(&user)
	}
	return dtos, nil
}

func (s *UserService) sendVerificationMail(ctx context.Context, user *domain.User) {
	if s.mailer == nil {
		return
	}

	token, err := s.tokens.IssueVerifyEmail(user)
	if err != nil {
		s.logger.Warn("failed to issue verification token",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
		return
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Warn("failed to send verification email",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
	}
}
