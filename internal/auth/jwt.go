package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

// TokenPurpose distinguishes one-time tokens from session tokens
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Claims carried by every token the API issues
type Claims struct {
	Email   string       `json:"email"`
	Role    string       `json:"role"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 tokens
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewTokenManager creates a token manager with the shared signing secret
func NewTokenManager(secret string, sessionTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), sessionTTL: sessionTTL}
}

// SessionTTL returns how long session tokens stay valid
func (tm *TokenManager) SessionTTL() time.Duration {
	return tm.sessionTTL
}

// IssueSession creates a login token for a user
func (tm *TokenManager) IssueSession(user *domain.User) (string, error) {
	return tm.issue(user.ID, user.Email, string(user.Role), PurposeSession, tm.sessionTTL)
}

// IssueVerifyEmail creates the one-time token sent in the verification mail
func (tm *TokenManager) IssueVerifyEmail(user *domain.User) (string, error) {
	return tm.issue(user.ID, user.Email, string(user.Role), PurposeVerifyEmail, 24*time.Hour)
}

// IssuePasswordReset creates the one-time token sent in the reset mail
func (tm *TokenManager) IssuePasswordReset(user *domain.User) (string, error) {
	return tm.issue(user.ID, user.Email, string(user.Role), PurposePasswordReset, time.Hour)
}

func (tm *TokenManager) issue(userID uuid.UUID, email, role string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and checks signature, expiry and purpose
func (tm *TokenManager) Validate(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// UserID parses the subject claim
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}
