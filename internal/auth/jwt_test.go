package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      "Kari Nordmann",
		Email:     "kari@example.com",
		Role:      domain.UserRoleAdmin,
	}
}

func TestTokenManager_SessionRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	user := testUser()

	token, err := tm.IssueSession(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token, auth.PurposeSession)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, string(domain.UserRoleAdmin), claims.Role)
}

func TestTokenManager_WrongPurposeRejected(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	user := testUser()

	reset, err := tm.IssuePasswordReset(user)
	require.NoError(t, err)

	_, err = tm.Validate(reset, auth.PurposeSession)
	assert.ErrorIs(t, err, auth.ErrWrongPurpose)

	verify, err := tm.IssueVerifyEmail(user)
	require.NoError(t, err)

	_, err = tm.Validate(verify, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrWrongPurpose)
}

func TestTokenManager_ExpiredSessionRejected(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.IssueSession(testUser())
	require.NoError(t, err)

	_, err = tm.Validate(token, auth.PurposeSession)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	issuer := auth.NewTokenManager("secret-one", time.Hour)
	validator := auth.NewTokenManager("secret-two", time.Hour)

	token, err := issuer.IssueSession(testUser())
	require.NoError(t, err)

	_, err = validator.Validate(token, auth.PurposeSession)
	assert.Error(t, err)
}

func TestTokenManager_GarbageRejected(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	_, err := tm.Validate("not-a-token", auth.PurposeSession)
	assert.Error(t, err)
}
