package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
	"github.com/fremdrift-as/inquiry-api/internal/testutil"
)

// recordingAccountMailer captures the tokens mailed to accounts
type recordingAccountMailer struct {
	mu           sync.Mutex
	verifyTokens map[string]string
	resetTokens  map[string]string
}

func newRecordingAccountMailer() *recordingAccountMailer {
	return &recordingAccountMailer{
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
	}
}

func (m *recordingAccountMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyTokens[to] = token
	return nil
}

func (m *recordingAccountMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[to] = token
	return nil
}

func (m *recordingAccountMailer) verifyToken(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyTokens[to]
}

func (m *recordingAccountMailer) resetToken(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetTokens[to]
}

func newUserService(db *gorm.DB, mailer service.AccountMailer) *service.UserService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return service.NewUserService(repository.NewUserRepository(db), tokens, mailer, zap.NewNop())
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	mailer := newRecordingAccountMailer()
	svc := newUserService(db, mailer)
	ctx := context.Background()

	dto, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     " Kari Nordmann ",
		Email:    "Kari@Example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kari Nordmann", dto.Name)
	assert.Equal(t, "kari@example.com", dto.Email)
	assert.Equal(t, domain.UserRoleAdmin, dto.Role)
	assert.False(t, dto.IsVerified)
	assert.NotEmpty(t, mailer.verifyToken("kari@example.com"))

	result, err := svc.Login(ctx, &domain.LoginRequest{Email: "kari@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, dto.ID, result.User.ID)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "kari@example.com", Password: "feil"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "ukjent@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUserService_Register_Rejections(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Svak",
		Email:    "svak@example.com",
		Password: "abc",
	})
	assert.ErrorIs(t, err, service.ErrWeakPassword)

	_, err = svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Kari",
		Email:    "kari@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Kopi",
		Email:    "KARI@example.com",
		Password: "Passw0rd!",
	})
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestUserService_VerifyEmail(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	mailer := newRecordingAccountMailer()
	svc := newUserService(db, mailer)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Kari",
		Email:    "kari@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	token := mailer.verifyToken("kari@example.com")
	require.NotEmpty(t, token)

	require.NoError(t, svc.VerifyEmail(ctx, token))

	// Second verification conflicts
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), service.ErrAlreadyVerified)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "garbage"), service.ErrInvalidToken)
}

func TestUserService_PasswordReset(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	mailer := newRecordingAccountMailer()
	svc := newUserService(db, mailer)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Kari",
		Email:    "kari@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	// Unknown addresses are not revealed
	require.NoError(t, svc.RequestPasswordReset(ctx, "ukjent@example.com"))
	assert.Empty(t, mailer.resetToken("ukjent@example.com"))

	require.NoError(t, svc.RequestPasswordReset(ctx, "kari@example.com"))
	token := mailer.resetToken("kari@example.com")
	require.NotEmpty(t, token)

	err = svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: token, Password: "svakt"})
	assert.ErrorIs(t, err, service.ErrWeakPassword)

	require.NoError(t, svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: token, Password: "NyttPassw0rd!"}))

	// Old password no longer works, the new one does
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "kari@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "kari@example.com", Password: "NyttPassw0rd!"})
	assert.NoError(t, err)

	// The reset token was issued before the change and is now dead
	err = svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: token, Password: "EnnåEtPassw0rd!"})
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestUserService_UpdateProfile(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Kari")

	newName := "Kari Oppdatert"
	off := false
	dto, err := svc.UpdateProfile(ctx, user.ID, &domain.UpdateProfileRequest{
		Name:               &newName,
		EmailNotifications: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kari Oppdatert", dto.Name)
	assert.False(t, dto.EmailNotifications)

	weak := "abc"
	_, err = svc.UpdateProfile(ctx, user.ID, &domain.UpdateProfileRequest{Password: &weak})
	assert.ErrorIs(t, err, service.ErrWeakPassword)
}

func TestUserService_UpdateProfile_NoPartialWriteOnWeakPassword(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Kari")

	newName := "Kari Forkastet"
	weak := "abc"
	_, err := svc.UpdateProfile(ctx, user.ID, &domain.UpdateProfileRequest{
		Name:     &newName,
		Password: &weak,
	})
	assert.ErrorIs(t, err, service.ErrWeakPassword)

	// The rejected request must not have written the name change
	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Kari", stored.Name)
}

func TestUserService_ListAdmins(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	testutil.CreateTestUser(t, db, "Anne Admin")
	testutil.CreateTestUser(t, db, "Bjørn Admin")
	testutil.CreateTestGuest(t, db, "Gjest Guri")

	admins, err := svc.ListAdmins(ctx, "", repository.UserSortByNameAsc)
	require.NoError(t, err)
	require.Len(t, admins, 2, "guests are excluded")
	assert.Equal(t, "Anne Admin", admins[0].Name)
	assert.Equal(t, "Bjørn Admin", admins[1].Name)

	admins, err = svc.ListAdmins(ctx, "bjørn", repository.UserSortByNameAsc)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Bjørn Admin", admins[0].Name)
}
