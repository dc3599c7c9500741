package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
	"github.com/fremdrift-as/inquiry-api/internal/testutil"
)

func newContactService(db *gorm.DB) *service.ContactService {
	return service.NewContactService(repository.NewContactRepository(db), zap.NewNop())
}

func TestContactService_Create(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateContactRequest{
		Name:           "  Ola Rådgiver ",
		Email:          "Ola.Radgiver@Example.COM",
		Phone:          "+47 123 45 678",
		BusinessName:   "Rådgiverne AS",
		OfficeLocation: "Trondheim",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Ola Rådgiver", dto.Name)
	assert.Equal(t, "ola.radgiver@example.com", dto.Email, "email should be stored lower-cased")
}

func TestContactService_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateContactRequest{
		Name:  "Ola",
		Email: "ola@example.com",
	}, nil)
	require.NoError(t, err)

	// Uniqueness is case-insensitive
	_, err = svc.Create(ctx, &domain.CreateContactRequest{
		Name:  "Kari",
		Email: "OLA@Example.com",
	}, nil)
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestContactService_Create_InvalidPhone(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)

	_, err := svc.Create(context.Background(), &domain.CreateContactRequest{
		Name:  "Ola",
		Email: "ola2@example.com",
		Phone: "ring meg",
	}, nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestContactService_Search(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)
	ctx := context.Background()

	testutil.CreateTestContact(t, db, "Ola Rådgiver", "Rådgiverne AS")
	testutil.CreateTestContact(t, db, "Kari Konsulent", "Konsulentene AS")

	// No criteria is invalid
	_, err := svc.Search(ctx, &domain.ContactSearchParams{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Empty result is reported as not found
	_, err = svc.Search(ctx, &domain.ContactSearchParams{Name: "finnes ikke"})
	assert.ErrorIs(t, err, service.ErrNoContacts)

	// Partial, case-insensitive match
	results, err := svc.Search(ctx, &domain.ContactSearchParams{Name: "rådgiver"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ola Rådgiver", results[0].Name)

	results, err = svc.Search(ctx, &domain.ContactSearchParams{BusinessName: "konsulent"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Kari Konsulent", results[0].Name)

	// ILIKE wildcards in the search text are matched literally
	_, err = svc.Search(ctx, &domain.ContactSearchParams{Name: "%"})
	assert.ErrorIs(t, err, service.ErrNoContacts)
	_, err = svc.Search(ctx, &domain.ContactSearchParams{Name: "_ari"})
	assert.ErrorIs(t, err, service.ErrNoContacts)
}

func TestContactService_Update(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)
	ctx := context.Background()

	first := testutil.CreateTestContact(t, db, "Ola", "Firma A")
	second := testutil.CreateTestContact(t, db, "Kari", "Firma B")

	newName := "Ola Oppdatert"
	dto, err := svc.Update(ctx, first.ID, &domain.UpdateContactRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ola Oppdatert", dto.Name)

	// Changing email to another contact's address conflicts
	dup := second.Email
	_, err = svc.Update(ctx, first.ID, &domain.UpdateContactRequest{Email: &dup})
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)

	// Re-submitting your own email is fine
	_, err = svc.Update(ctx, first.ID, &domain.UpdateContactRequest{Email: &first.Email})
	assert.NoError(t, err)
}

func TestContactService_Delete(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newContactService(db)
	ctx := context.Background()

	contact := testutil.CreateTestContact(t, db, "Ola", "Firma A")

	require.NoError(t, svc.Delete(ctx, contact.ID))
	assert.ErrorIs(t, svc.Delete(ctx, contact.ID), service.ErrNotFound)
	_, err := svc.GetByID(ctx, contact.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), service.ErrNotFound)
}
