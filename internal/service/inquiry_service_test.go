package service_test

import (
	"context"
	"sync"
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

// recordingNotifier captures inquiries handed off for notification
type recordingNotifier struct {
	mu        sync.Mutex
	inquiries []*domain.Inquiry
}

func (n *recordingNotifier) InquiryCreated(inquiry *domain.Inquiry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inquiries = append(n.inquiries, inquiry)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inquiries)
}

func newInquiryService(db *gorm.DB, notifier service.InquiryNotifier) *service.InquiryService {
	return service.NewInquiryService(
		repository.NewInquiryRepository(db),
		repository.NewUserRepository(db),
		notifier,
		zap.NewNop(),
	)
}

func TestInquiryService_Create(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	notifier := &recordingNotifier{}
	svc := newInquiryService(db, notifier)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateInquiryRequest{
		CompanyName:        "Testbedrift AS",
		ContactEmail:       "post@testbedrift.no",
		ProductTitle:       "Ny produktidé",
		ProductDescription: "En beskrivelse",
	}, "")
	require.NoError(t, err)

	assert.NotEmpty(t, dto.CaseNumber)
	_, err = uuid.Parse(dto.CaseNumber)
	assert.NoError(t, err, "case number should be a UUID")
	assert.Equal(t, domain.InquiryStatusUnread, dto.Status)
	assert.False(t, dto.Archived)
	assert.Empty(t, dto.Tags)
	assert.Equal(t, 1, notifier.count(), "notifier should receive the new inquiry")
}

func TestInquiryService_Create_RejectsUnknownStage(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)

	_, err := svc.Create(context.Background(), &domain.CreateInquiryRequest{
		ProductTitle:       "Tittel",
		ProductDescription: "Beskrivelse",
		DevelopmentStage:   "halvferdig",
	}, "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestInquiryService_StatusTransitions(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()
	inquiry := testutil.CreateTestInquiry(t, db, "Statusflyt")

	// Any valid status may follow any other
	dto, err := svc.UpdateStatus(ctx, inquiry.ID, domain.InquiryStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusDone, dto.Status)

	dto, err = svc.UpdateStatus(ctx, inquiry.ID, domain.InquiryStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, dto.Status)

	_, err = svc.UpdateStatus(ctx, inquiry.ID, "pågår")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, uuid.New(), domain.InquiryStatusDone)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInquiryService_ArchiveAndRestore(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()
	inquiry := testutil.CreateTestInquiry(t, db, "Arkivering")

	// Restore before archive is rejected
	_, err := svc.Restore(ctx, inquiry.ID)
	assert.ErrorIs(t, err, service.ErrNotArchived)

	dto, err := svc.Archive(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.True(t, dto.Archived)

	// Archiving twice is a no-op, not an error
	dto, err = svc.Archive(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.True(t, dto.Archived)

	dto, err = svc.Restore(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.False(t, dto.Archived)

	_, err = svc.Restore(ctx, inquiry.ID)
	assert.ErrorIs(t, err, service.ErrNotArchived)
}

func TestInquiryService_Assign(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Tildeling")
	admin := testutil.CreateTestUser(t, db, "Admin")
	other := testutil.CreateTestUser(t, db, "AnnenAdmin")
	guest := testutil.CreateTestGuest(t, db, "Gjest")
	acting := testutil.CreateTestUser(t, db, "Saksbehandler")

	dto, err := svc.Assign(ctx, inquiry.ID, admin.ID, acting.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.AssignedToID)
	assert.Equal(t, admin.ID, *dto.AssignedToID)
	require.NotNil(t, dto.AssignedByID)
	assert.Equal(t, acting.ID, *dto.AssignedByID)
	assert.NotNil(t, dto.AssignedAt)

	// Reassignment replaces the previous assignee
	dto, err = svc.Assign(ctx, inquiry.ID, other.ID, acting.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.AssignedToID)
	assert.Equal(t, other.ID, *dto.AssignedToID)

	_, err = svc.Assign(ctx, inquiry.ID, guest.ID, acting.ID)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	_, err = svc.Assign(ctx, inquiry.ID, uuid.New(), acting.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = svc.Assign(ctx, uuid.New(), admin.ID, acting.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInquiryService_Tags(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()
	inquiry := testutil.CreateTestInquiry(t, db, "Tagger")

	dto, err := svc.AddTag(ctx, inquiry.ID, "  Viktig ")
	require.NoError(t, err)
	assert.Equal(t, []string{"viktig"}, dto.Tags)

	// Re-adding in a different case is a no-op
	dto, err = svc.AddTag(ctx, inquiry.ID, "VIKTIG")
	require.NoError(t, err)
	assert.Equal(t, []string{"viktig"}, dto.Tags)

	dto, err = svc.AddTags(ctx, inquiry.ID, []string{"Haster", "viktig", "  "})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"viktig", "haster"}, dto.Tags)

	_, err = svc.AddTag(ctx, inquiry.ID, "   ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Strict single remove: missing tag is an error
	_, err = svc.RemoveTag(ctx, inquiry.ID, "ukjent")
	assert.ErrorIs(t, err, service.ErrTagNotFound)

	dto, err = svc.RemoveTag(ctx, inquiry.ID, "Viktig")
	require.NoError(t, err)
	assert.Equal(t, []string{"haster"}, dto.Tags)

	// Lenient bulk remove: missing tags are silently ignored
	dto, err = svc.RemoveTags(ctx, inquiry.ID, []string{"haster", "ukjent"})
	require.NoError(t, err)
	assert.Empty(t, dto.Tags)

	_, err = svc.RemoveTag(ctx, uuid.New(), "viktig")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInquiryService_Comments(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Kommentarer")
	author := testutil.CreateTestUser(t, db, "Forfatter")
	other := testutil.CreateTestUser(t, db, "Kollega")

	comment, err := svc.AddComment(ctx, inquiry.ID, author.ID, &domain.CreateCommentRequest{Text: "Første notat"})
	require.NoError(t, err)
	assert.Equal(t, "Første notat", comment.Text)
	assert.Equal(t, author.ID, comment.AuthorID)

	// Only the author may edit
	_, err = svc.EditComment(ctx, inquiry.ID, comment.ID, other.ID, &domain.UpdateCommentRequest{Text: "Endret"})
	assert.ErrorIs(t, err, service.ErrNotCommentAuthor)

	updated, err := svc.EditComment(ctx, inquiry.ID, comment.ID, author.ID, &domain.UpdateCommentRequest{Text: "Endret"})
	require.NoError(t, err)
	assert.Equal(t, "Endret", updated.Text)

	// Only the author may delete
	err = svc.DeleteComment(ctx, inquiry.ID, comment.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrNotCommentAuthor)

	require.NoError(t, svc.DeleteComment(ctx, inquiry.ID, comment.ID, author.ID))

	err = svc.DeleteComment(ctx, inquiry.ID, comment.ID, author.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInquiryService_ListFilters(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()

	first := testutil.CreateTestInquiry(t, db, "Første sak")
	second := testutil.CreateTestInquiry(t, db, "Andre sak")

	_, err := svc.UpdateStatus(ctx, second.ID, domain.InquiryStatusDone)
	require.NoError(t, err)
	_, err = svc.Archive(ctx, first.ID)
	require.NoError(t, err)

	// Archived inquiries are hidden by default
	page, err := svc.List(ctx, 1, 20, &domain.InquiryFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = svc.List(ctx, 1, 20, &domain.InquiryFilters{IncludeArchived: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	done := domain.InquiryStatusDone
	page, err = svc.List(ctx, 1, 20, &domain.InquiryFilters{Status: &done})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	bad := domain.InquiryStatus("pågår")
	_, err = svc.List(ctx, 1, 20, &domain.InquiryFilters{Status: &bad})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestInquiryService_SearchTreatsWildcardsAsLiterals(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newInquiryService(db, nil)
	ctx := context.Background()

	testutil.CreateTestInquiry(t, db, "Vanlig sak")
	special := testutil.CreateTestInquiry(t, db, "Spesial")
	special.CompanyName = "100% Fornybar AS"
	require.NoError(t, db.Save(special).Error)

	// A literal % in the search text must not act as a match-all wildcard
	page, err := svc.List(ctx, 1, 20, &domain.InquiryFilters{Search: "100%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = svc.List(ctx, 1, 20, &domain.InquiryFilters{Search: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = svc.List(ctx, 1, 20, &domain.InquiryFilters{Search: "_"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}
