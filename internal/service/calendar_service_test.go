package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

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

// fakeOutlook stands in for the Graph client in calendar tests
type fakeOutlook struct {
	mu        sync.Mutex
	created   int
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeOutlook) CreateEvent(ctx context.Context, userEmail string, event *domain.CalendarEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++
	return "outlook-" + uuid.NewString(), nil
}

func (f *fakeOutlook) DeleteEvent(ctx context.Context, userEmail, outlookEventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, outlookEventID)
	return nil
}

func newCalendarService(db *gorm.DB, outlook service.OutlookSync) *service.CalendarService {
	return service.NewCalendarService(
		repository.NewCalendarRepository(db),
		repository.NewUserRepository(db),
		outlook,
		zap.NewNop(),
	)
}

func eventRequest(title string, start, end time.Time) *domain.CreateEventRequest {
	return &domain.CreateEventRequest{
		Title:     title,
		StartTime: start,
		EndTime:   end,
	}
}

func TestCalendarService_Create(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newCalendarService(db, nil)
	ctx := context.Background()
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	dto, err := svc.Create(ctx, eventRequest("Oppfølgingsmøte", start, start.Add(time.Hour)), creator.ID)
	require.NoError(t, err)

	assert.Equal(t, "Oppfølgingsmøte", dto.Title)
	assert.Equal(t, domain.EventStatusPlanned, dto.Status, "status defaults to planned")
	assert.Equal(t, creator.ID, dto.CreatedByID)
}

func TestCalendarService_Create_RejectsInvertedTimes(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newCalendarService(db, nil)
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), eventRequest("Feil", start, start.Add(-time.Hour)), creator.ID)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Equal start and end is also rejected
	_, err = svc.Create(context.Background(), eventRequest("Feil", start, start), creator.ID)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCalendarService_Update_CrossValidatesTimes(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newCalendarService(db, nil)
	ctx := context.Background()
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	dto, err := svc.Create(ctx, eventRequest("Møte", start, start.Add(time.Hour)), creator.ID)
	require.NoError(t, err)

	// New start after the stored end is rejected
	lateStart := start.Add(2 * time.Hour)
	_, err = svc.Update(ctx, dto.ID, &domain.UpdateEventRequest{StartTime: &lateStart})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// New end before the stored start is rejected
	earlyEnd := start.Add(-time.Hour)
	_, err = svc.Update(ctx, dto.ID, &domain.UpdateEventRequest{EndTime: &earlyEnd})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Moving both together is fine
	newStart := start.Add(24 * time.Hour)
	newEnd := newStart.Add(time.Hour)
	updated, err := svc.Update(ctx, dto.ID, &domain.UpdateEventRequest{StartTime: &newStart, EndTime: &newEnd})
	require.NoError(t, err)
	assert.True(t, updated.StartTime.Equal(newStart))
	assert.True(t, updated.EndTime.Equal(newEnd))
}

func TestCalendarService_Windows(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newCalendarService(db, nil)
	ctx := context.Background()
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // a Monday

	mustCreate := func(title string, start time.Time) {
		t.Helper()
		_, err := svc.Create(ctx, eventRequest(title, start, start.Add(30*time.Minute)), creator.ID)
		require.NoError(t, err)
	}

	mustCreate("midnatt", day)                       // first instant of the day
	mustCreate("formiddag", day.Add(10*time.Hour))   // same day
	mustCreate("neste dag", day.AddDate(0, 0, 1))    // excluded from the day window
	mustCreate("søndag", day.AddDate(0, 0, 6).Add(23*time.Hour)) // last day of the week
	mustCreate("neste uke", day.AddDate(0, 0, 7))    // excluded from the week window
	mustCreate("neste måned", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	dayEvents, err := svc.ByDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, dayEvents, 2)
	// Earliest first
	assert.Equal(t, "midnatt", dayEvents[0].Title)
	assert.Equal(t, "formiddag", dayEvents[1].Title)

	weekEvents, err := svc.ByWeek(ctx, day)
	require.NoError(t, err)
	assert.Len(t, weekEvents, 4)

	monthEvents, err := svc.ByMonth(ctx, 2026, time.September)
	require.NoError(t, err)
	assert.Len(t, monthEvents, 5)

	monthEvents, err = svc.ByMonth(ctx, 2026, time.October)
	require.NoError(t, err)
	assert.Len(t, monthEvents, 1)
}

func TestCalendarService_OutlookSync(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	outlook := &fakeOutlook{}
	svc := newCalendarService(db, outlook)
	ctx := context.Background()
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	dto, err := svc.Create(ctx, eventRequest("Synket møte", start, start.Add(time.Hour)), creator.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, dto.OutlookEventID)
	assert.Equal(t, 1, outlook.created)

	require.NoError(t, svc.Delete(ctx, dto.ID))
	assert.Equal(t, []string{dto.OutlookEventID}, outlook.deleted)
}

func TestCalendarService_OutlookAuthExpiredSurfaces(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	outlook := &fakeOutlook{createErr: service.ErrMicrosoftAuthExpired}
	svc := newCalendarService(db, outlook)
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), eventRequest("Møte", start, start.Add(time.Hour)), creator.ID)
	assert.ErrorIs(t, err, service.ErrMicrosoftAuthExpired)
}

func TestCalendarService_OutlookOtherErrorsIgnored(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	outlook := &fakeOutlook{createErr: errors.New("graph unavailable")}
	svc := newCalendarService(db, outlook)
	creator := testutil.CreateTestUser(t, db, "Planlegger")

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	dto, err := svc.Create(context.Background(), eventRequest("Møte", start, start.Add(time.Hour)), creator.ID)
	require.NoError(t, err, "non-auth sync errors must not fail the create")
	assert.Empty(t, dto.OutlookEventID)
}
