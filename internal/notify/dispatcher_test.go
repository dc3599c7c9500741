package notify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/notify"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/testutil"
)

// flakyMailer fails the first failures sends, then succeeds
type flakyMailer struct {
	mu       sync.Mutex
	failures int
	sent     []*notify.Message
	attempts int
}

func (m *flakyMailer) Send(ctx context.Context, msg *notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.attempts <= m.failures {
		return assert.AnError
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *flakyMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *flakyMailer) attemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *flakyMailer) firstMessage() *notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[0]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcher_DeliversToOptedInAdmins(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	userRepo := repository.NewUserRepository(db)

	admin := testutil.CreateTestUser(t, db, "Mottaker")
	optedOut := testutil.CreateTestUser(t, db, "Reservert")
	optedOut.EmailNotifications = false
	require.NoError(t, db.Save(optedOut).Error)
	testutil.CreateTestGuest(t, db, "Gjest")

	mailer := &flakyMailer{}
	dispatcher := notify.NewDispatcher(mailer, userRepo, zap.NewNop(),
		notify.WithRetryDelay(time.Millisecond))
	dispatcher.Start()

	inquiry := testutil.CreateTestInquiry(t, db, "Varslingssak")
	dispatcher.InquiryCreated(inquiry)

	waitFor(t, func() bool { return mailer.sentCount() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Stop(ctx))

	msg := mailer.firstMessage()
	require.NotNil(t, msg)
	assert.Equal(t, admin.Email, msg.To)
	assert.Contains(t, msg.Subject, inquiry.CaseNumber)
	assert.Contains(t, msg.Subject, inquiry.CompanyName)
	assert.Equal(t, 0, dispatcher.DeadLetterCount())
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	userRepo := repository.NewUserRepository(db)
	testutil.CreateTestUser(t, db, "Mottaker")

	// Two failures, third attempt lands inside the default three tries
	mailer := &flakyMailer{failures: 2}
	dispatcher := notify.NewDispatcher(mailer, userRepo, zap.NewNop(),
		notify.WithRetryDelay(time.Millisecond))
	dispatcher.Start()

	dispatcher.InquiryCreated(testutil.CreateTestInquiry(t, db, "Gjenforsøk"))

	waitFor(t, func() bool { return mailer.sentCount() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Stop(ctx))

	assert.Equal(t, 3, mailer.attemptCount())
	assert.Equal(t, 0, dispatcher.DeadLetterCount())
}

func TestDispatcher_DeadLetterAndRedrive(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	userRepo := repository.NewUserRepository(db)
	testutil.CreateTestUser(t, db, "Mottaker")

	// More failures than attempts: the delivery dead-letters
	mailer := &flakyMailer{failures: 3}
	dispatcher := notify.NewDispatcher(mailer, userRepo, zap.NewNop(),
		notify.WithMaxAttempts(3),
		notify.WithRetryDelay(time.Millisecond))
	dispatcher.Start()

	dispatcher.InquiryCreated(testutil.CreateTestInquiry(t, db, "Død sak"))

	waitFor(t, func() bool { return dispatcher.DeadLetterCount() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Stop(ctx))

	// The mailer has recovered; redrive delivers the stuck message
	delivered, remaining := dispatcher.Redrive(context.Background())
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 0, dispatcher.DeadLetterCount())
	assert.Equal(t, 1, mailer.sentCount())
}
