package service_test

import (
	"context"
	"fmt"
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

// scriptedGenerator replays a fixed reply and counts calls
type scriptedGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (g *scriptedGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newRecommendationService(db *gorm.DB, generator service.TextGenerator) *service.RecommendationService {
	return service.NewRecommendationService(
		repository.NewInquiryRepository(db),
		repository.NewContactRepository(db),
		generator,
		zap.NewNop(),
	)
}

func suggestionReply(contacts ...*domain.Contact) string {
	reply := "Here are my picks:\n["
	for i, c := range contacts {
		if i > 0 {
			reply += ","
		}
		reply += fmt.Sprintf(`{"name":%q,"businessName":%q}`, c.Name, c.BusinessName)
	}
	return reply + "]"
}

func TestRecommendationService_GenerateAndCache(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Anbefaling")
	first := testutil.CreateTestContact(t, db, "Ola Rådgiver", "Rådgiverne AS")
	second := testutil.CreateTestContact(t, db, "Kari Konsulent", "Konsulentene AS")
	testutil.CreateTestContact(t, db, "Per Partner", "Partnerne AS")

	generator := &scriptedGenerator{reply: suggestionReply(first, second)}
	svc := newRecommendationService(db, generator)

	result, err := svc.Recommend(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationSourceGenerated, result.Source)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "Ola Rådgiver", result.Recommendations[0].Name)
	assert.Equal(t, "Kari Konsulent", result.Recommendations[1].Name)
	assert.Equal(t, 1, generator.callCount())

	// Second call is served from the cache without touching the generator
	result, err = svc.Recommend(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationSourceCache, result.Source)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, 1, generator.callCount())
}

func TestRecommendationService_CapsAtTwo(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Mange forslag")
	a := testutil.CreateTestContact(t, db, "A", "Firma A")
	b := testutil.CreateTestContact(t, db, "B", "Firma B")
	c := testutil.CreateTestContact(t, db, "C", "Firma C")

	generator := &scriptedGenerator{reply: suggestionReply(a, b, c)}
	svc := newRecommendationService(db, generator)

	result, err := svc.Recommend(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

func TestRecommendationService_UnparseableReply(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Rot i svaret")
	testutil.CreateTestContact(t, db, "Ola", "Firma A")

	generator := &scriptedGenerator{reply: "beklager, jeg kan ikke hjelpe med det"}
	svc := newRecommendationService(db, generator)

	_, err := svc.Recommend(ctx, inquiry.ID)
	assert.ErrorIs(t, err, service.ErrAIResponseInvalid)

	// Failures are not cached; the next call asks again
	_, err = svc.Recommend(ctx, inquiry.ID)
	assert.ErrorIs(t, err, service.ErrAIResponseInvalid)
	assert.Equal(t, 2, generator.callCount())
}

func TestRecommendationService_UnknownNamesRejected(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	ctx := context.Background()

	inquiry := testutil.CreateTestInquiry(t, db, "Oppdiktede navn")
	testutil.CreateTestContact(t, db, "Ola", "Firma A")

	generator := &scriptedGenerator{reply: `[{"name":"Finnes Ikke","businessName":"Spøkelse AS"}]`}
	svc := newRecommendationService(db, generator)

	_, err := svc.Recommend(ctx, inquiry.ID)
	assert.ErrorIs(t, err, service.ErrAIResponseInvalid)
}

func TestRecommendationService_NoContacts(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)

	inquiry := testutil.CreateTestInquiry(t, db, "Tom katalog")
	generator := &scriptedGenerator{reply: "[]"}
	svc := newRecommendationService(db, generator)

	_, err := svc.Recommend(context.Background(), inquiry.ID)
	assert.ErrorIs(t, err, service.ErrNoContacts)
	assert.Equal(t, 0, generator.callCount())
}

func TestRecommendationService_UnknownInquiry(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := newRecommendationService(db, &scriptedGenerator{})

	_, err := svc.Recommend(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecommendationService_GeneratorFailure(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)

	inquiry := testutil.CreateTestInquiry(t, db, "Nede")
	testutil.CreateTestContact(t, db, "Ola", "Firma A")

	generator := &scriptedGenerator{err: fmt.Errorf("rate limited")}
	svc := newRecommendationService(db, generator)

	_, err := svc.Recommend(context.Background(), inquiry.ID)
	assert.ErrorIs(t, err, service.ErrExternal)
}
