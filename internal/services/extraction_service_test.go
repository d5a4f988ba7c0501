package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/cache"
	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	apperrors "github.com/SAP-F-2025/question-extractor/internal/errors"
	"github.com/SAP-F-2025/question-extractor/internal/events"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const samplePage = "1. What is 2+2? • (a) 3 • (b) 4 • (c) 5 • (d) 6 Answer: b"

// MockDocument is a mock implementation of source.Document
type MockDocument struct {
	mock.Mock
}

func (m *MockDocument) PageCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockDocument) PageText(ctx context.Context, page int) (string, error) {
	args := m.Called(ctx, page)
	return args.String(0), args.Error(1)
}

// MockCache is a mock implementation of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newExtractionService(t *testing.T, store cache.CacheService, publisher events.EventPublisher) ExtractionService {
	t.Helper()
	cc := cache.NewClassificationCache(store, time.Hour, testLogger())
	svc, err := NewExtractionService(classifier.DefaultOptions(), cc, publisher, testLogger())
	require.NoError(t, err)
	return svc
}

func TestExtractionService_IsolatesFailedPages(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newExtractionService(t, cache.NewMemoryCache(), publisher)

	doc := new(MockDocument)
	doc.On("PageCount").Return(3)
	doc.On("PageText", mock.Anything, 1).Return(samplePage, nil)
	doc.On("PageText", mock.Anything, 2).Return("", errors.New("corrupt xref table"))
	doc.On("PageText", mock.Anything, 3).Return("", apperrors.ErrNoText)

	result, err := svc.Extract(context.Background(), "doc-1", doc, "")
	require.NoError(t, err)
	doc.AssertExpectations(t)

	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.NoText)
	require.Len(t, result.Pages, 3)
	assert.Len(t, result.Pages[0].Fragments, 6)

	require.Len(t, result.Pages[1].Fragments, 1)
	assert.Equal(t, models.PageFailed, result.Pages[1].Status)
	assert.Equal(t, "[Page 2] Text extraction failed: corrupt xref table", result.Pages[1].Fragments[0].Text)

	require.Len(t, result.Pages[2].Fragments, 1)
	assert.Equal(t, models.PageNoText, result.Pages[2].Status)
	assert.Equal(t, "[Page 3] No extractable text was found on this page.", result.Pages[2].Fragments[0].Text)

	require.Len(t, result.Fragments, 8)
	for i, f := range result.Fragments {
		assert.Equal(t, i, f.SourceOrder)
	}
	assert.Equal(t, 3, result.Fragments[7].Page)

	failed := publisher.EventsOfType(events.EventPageExtractionFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Data.(events.PageExtractionFailedEvent).Page)
	assert.Len(t, publisher.EventsOfType(events.EventDocumentClassified), 1)
}

func TestExtractionService_CancelKeepsClassifiedPages(t *testing.T) {
	svc := newExtractionService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	doc := new(MockDocument)
	doc.On("PageCount").Return(3)
	doc.On("PageText", mock.Anything, 1).Return(samplePage, nil).Run(func(mock.Arguments) { cancel() })
	doc.On("PageText", mock.Anything, 2).Return("", context.Canceled)

	result, err := svc.Extract(ctx, "doc-2", doc, classifier.StrategyBlock)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	require.Len(t, result.Pages, 1)
	assert.Len(t, result.Fragments, 6)
	assert.Zero(t, result.Failed)
}

func TestExtractionService_UsesCache(t *testing.T) {
	store := new(MockCache)
	key := cache.Key(classifier.MustNew(classifier.DefaultOptions()).Fingerprint(), samplePage)
	store.On("Get", mock.Anything, key, mock.Anything).Return(cache.ErrCacheMiss).Once()
	store.On("Set", mock.Anything, key, mock.Anything, time.Hour).Return(nil).Once()

	svc := newExtractionService(t, store, nil)
	fragments, err := svc.ClassifyText(context.Background(), samplePage, "")
	require.NoError(t, err)
	assert.Len(t, fragments, 6)
	store.AssertExpectations(t)
}

func TestExtractionService_PurgeCache(t *testing.T) {
	store := new(MockCache)
	store.On("DeletePattern", mock.Anything, "classify:*").Return(nil).Once()
	svc := newExtractionService(t, store, nil)
	require.NoError(t, svc.PurgeCache(context.Background()))
	store.AssertExpectations(t)

	failing := new(MockCache)
	failing.On("DeletePattern", mock.Anything, "classify:*").Return(errors.New("connection refused"))
	svc = newExtractionService(t, failing, nil)
	assert.ErrorContains(t, svc.PurgeCache(context.Background()), "connection refused")
}

func TestExtractionService_CacheFailureFallsBackToClassifier(t *testing.T) {
	store := new(MockCache)
	store.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := newExtractionService(t, store, nil)
	result, err := svc.ClassifyPages(context.Background(), []models.PageText{{Text: samplePage}}, classifier.StrategyLine)
	require.NoError(t, err)
	assert.Len(t, result.Fragments, 6)
	assert.Equal(t, 1, result.Fragments[0].Page)
}

func TestExtractionService_CachedPagesMatchFreshOnes(t *testing.T) {
	svc := newExtractionService(t, cache.NewMemoryCache(), nil)
	pages := []models.PageText{{Text: samplePage}, {Text: samplePage}}

	first, err := svc.ClassifyPages(context.Background(), pages, "")
	require.NoError(t, err)
	second, err := svc.ClassifyPages(context.Background(), pages, "")
	require.NoError(t, err)

	assert.Equal(t, first.Fragments, second.Fragments)
	assert.Equal(t, 2, second.Fragments[6].Page)
	assert.Equal(t, 6, second.Fragments[6].SourceOrder)
}

func TestExtractionService_Errors(t *testing.T) {
	svc := newExtractionService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.ClassifyPages(ctx, nil, "")
	assert.ErrorIs(t, err, ErrNoPages)
	assert.True(t, IsBadRequest(err))

	_, err = svc.ClassifyText(ctx, "text", "regex")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Extract(ctx, "", source.NewPagesDocument(nil), "")
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = NewExtractionService(classifier.Options{Strategy: "regex"}, nil, nil, testLogger())
	assert.Error(t, err)
}

func TestExtractionService_TextDocument(t *testing.T) {
	svc := newExtractionService(t, nil, nil)
	assert.Equal(t, classifier.StrategyBlock, svc.DefaultStrategy())

	doc := source.NewTextDocument(samplePage + "\f\f2) Capital of France? • (a) Paris • (b) Rome • (c) Oslo • (d) Bern Correct: a")
	result, err := svc.Extract(context.Background(), "", doc, "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.PageCount)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.NoText)
	assert.Equal(t, models.PageOK, result.Pages[1].Status)
	assert.Empty(t, result.Pages[1].Fragments)
	assert.Len(t, result.Fragments, 12)
}

func TestExtractionService_BlankPagesAreNotFailures(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newExtractionService(t, cache.NewMemoryCache(), publisher)

	for name, text := range map[string]string{
		"trailing form feed": samplePage + "\f",
		"whitespace page":    samplePage + "\f \n\t ",
		"empty document":     "",
	} {
		t.Run(name, func(t *testing.T) {
			publisher.ClearEvents()
			result, err := svc.Extract(context.Background(), "", source.NewTextDocument(text), "")
			require.NoError(t, err)

			assert.Zero(t, result.Failed)
			assert.Zero(t, result.NoText)
			for _, page := range result.Pages {
				assert.Equal(t, models.PageOK, page.Status)
			}
			for _, f := range result.Fragments {
				assert.NotContains(t, f.Text, "No extractable text")
			}
			assert.Empty(t, publisher.EventsOfType(events.EventPageExtractionFailed))
		})
	}
}
