package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/cache"
	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	"github.com/SAP-F-2025/question-extractor/internal/events"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/source"
	"github.com/google/uuid"
)

// ExtractionService walks a document page by page and classifies each page
// into fragments. A page that yields no text never aborts the document.
type ExtractionService interface {
	// Extract classifies every page of doc. When ctx is cancelled the pages
	// classified so far are returned together with the context error.
	Extract(ctx context.Context, documentID string, doc source.Document, strategy classifier.Strategy) (*models.ExtractionResult, error)
	ClassifyPages(ctx context.Context, pages []models.PageText, strategy classifier.Strategy) (*models.ExtractionResult, error)
	ClassifyText(ctx context.Context, text string, strategy classifier.Strategy) ([]models.Fragment, error)
	DefaultStrategy() classifier.Strategy
	// PurgeCache drops every cached page classification, e.g. after the
	// classifier rules file changed.
	PurgeCache(ctx context.Context) error
}

type extractionService struct {
	classifiers     map[classifier.Strategy]*classifier.Classifier
	defaultStrategy classifier.Strategy
	cache           *cache.ClassificationCache
	publisher       events.EventPublisher
	logger          *ServiceLogger
}

// NewExtractionService builds one classifier per strategy from opts; the
// strategy in opts is the default. A nil cache or publisher disables them.
func NewExtractionService(opts classifier.Options, classificationCache *cache.ClassificationCache, publisher events.EventPublisher, logger *slog.Logger) (ExtractionService, error) {
	defaultStrategy, err := classifier.ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}

	classifiers := make(map[classifier.Strategy]*classifier.Classifier, 2)
	for _, strategy := range []classifier.Strategy{classifier.StrategyBlock, classifier.StrategyLine} {
		strategyOpts := opts
		strategyOpts.Strategy = strategy
		c, err := classifier.New(strategyOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s classifier: %w", strategy, err)
		}
		classifiers[strategy] = c
	}

	if classificationCache == nil {
		classificationCache = cache.NewClassificationCache(nil, 0, logger)
	}
	if publisher == nil {
		publisher = events.NewMockEventPublisher(logger)
	}

	return &extractionService{
		classifiers:     classifiers,
		defaultStrategy: defaultStrategy,
		cache:           classificationCache,
		publisher:       publisher,
		logger:          NewServiceLogger(logger, LogConfig{Service: "question-extractor", Component: "extraction", EnableMetrics: true}),
	}, nil
}

func (s *extractionService) DefaultStrategy() classifier.Strategy {
	return s.defaultStrategy
}

func (s *extractionService) PurgeCache(ctx context.Context) (err error) {
	op := s.logger.WithOperation(ctx, "purge_cache", "")
	defer func() { op.LogResult("cache", err) }()

	if err := s.cache.Purge(ctx); err != nil {
		return fmt.Errorf("failed to purge classification cache: %w", err)
	}
	return nil
}

func (s *extractionService) classifierFor(strategy classifier.Strategy) (*classifier.Classifier, error) {
	if strategy == "" {
		strategy = s.defaultStrategy
	}
	c, ok := s.classifiers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown classifier strategy %q", ErrBadRequest, strategy)
	}
	return c, nil
}

func (s *extractionService) Extract(ctx context.Context, documentID string, doc source.Document, strategy classifier.Strategy) (result *models.ExtractionResult, err error) {
	if documentID == "" {
		documentID = uuid.NewString()
	}
	op := s.logger.WithOperation(ctx, "extract_document", documentID)
	defer func() { op.LogResult("document", err) }()

	c, err := s.classifierFor(strategy)
	if err != nil {
		return nil, err
	}
	if doc.PageCount() < 1 {
		return nil, ErrNoPages
	}

	start := time.Now()
	metrics := PerformanceMetrics{}
	result = &models.ExtractionResult{
		PageCount: doc.PageCount(),
		Pages:     make([]models.PageResult, 0, doc.PageCount()),
		Fragments: []models.Fragment{},
	}

	for page := 1; page <= doc.PageCount(); page++ {
		pageText, loadErr := source.Load(ctx, doc, page)
		if loadErr != nil && ctx.Err() != nil {
			return result, ctx.Err()
		}
		switch {
		case loadErr == nil:
		case pageText.Status == models.PageNoText:
			result.NoText++
			s.logger.LogPageNoText(ctx, documentID, page)
		default:
			result.Failed++
			s.logger.LogPageFailure(ctx, documentID, page, loadErr)
			s.publish(ctx, events.NewPageExtractionFailedEvent(documentID, pageText))
		}

		fragments, hit := s.classifyPage(ctx, c, pageText)
		if hit {
			metrics.CacheHits++
		} else if pageText.Status == models.PageOK {
			metrics.CacheMisses++
		}
		s.appendPage(result, pageText, fragments)
		metrics.PagesProcessed++
	}

	metrics.TotalDuration = time.Since(start)
	s.logger.LogPerformanceMetrics(ctx, "extract_document", metrics)
	s.publish(ctx, events.NewDocumentClassifiedEvent(documentID, string(c.Strategy()), result))
	return result, nil
}

func (s *extractionService) ClassifyPages(ctx context.Context, pages []models.PageText, strategy classifier.Strategy) (*models.ExtractionResult, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return s.Extract(ctx, "", source.NewPagesDocument(pages), strategy)
}

func (s *extractionService) ClassifyText(ctx context.Context, text string, strategy classifier.Strategy) ([]models.Fragment, error) {
	c, err := s.classifierFor(strategy)
	if err != nil {
		return nil, err
	}
	fragments, _ := s.classifyPage(ctx, c, models.PageText{Text: text, Status: models.PageOK})
	return fragments, nil
}

// classifyPage classifies one page, consulting the cache for pages with text.
// The returned fragments have page-local SourceOrder.
func (s *extractionService) classifyPage(ctx context.Context, c *classifier.Classifier, page models.PageText) ([]models.Fragment, bool) {
	if page.Status != models.PageOK {
		return c.ClassifyPage(page), false
	}

	fragments, hit := s.cache.Lookup(ctx, c.Fingerprint(), page.Text)
	if !hit {
		fragments = c.Classify(page.Text)
		s.cache.Store(ctx, c.Fingerprint(), page.Text, fragments)
	}
	for i := range fragments {
		fragments[i].Page = page.Number
	}
	return fragments, hit
}

func (s *extractionService) appendPage(result *models.ExtractionResult, page models.PageText, fragments []models.Fragment) {
	fragments = classifier.Renumber(fragments, len(result.Fragments))
	result.Pages = append(result.Pages, models.PageResult{
		Page:      page.Number,
		Status:    page.Status,
		Error:     page.Error,
		Fragments: fragments,
	})
	result.Fragments = append(result.Fragments, fragments...)
}

func (s *extractionService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
