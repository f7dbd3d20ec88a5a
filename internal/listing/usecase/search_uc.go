package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchUsecase answers one free-text term against several categories.
type SearchUsecase struct {
	repo       domain.ListingRepository
	categories []domain.Category
	partial    bool
	metrics    Recorder
	logger     *logger.Logger
	tracer     trace.Tracer
}

// NewSearchUsecase fails when a category has no search fields.
// With partial set, failing categories are skipped instead of failing the whole search.
func NewSearchUsecase(repo domain.ListingRepository, categories []domain.Category, partial bool, rec Recorder, log *logger.Logger) (*SearchUsecase, error) {
	for _, c := range categories {
		spec, err := domain.SpecFor(c)
		if err != nil {
			return nil, fmt.Errorf("search category %q: %w", c, err)
		}
		if !spec.Searchable() {
			return nil, fmt.Errorf("search category %q has no search fields", c)
		}
	}
	if rec == nil {
		rec = noRecorder{}
	}
	return &SearchUsecase{
		repo:       repo,
		categories: append([]domain.Category(nil), categories...),
		partial:    partial,
		metrics:    rec,
		logger:     log.Named("search_usecase"),
		tracer:     otel.Tracer("marketplace/search"),
	}, nil
}

// Categories returns the participating categories in result order.
func (uc *SearchUsecase) Categories() []domain.Category {
	return append([]domain.Category(nil), uc.categories...)
}

// Search returns the concatenated matches of every participating category.
// A blank term returns an empty result without querying the store.
func (uc *SearchUsecase) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		uc.metrics.SearchServed(metrics.OutcomeEmpty)
		return []domain.SearchResult{}, nil
	}

	ctx, span := uc.tracer.Start(ctx, "SearchUsecase.Search", trace.WithAttributes(attribute.Int("search.categories", len(uc.categories))))
	defer span.End()

	hits := make([][]*domain.Listing, len(uc.categories))
	failures := make([]error, len(uc.categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range uc.categories {
		i, c := i, c
		spec, _ := domain.SpecFor(c)
		g.Go(func() error {
			found, err := uc.repo.Search(gctx, c, term, spec.SearchFields)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", c, err)
				if uc.partial {
					return nil
				}
				return failures[i]
			}
			hits[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.metrics.SearchServed(metrics.OutcomeError)
		uc.logger.Error("search failed", zap.String("term", term), zap.Error(err))
		err = fmt.Errorf("%w: %v", domain.ErrSearch, err)
		spanError(span, err)
		return nil, err
	}

	var failed []error
	for _, err := range failures {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 && len(failed) == len(uc.categories) {
		uc.metrics.SearchServed(metrics.OutcomeError)
		err := fmt.Errorf("%w: %v", domain.ErrSearch, errors.Join(failed...))
		uc.logger.Error("search failed in every category", zap.String("term", term), zap.Error(err))
		spanError(span, err)
		return nil, err
	}

	results := make([]domain.SearchResult, 0)
	for i, found := range hits {
		for _, l := range found {
			results = append(results, domain.SearchResult{Category: uc.categories[i], Listing: l})
		}
	}

	outcome := metrics.OutcomeOK
	if len(failed) > 0 {
		outcome = metrics.OutcomePartial
		uc.logger.Warn("search returned partial results", zap.String("term", term), zap.Int("failed_categories", len(failed)), zap.Error(errors.Join(failed...)))
	}
	uc.metrics.SearchServed(outcome)
	span.SetAttributes(attribute.Int("search.results", len(results)))
	return results, nil
}
