package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ListingDeps are the optional collaborators of ListingUsecase.
// Nil members are replaced with implementations that do nothing,
// except Storage, which then fails every upload.
type ListingDeps struct {
	Storage  ImageStorage
	Cache    ListingCache
	Events   EventPublisher
	Notifier Notifier
	Metrics  Recorder
}

type ListingUsecase struct {
	repo     domain.ListingRepository
	storage  ImageStorage
	cache    ListingCache
	events   EventPublisher
	notifier Notifier
	metrics  Recorder
	logger   *logger.Logger
	tracer   trace.Tracer
}

func NewListingUsecase(repo domain.ListingRepository, deps ListingDeps, log *logger.Logger) *ListingUsecase {
	uc := &ListingUsecase{
		repo:     repo,
		storage:  deps.Storage,
		cache:    deps.Cache,
		events:   deps.Events,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   log.Named("listing_usecase"),
		tracer:   otel.Tracer("marketplace/listing"),
	}
	if uc.storage == nil {
		uc.storage = noStorage{}
	}
	if uc.cache == nil {
		uc.cache = noCache{}
	}
	if uc.events == nil {
		uc.events = noPublisher{}
	}
	if uc.notifier == nil {
		uc.notifier = noNotifier{}
	}
	if uc.metrics == nil {
		uc.metrics = noRecorder{}
	}
	return uc
}

// Categories returns the form contract of every category.
func (uc *ListingUsecase) Categories() []domain.CategorySpec {
	return domain.Specs()
}

// ValidateListing runs the shared validation contract without touching any store.
// uploads is the number of files submitted with the record.
func (uc *ListingUsecase) ValidateListing(category domain.Category, record domain.Record, uploads int) (domain.FieldErrors, error) {
	return domain.Validate(category, record, uploads)
}

// CreateListing validates the record, uploads images, then persists the listing
// owned by actor. Nothing is written when an upload fails.
func (uc *ListingUsecase) CreateListing(ctx context.Context, actor Actor, category domain.Category, record domain.Record, uploads []Upload) (*domain.Listing, error) {
	ctx, span := uc.startSpan(ctx, "ListingUsecase.CreateListing", category)
	defer span.End()

	listing, err := domain.Build(category, record, len(uploads))
	if err != nil {
		uc.logger.Debug("rejected listing", zap.String("category", string(category)), zap.Error(err))
		return nil, spanError(span, err)
	}
	listing.OwnerID = actor.UserID
	if err := uc.attachImages(ctx, listing, uploads); err != nil {
		return nil, spanError(span, err)
	}

	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		uc.logger.Error("failed to create listing", zap.String("category", string(category)), zap.Error(err))
		return nil, spanError(span, err)
	}
	listing.ID = id
	span.SetAttributes(attribute.String("listing.id", id))

	uc.metrics.ListingCreated(string(category))
	uc.remember(ctx, listing)
	uc.publish(ctx, SubjectListingCreated, listing)
	if err := uc.notifier.NotifyListingCreated(ctx, listing); err != nil {
		uc.logger.Warn("admin notification failed", zap.String("listing_id", id), zap.Error(err))
	}

	uc.logger.Info("listing created", zap.String("category", string(category)), zap.String("listing_id", id))
	return listing, nil
}

// UpdateListing replaces a stored listing with the submitted record.
// Only the owner or an admin may replace it; anonymous listings are admin-only.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, actor Actor, category domain.Category, id string, record domain.Record, uploads []Upload) (*domain.Listing, error) {
	ctx, span := uc.startSpan(ctx, "ListingUsecase.UpdateListing", category)
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id))

	listing, err := domain.Build(category, record, len(uploads))
	if err != nil {
		return nil, spanError(span, err)
	}
	existing, err := uc.repo.FindByID(ctx, category, id)
	if err != nil {
		return nil, spanError(span, err)
	}
	if !actor.CanModify(existing) {
		uc.logger.Warn("forbidden listing update",
			zap.String("listing_id", id), zap.String("owner_id", existing.OwnerID), zap.String("user_id", actor.UserID))
		return nil, spanError(span, domain.ErrForbidden)
	}
	if err := uc.attachImages(ctx, listing, uploads); err != nil {
		return nil, spanError(span, err)
	}

	listing.ID = existing.ID
	listing.OwnerID = existing.OwnerID
	listing.CreatedAt = existing.CreatedAt
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("failed to update listing", zap.String("category", string(category)), zap.String("listing_id", id), zap.Error(err))
		return nil, spanError(span, err)
	}

	uc.metrics.ListingUpdated(string(category))
	uc.remember(ctx, listing)
	uc.publish(ctx, SubjectListingUpdated, listing)
	uc.logger.Info("listing updated", zap.String("category", string(category)), zap.String("listing_id", id))
	return listing, nil
}

// DeleteListing removes a listing. Deleting an id that does not exist succeeds.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, category domain.Category, id string) error {
	ctx, span := uc.startSpan(ctx, "ListingUsecase.DeleteListing", category)
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id))

	if _, err := domain.SpecFor(category); err != nil {
		return spanError(span, err)
	}
	if err := uc.repo.Delete(ctx, category, id); err != nil {
		uc.logger.Error("failed to delete listing", zap.String("category", string(category)), zap.String("listing_id", id), zap.Error(err))
		return spanError(span, err)
	}
	if err := uc.cache.DeleteListing(ctx, category, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}

	uc.metrics.ListingDeleted(string(category))
	uc.publish(ctx, SubjectListingDeleted, &domain.Listing{ID: id, Category: category})
	return nil
}

// GetListing reads through the cache.
func (uc *ListingUsecase) GetListing(ctx context.Context, category domain.Category, id string) (*domain.Listing, error) {
	ctx, span := uc.startSpan(ctx, "ListingUsecase.GetListing", category)
	defer span.End()

	if _, err := domain.SpecFor(category); err != nil {
		return nil, spanError(span, err)
	}
	cached, err := uc.cache.GetListing(ctx, category, id)
	if err != nil {
		uc.logger.Warn("cache read failed", zap.String("listing_id", id), zap.Error(err))
	}
	if cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, category, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("failed to get listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, spanError(span, err)
	}
	uc.remember(ctx, listing)
	return listing, nil
}

// ListListings returns the full category in store order.
func (uc *ListingUsecase) ListListings(ctx context.Context, category domain.Category) ([]*domain.Listing, error) {
	return uc.FilterListings(ctx, category, domain.Predicates{})
}

// FilterListings returns the listings that satisfy every supplied predicate.
// Unsupported predicates are rejected before the store is queried.
func (uc *ListingUsecase) FilterListings(ctx context.Context, category domain.Category, p domain.Predicates) ([]*domain.Listing, error) {
	ctx, span := uc.startSpan(ctx, "ListingUsecase.FilterListings", category)
	defer span.End()

	spec, err := domain.SpecFor(category)
	if err != nil {
		return nil, spanError(span, err)
	}
	if err := spec.Supports(p); err != nil {
		return nil, spanError(span, err)
	}

	all, err := uc.repo.FindAll(ctx, category)
	if err != nil {
		uc.logger.Error("failed to list listings", zap.String("category", string(category)), zap.Error(err))
		return nil, spanError(span, err)
	}
	if p.IsEmpty() {
		return all, nil
	}
	out, err := domain.Filter(spec, all, p)
	if err != nil {
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.Int("listings.matched", len(out)), attribute.Int("listings.total", len(all)))
	return out, nil
}

func (uc *ListingUsecase) attachImages(ctx context.Context, l *domain.Listing, uploads []Upload) error {
	for _, u := range uploads {
		url, err := uc.storage.Upload(ctx, u)
		if err != nil {
			uc.logger.Error("image upload failed", zap.String("file", u.Name), zap.Error(err))
			if errors.Is(err, domain.ErrUpstream) {
				return err
			}
			return fmt.Errorf("%w: image upload: %v", domain.ErrUpstream, err)
		}
		l.Images = append(l.Images, url)
	}
	return nil
}

func (uc *ListingUsecase) remember(ctx context.Context, l *domain.Listing) {
	if err := uc.cache.SetListing(ctx, l); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", l.ID), zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, l *domain.Listing) {
	evt := ListingEvent{ID: l.ID, Category: l.Category, Title: l.Title}
	if err := uc.events.Publish(ctx, subject, evt); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", subject), zap.String("listing_id", l.ID), zap.Error(err))
	}
}

func (uc *ListingUsecase) startSpan(ctx context.Context, name string, category domain.Category) (context.Context, trace.Span) {
	return uc.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("listing.category", string(category))))
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
