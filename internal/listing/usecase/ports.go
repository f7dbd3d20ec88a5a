package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
)

// Subjects of listing lifecycle events.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// Actor is the caller of a write. A zero Actor is an anonymous submitter.
type Actor struct {
	UserID string
	Admin  bool
}

// CanModify reports whether the actor may replace l.
func (a Actor) CanModify(l *domain.Listing) bool {
	return a.Admin || l.OwnedBy(a.UserID)
}

// Upload is one image file attached to a create or update request.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageStorage stores an image and returns its public URL.
type ImageStorage interface {
	Upload(ctx context.Context, u Upload) (string, error)
}

// ListingCache is a read-through cache for detail lookups. A miss is (nil, nil).
type ListingCache interface {
	GetListing(ctx context.Context, category domain.Category, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, l *domain.Listing) error
	DeleteListing(ctx context.Context, category domain.Category, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Notifier tells the admin console about new listings.
type Notifier interface {
	NotifyListingCreated(ctx context.Context, l *domain.Listing) error
}

// Recorder receives business metrics.
type Recorder interface {
	ListingCreated(category string)
	ListingUpdated(category string)
	ListingDeleted(category string)
	SearchServed(outcome string)
}

// ListingEvent is the payload of every listing lifecycle event.
type ListingEvent struct {
	ID       string          `json:"id"`
	Category domain.Category `json:"category"`
	Title    string          `json:"title,omitempty"`
}

type noStorage struct{}

func (noStorage) Upload(context.Context, Upload) (string, error) {
	return "", fmt.Errorf("%w: image storage is not configured", domain.ErrUpstream)
}

type noCache struct{}

func (noCache) GetListing(context.Context, domain.Category, string) (*domain.Listing, error) {
	return nil, nil
}
func (noCache) SetListing(context.Context, *domain.Listing) error              { return nil }
func (noCache) DeleteListing(context.Context, domain.Category, string) error { return nil }

type noPublisher struct{}

func (noPublisher) Publish(context.Context, string, interface{}) error { return nil }

type noNotifier struct{}

func (noNotifier) NotifyListingCreated(context.Context, *domain.Listing) error { return nil }

type noRecorder struct{}

func (noRecorder) ListingCreated(string) {}
func (noRecorder) ListingUpdated(string) {}
func (noRecorder) ListingDeleted(string) {}
func (noRecorder) SearchServed(string)   {}
