package domain

import "context"

// ListingRepository is the category-scoped entity store.
type ListingRepository interface {
	// Create persists l, assigns l.ID and returns it.
	Create(ctx context.Context, l *Listing) (string, error)
	// Update replaces the stored document; ErrNotFound when absent.
	Update(ctx context.Context, l *Listing) error
	// Delete is idempotent.
	Delete(ctx context.Context, category Category, id string) error
	FindByID(ctx context.Context, category Category, id string) (*Listing, error)
	// FindAll returns every listing of the category in store-native order.
	FindAll(ctx context.Context, category Category) ([]*Listing, error)
	// Search matches term case-insensitively as a substring of any of fields.
	Search(ctx context.Context, category Category, term string, fields []string) ([]*Listing, error)
}
