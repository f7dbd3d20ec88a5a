package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ListingRepository stores each category in its own collection.
type ListingRepository struct {
	collections  map[domain.Category]*mongo.Collection
	queryTimeout time.Duration
	logger       *logger.Logger
}

func NewListingRepository(db *mongo.Database, queryTimeout time.Duration, log *logger.Logger) *ListingRepository {
	cols := make(map[domain.Category]*mongo.Collection, len(domain.AllCategories))
	for _, spec := range domain.Specs() {
		cols[spec.Category] = db.Collection(spec.Collection)
	}
	return &ListingRepository{
		collections:  cols,
		queryTimeout: queryTimeout,
		logger:       log.Named("ListingRepository"),
	}
}

func (r *ListingRepository) collection(c domain.Category) (*mongo.Collection, error) {
	col, ok := r.collections[c]
	if !ok {
		return nil, domain.ErrUnknownCategory
	}
	return col, nil
}

func (r *ListingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (string, error) {
	col, err := r.collection(l.Category)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}
	doc := fromDomainListing(l, primitive.NewObjectID())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := col.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.String("category", string(l.Category)), zap.Error(err))
		return "", fmt.Errorf("%w: db insert failed: %v", domain.ErrUpstream, err)
	}
	l.ID = doc.ID.Hex()
	return l.ID, nil
}

// Update replaces the whole document.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	col, err := r.collection(l.Category)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	doc := fromDomainListing(l, oid)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		r.logger.Error("Failed to replace listing", zap.String("listing_id", l.ID), zap.Error(err))
		return fmt.Errorf("%w: db replace failed: %v", domain.ErrUpstream, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete treats a missing or malformed id as already deleted.
func (r *ListingRepository) Delete(ctx context.Context, c domain.Category, id string) error {
	col, err := r.collection(c)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Debug("Delete with malformed id ignored", zap.String("listing_id", id))
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrUpstream, err)
	}
	r.logger.Debug("Delete served", zap.String("listing_id", id), zap.Int64("deleted", res.DeletedCount))
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, c domain.Category, id string) (*domain.Listing, error) {
	col, err := r.collection(c)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var doc listingDocument
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get listing by ID", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrUpstream, err)
	}
	return doc.toDomain(c), nil
}

// FindAll returns the collection in natural order.
func (r *ListingRepository) FindAll(ctx context.Context, c domain.Category) ([]*domain.Listing, error) {
	return r.find(ctx, c, bson.M{})
}

// Search runs a case-insensitive substring match of term over fields.
func (r *ListingRepository) Search(ctx context.Context, c domain.Category, term string, fields []string) ([]*domain.Listing, error) {
	if len(fields) == 0 {
		return []*domain.Listing{}, nil
	}
	return r.find(ctx, c, searchFilter(term, fields))
}

func (r *ListingRepository) find(ctx context.Context, c domain.Category, filter bson.M) ([]*domain.Listing, error) {
	col, err := r.collection(c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	cursor, err := col.Find(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to query listings", zap.String("category", string(c)), zap.Error(err))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrUpstream, err)
	}
	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor failed: %v", domain.ErrUpstream, err)
	}

	out := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain(c))
	}
	return out, nil
}

// searchFilter ORs an escaped, case-insensitive regex over each field.
// Canonical field paths equal the stored bson paths.
func searchFilter(term string, fields []string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}
