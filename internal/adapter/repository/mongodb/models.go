package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the stored shape shared by every category collection.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Category    string             `bson:"category"`
	OwnerID     string             `bson:"owner_id,omitempty"`
	Title       string             `bson:"title"`
	Location    string             `bson:"location,omitempty"`
	Contact     string             `bson:"contact"`
	Price       *float64           `bson:"price,omitempty"`
	Description string             `bson:"description,omitempty"`
	Images      []string           `bson:"images"`
	Attributes  map[string]string  `bson:"attributes,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func fromDomainListing(l *domain.Listing, id primitive.ObjectID) *listingDocument {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &listingDocument{
		ID:          id,
		Category:    string(l.Category),
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Location:    l.Location,
		Contact:     l.Contact,
		Price:       l.Price,
		Description: l.Description,
		Images:      images,
		Attributes:  l.Attributes,
		Tags:        l.Tags,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (d *listingDocument) toDomain(c domain.Category) *domain.Listing {
	l := &domain.Listing{
		ID:          d.ID.Hex(),
		Category:    c,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Location:    d.Location,
		Contact:     d.Contact,
		Price:       d.Price,
		Description: d.Description,
		Images:      d.Images,
		Attributes:  d.Attributes,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Attributes == nil {
		l.Attributes = map[string]string{}
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l
}
