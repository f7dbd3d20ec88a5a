package domain

import (
	"strings"
	"time"
)

// Category partitions listings by domain. Each category lives in its own collection.
type Category string

const (
	CategoryTaxi     Category = "taxi"
	CategoryBoarding Category = "boarding"
	CategoryRent     Category = "rent"
	CategoryShop     Category = "shop"
	CategoryMedicare Category = "medicare"
	CategorySkill    Category = "skill"
)

// MaxImages bounds the image sequence of a listing.
const MaxImages = 4

// ParseCategory maps a path segment onto the closed category set.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := specs[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// IsValid checks if the category is one of the defined constants.
func (c Category) IsValid() bool {
	_, ok := specs[c]
	return ok
}

// Listing is a single advertised item, service or unit within one category.
// Category-specific fields live in Attributes; the gender tag set lives in Tags.
type Listing struct {
	ID          string
	Category    Category
	OwnerID     string // user id of the creator; empty for anonymous submissions
	Title       string
	Location    string
	Contact     string
	Price       *float64 // nil means "no price"; 0 is a real price
	Description string
	Images      []string
	Attributes  map[string]string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Text resolves a canonical text field: title, location, description, contact
// or attributes.<key>.
func (l *Listing) Text(field string) string {
	switch field {
	case FieldTitle:
		return l.Title
	case FieldLocation:
		return l.Location
	case FieldDescription:
		return l.Description
	case FieldContact:
		return l.Contact
	}
	if key, ok := strings.CutPrefix(field, attributePrefix); ok {
		return l.Attributes[key]
	}
	return ""
}

// OwnedBy reports whether userID created the listing.
func (l *Listing) OwnedBy(userID string) bool {
	return l.OwnerID != "" && l.OwnerID == userID
}

// HasTag reports whether tag is in the listing's tag set, ignoring case.
func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SearchResult is one cross-category search hit, tagged with its originating category.
type SearchResult struct {
	Category Category
	Listing  *Listing
}

// Record is a raw textual submission keyed by category wire names.
// It has the shape of url.Values so multipart and JSON bodies decode into it alike.
type Record map[string][]string

// Get returns the first trimmed value for key, or "".
func (r Record) Get(key string) string {
	if vs := r[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Values returns every non-blank value for key.
func (r Record) Values(key string) []string {
	out := make([]string, 0, len(r[key]))
	for _, v := range r[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Canonical text fields of a listing document.
const (
	FieldTitle       = "title"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldContact     = "contact"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldImages      = "images"
	FieldGender      = "gender"

	attributePrefix = "attributes."
)

// AttributeField returns the canonical path of an attribute.
func AttributeField(key string) string {
	return attributePrefix + key
}
