package rest

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
)

// listingView renders a listing under the wire names of its category, so a
// fetched item has the same shape as the record that created it.
func listingView(l *domain.Listing) map[string]interface{} {
	spec, err := domain.SpecFor(l.Category)
	if err != nil {
		spec = domain.CategorySpec{TitleField: domain.FieldTitle, LocationField: domain.FieldLocation}
	}

	v := map[string]interface{}{
		"id":                l.ID,
		"category":          l.Category,
		spec.TitleField:     l.Title,
		domain.FieldContact: l.Contact,
		domain.FieldImages:  nonNil(l.Images),
	}
	if l.OwnerID != "" {
		v["ownerId"] = l.OwnerID
	}
	if l.Location != "" || spec.RequireLocation {
		v[spec.LocationField] = l.Location
	}
	if l.Price != nil {
		v[domain.FieldPrice] = *l.Price
	}
	if l.Description != "" {
		v[domain.FieldDescription] = l.Description
	}
	for k, a := range l.Attributes {
		v[k] = a
	}
	if spec.UsesTags() {
		v[domain.FieldGender] = nonNil(l.Tags)
	}
	if !l.CreatedAt.IsZero() {
		v["createdAt"] = l.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !l.UpdatedAt.IsZero() {
		v["updatedAt"] = l.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func listingViews(ls []*domain.Listing) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingView(l))
	}
	return out
}

// searchViews keeps the originating category on every hit.
func searchViews(results []domain.SearchResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		v := listingView(r.Listing)
		v["category"] = r.Category
		out = append(out, v)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
