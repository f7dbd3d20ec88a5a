package domain

import (
	"fmt"
	"strings"
)

// Query parameter names recognized by the filter layer.
const (
	PredicateLocation = "location"
	PredicateMaxPrice = "maxPrice"
	PredicateType     = "type"
	PredicateGender   = "gender"
)

// Predicates narrows a category's listings. A nil field places no constraint.
type Predicates struct {
	Location *string
	MaxPrice *float64
	Type     *string
	Gender   *string
}

// IsEmpty reports whether no predicate was supplied.
func (p Predicates) IsEmpty() bool {
	return p.Location == nil && p.MaxPrice == nil && p.Type == nil && p.Gender == nil
}

// ParsePredicates reads predicates from query values. A key sent with a blank
// value is treated as absent, so ?location=&maxPrice= lists everything, while
// maxPrice=0 is still a real constraint.
func ParsePredicates(q map[string][]string) (Predicates, error) {
	var p Predicates
	if v, ok := queryValue(q, PredicateLocation); ok {
		p.Location = &v
	}
	if v, ok := queryValue(q, PredicateMaxPrice); ok {
		f, ok := parseNumber(v)
		if !ok {
			return Predicates{}, &ValidationError{Fields: FieldErrors{{Field: PredicateMaxPrice, Message: "must be a number"}}}
		}
		p.MaxPrice = &f
	}
	if v, ok := queryValue(q, PredicateType); ok {
		p.Type = &v
	}
	if v, ok := queryValue(q, PredicateGender); ok {
		v = strings.ToLower(v)
		p.Gender = &v
	}
	return p, nil
}

// queryValue returns the first trimmed value of key, reporting false when it is missing or blank.
func queryValue(q map[string][]string, key string) (string, bool) {
	vs := q[key]
	if len(vs) == 0 {
		return "", false
	}
	v := strings.TrimSpace(vs[0])
	return v, v != ""
}

// Supports checks that every supplied predicate applies to the category.
func (s CategorySpec) Supports(p Predicates) error {
	if p.Type != nil && s.TypeAttribute == "" {
		return fmt.Errorf("%w: %q for category %s", ErrUnsupportedPredicate, PredicateType, s.Category)
	}
	if p.Gender != nil && !s.UsesTags() {
		return fmt.Errorf("%w: %q for category %s", ErrUnsupportedPredicate, PredicateGender, s.Category)
	}
	return nil
}

// Matches reports whether l passes every supplied predicate.
func (s CategorySpec) Matches(l *Listing, p Predicates) bool {
	if p.Location != nil && !containsFold(l.Location, *p.Location) {
		return false
	}
	if p.MaxPrice != nil && (l.Price == nil || *l.Price > *p.MaxPrice) {
		return false
	}
	if p.Type != nil {
		v := l.Attributes[s.TypeAttribute]
		if a, ok := s.Attribute(s.TypeAttribute); ok && a.IsEnum() {
			if !strings.EqualFold(v, *p.Type) {
				return false
			}
		} else if !containsFold(v, *p.Type) {
			return false
		}
	}
	if p.Gender != nil && !l.HasTag(*p.Gender) {
		return false
	}
	return true
}

// Filter returns the listings matching p in their original order.
func Filter(s CategorySpec, listings []*Listing, p Predicates) ([]*Listing, error) {
	if err := s.Supports(p); err != nil {
		return nil, err
	}
	out := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if s.Matches(l, p) {
			out = append(out, l)
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
