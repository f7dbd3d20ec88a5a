package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Validate checks a raw record against the contract of its category.
// uploads counts files sent alongside the record toward the image limit.
// The returned error is non-nil only for an unknown category.
func Validate(c Category, r Record, uploads int) (FieldErrors, error) {
	spec, err := SpecFor(c)
	if err != nil {
		return nil, err
	}
	return spec.validate(r, uploads), nil
}

// Build validates a record and coerces it into a Listing.
// uploads is the number of images that will be attached after upload.
func Build(c Category, r Record, uploads int) (*Listing, error) {
	spec, err := SpecFor(c)
	if err != nil {
		return nil, err
	}
	if err := NewValidationError(spec.validate(r, uploads)); err != nil {
		return nil, err
	}

	l := &Listing{
		Category:    c,
		Title:       r.Get(spec.TitleField),
		Location:    r.Get(spec.LocationField),
		Contact:     r.Get(FieldContact),
		Description: r.Get(FieldDescription),
		Images:      imageValues(r),
		Attributes:  make(map[string]string, len(spec.Attributes)),
		Tags:        []string{},
	}
	if raw := r.Get(FieldPrice); raw != "" {
		p, _ := strconv.ParseFloat(raw, 64)
		l.Price = &p
	}
	for _, a := range spec.Attributes {
		v := r.Get(a.Key)
		if v == "" {
			continue
		}
		if a.IsEnum() {
			v = strings.ToLower(v)
		}
		l.Attributes[a.Key] = v
	}
	if spec.UsesTags() {
		for _, g := range genderValues(r) {
			if !l.HasTag(g) {
				l.Tags = append(l.Tags, g)
			}
		}
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	return l, nil
}

func (s CategorySpec) validate(r Record, uploads int) FieldErrors {
	var fe FieldErrors

	if r.Get(s.TitleField) == "" {
		fe = fe.add(s.TitleField, "is required")
	}
	if s.RequireLocation && r.Get(s.LocationField) == "" {
		fe = fe.add(s.LocationField, "is required")
	}
	if r.Get(FieldContact) == "" {
		fe = fe.add(FieldContact, "is required")
	}

	switch raw := r.Get(FieldPrice); {
	case raw == "" && s.RequirePrice:
		fe = fe.add(FieldPrice, "is required")
	case raw != "":
		if p, ok := parseNumber(raw); !ok {
			fe = fe.add(FieldPrice, "must be a number")
		} else if p < 0 {
			fe = fe.add(FieldPrice, "must not be negative")
		}
	}

	for _, a := range s.Attributes {
		v := r.Get(a.Key)
		if v == "" {
			if a.Required {
				fe = fe.add(a.Key, "is required")
			}
			continue
		}
		if a.Numeric {
			if n, ok := parseNumber(v); !ok {
				fe = fe.add(a.Key, "must be a number")
			} else if n < 0 {
				fe = fe.add(a.Key, "must not be negative")
			}
		}
		if a.IsEnum() && !oneOf(v, a.Allowed) {
			fe = fe.add(a.Key, "must be one of "+strings.Join(a.Allowed, ", "))
		}
	}

	if s.UsesTags() {
		for _, g := range genderValues(r) {
			if !oneOf(g, s.Genders) {
				fe = fe.add(FieldGender, "must be one of "+strings.Join(s.Genders, ", "))
				break
			}
		}
	}

	if n := len(imageValues(r)) + uploads; n > MaxImages {
		fe = fe.add(FieldImages, "at most "+strconv.Itoa(MaxImages)+" images are allowed")
	}
	return fe
}

// imageValues collects image URLs submitted under either "image" or "images".
func imageValues(r Record) []string {
	out := append([]string{}, r.Values(FieldImage)...)
	return append(out, r.Values(FieldImages)...)
}

// genderValues accepts repeated values as well as a comma-separated list.
func genderValues(r Record) []string {
	var out []string
	for _, v := range r.Values(FieldGender) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
