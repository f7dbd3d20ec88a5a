package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(p float64) *float64 { return &p }
func str(s string) *string     { return &s }

func taxis() []*Listing {
	return []*Listing{
		{ID: "1", Title: "Kasun", Location: "Wakwella", Price: price(50), Attributes: map[string]string{"vehicleType": "car"}},
		{ID: "2", Title: "Nimal", Location: "Galle Fort", Price: price(0), Attributes: map[string]string{"vehicleType": "threewheeler"}},
		{ID: "3", Title: "Sunil", Location: "wakwella junction", Attributes: map[string]string{"vehicleType": "van"}},
		{ID: "4", Title: "Amal", Location: "Matara", Price: price(120), Attributes: map[string]string{"vehicleType": "car"}},
	}
}

func ids(ls []*Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func taxiSpec(t *testing.T) CategorySpec {
	s, err := SpecFor(CategoryTaxi)
	require.NoError(t, err)
	return s
}

func TestFilter_EmptyPredicatesKeepEverythingInOrder(t *testing.T) {
	all := taxis()
	out, err := Filter(taxiSpec(t), all, Predicates{})
	require.NoError(t, err)
	assert.Equal(t, all, out)
}

func TestFilter_Location(t *testing.T) {
	out, err := Filter(taxiSpec(t), taxis(), Predicates{Location: str("WAK")})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(out))
}

func TestFilter_MaxPrice(t *testing.T) {
	out, _ := Filter(taxiSpec(t), taxis(), Predicates{MaxPrice: price(60)})
	assert.Equal(t, []string{"1", "2"}, ids(out), "listings without a price are excluded")

	out, _ = Filter(taxiSpec(t), taxis(), Predicates{MaxPrice: price(0)})
	assert.Equal(t, []string{"2"}, ids(out), "maxPrice 0 only matches free listings")
}

func TestFilter_TypeEnumIsExact(t *testing.T) {
	out, _ := Filter(taxiSpec(t), taxis(), Predicates{Type: str("Car")})
	assert.Equal(t, []string{"1", "4"}, ids(out))

	out, _ = Filter(taxiSpec(t), taxis(), Predicates{Type: str("ca")})
	assert.Empty(t, out)
}

func TestFilter_TypeFreeTextIsSubstring(t *testing.T) {
	spec, _ := SpecFor(CategoryRent)
	rents := []*Listing{
		{ID: "a", Attributes: map[string]string{"itemType": "Mountain bicycle"}},
		{ID: "b", Attributes: map[string]string{"itemType": "Laptop"}},
		{ID: "c"},
	}
	out, err := Filter(spec, rents, Predicates{Type: str("bicycle")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(out))
}

func TestFilter_Gender(t *testing.T) {
	spec, _ := SpecFor(CategoryBoarding)
	boardings := []*Listing{
		{ID: "a", Tags: []string{"male"}},
		{ID: "b", Tags: []string{"female", "any"}},
		{ID: "c"},
	}
	out, err := Filter(spec, boardings, Predicates{Gender: str("female")})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(out))
}

func TestFilter_UnsupportedPredicate(t *testing.T) {
	_, err := Filter(taxiSpec(t), taxis(), Predicates{Gender: str("male")})
	assert.ErrorIs(t, err, ErrUnsupportedPredicate)

	medicare, _ := SpecFor(CategoryMedicare)
	_, err = Filter(medicare, nil, Predicates{Type: str("clinic")})
	assert.ErrorIs(t, err, ErrUnsupportedPredicate)
}

func TestFilter_MorePredicatesNarrowTheResult(t *testing.T) {
	spec := taxiSpec(t)
	sets := []Predicates{
		{},
		{Location: str("wak")},
		{Location: str("wak"), MaxPrice: price(60)},
		{Location: str("wak"), MaxPrice: price(60), Type: str("car")},
	}
	prev := taxis()
	for _, p := range sets {
		out, err := Filter(spec, taxis(), p)
		require.NoError(t, err)
		assert.Subset(t, ids(prev), ids(out))
		prev = out
	}
	assert.Equal(t, []string{"1"}, ids(prev))
}

func TestParsePredicates(t *testing.T) {
	p, err := ParsePredicates(map[string][]string{
		"location": {" wak "},
		"maxPrice": {"0"},
		"type":     {"car"},
		"gender":   {"Female"},
		"ignored":  {"x"},
	})
	require.NoError(t, err)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, 0.0, *p.MaxPrice)
	assert.Equal(t, "wak", *p.Location)
	assert.Equal(t, "car", *p.Type)
	assert.Equal(t, "female", *p.Gender)

	p, err = ParsePredicates(map[string][]string{})
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	_, err = ParsePredicates(map[string][]string{"maxPrice": {"cheap"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParsePredicates_BlankValuesAreAbsent(t *testing.T) {
	p, err := ParsePredicates(map[string][]string{
		"location": {""},
		"maxPrice": {"  "},
		"type":     {""},
		"gender":   {""},
	})
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	spec, err := SpecFor(CategoryMedicare)
	require.NoError(t, err)
	assert.NoError(t, spec.Supports(p))

	taxi, err := SpecFor(CategoryTaxi)
	require.NoError(t, err)
	listings := []*Listing{
		{Title: "Kasun", Location: "Wakwella", Attributes: map[string]string{"vehicleType": "car"}},
		{Title: "Nimal", Location: "Galle", Attributes: map[string]string{"vehicleType": "van"}},
	}
	got, err := Filter(taxi, listings, p)
	require.NoError(t, err)
	assert.Equal(t, listings, got)
}
