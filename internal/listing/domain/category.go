package domain

// AttributeSpec declares one category-specific field.
type AttributeSpec struct {
	Key      string   `json:"key"`
	Required bool     `json:"required"`
	Numeric  bool     `json:"numeric,omitempty"`
	Allowed  []string `json:"allowed,omitempty"` // closed enumeration when non-empty
}

// IsEnum reports whether the attribute only accepts a closed set of values.
func (a AttributeSpec) IsEnum() bool {
	return len(a.Allowed) > 0
}

// CategorySpec is the validation and query contract of a category.
// Title and location are stored canonically but submitted under category wire names.
type CategorySpec struct {
	Category        Category        `json:"category"`
	Collection      string          `json:"-"`
	TitleField      string          `json:"titleField"`
	LocationField   string          `json:"locationField"`
	RequireLocation bool            `json:"requireLocation"`
	RequirePrice    bool            `json:"requirePrice"`
	Attributes      []AttributeSpec `json:"attributes"`
	Genders         []string        `json:"genders,omitempty"`       // allowed tags; empty means tags unused
	TypeAttribute   string          `json:"typeAttribute,omitempty"` // attribute matched by the type filter
	SearchFields    []string        `json:"-"`                       // canonical text fields used by search
}

// Attribute looks up an attribute declaration by key.
func (s CategorySpec) Attribute(key string) (AttributeSpec, bool) {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a, true
		}
	}
	return AttributeSpec{}, false
}

// UsesTags reports whether the category carries a gender tag set.
func (s CategorySpec) UsesTags() bool {
	return len(s.Genders) > 0
}

// Searchable reports whether the category can take part in cross-category search.
func (s CategorySpec) Searchable() bool {
	return len(s.SearchFields) > 0
}

var genders = []string{"male", "female", "any"}

// AllCategories lists the closed category set in display order.
var AllCategories = []Category{
	CategoryTaxi,
	CategoryBoarding,
	CategoryRent,
	CategoryShop,
	CategoryMedicare,
	CategorySkill,
}

// DefaultSearchCategories are the categories wired into cross-category search by default.
var DefaultSearchCategories = []Category{CategorySkill, CategoryBoarding, CategoryRent}

var specs = map[Category]CategorySpec{
	CategoryTaxi: {
		Category:        CategoryTaxi,
		Collection:      "taxis",
		TitleField:      "driverName",
		LocationField:   "location",
		RequireLocation: true,
		Attributes: []AttributeSpec{
			{Key: "vehicleType", Required: true, Allowed: []string{"car", "van", "threewheeler", "bike"}},
		},
		TypeAttribute: "vehicleType",
		SearchFields:  []string{FieldTitle, FieldLocation},
	},
	CategoryBoarding: {
		Category:        CategoryBoarding,
		Collection:      "boardings",
		TitleField:      "name",
		LocationField:   "location",
		RequireLocation: true,
		RequirePrice:    true,
		Attributes: []AttributeSpec{
			{Key: "rooms", Numeric: true},
			{Key: "baths", Numeric: true},
		},
		Genders:      genders,
		SearchFields: []string{FieldLocation, FieldDescription},
	},
	CategoryRent: {
		Category:      CategoryRent,
		Collection:    "rents",
		TitleField:    "title",
		LocationField: "location",
		RequirePrice:  true,
		Attributes: []AttributeSpec{
			{Key: "itemType"},
		},
		TypeAttribute: "itemType",
		SearchFields:  []string{FieldTitle, FieldDescription},
	},
	CategoryShop: {
		Category:        CategoryShop,
		Collection:      "shops",
		TitleField:      "name",
		LocationField:   "address",
		RequireLocation: true,
		Attributes: []AttributeSpec{
			{Key: "shopType"},
		},
		TypeAttribute: "shopType",
	},
	CategoryMedicare: {
		Category:        CategoryMedicare,
		Collection:      "medicares",
		TitleField:      "name",
		LocationField:   "address",
		RequireLocation: true,
		Attributes: []AttributeSpec{
			{Key: "openHours"},
		},
	},
	CategorySkill: {
		Category:      CategorySkill,
		Collection:    "skills",
		TitleField:    "name",
		LocationField: "location",
		Attributes: []AttributeSpec{
			{Key: "skillType", Required: true, Allowed: []string{"tutoring", "programming", "design", "music", "language", "other"}},
			{Key: "experience", Allowed: []string{"beginner", "intermediate", "expert"}},
		},
		TypeAttribute: "skillType",
		SearchFields:  []string{AttributeField("skillType"), FieldTitle},
	},
}

// SpecFor returns the contract of a category.
func SpecFor(c Category) (CategorySpec, error) {
	s, ok := specs[c]
	if !ok {
		return CategorySpec{}, ErrUnknownCategory
	}
	return s, nil
}

// Specs returns every category contract in display order.
func Specs() []CategorySpec {
	out := make([]CategorySpec, 0, len(AllCategories))
	for _, c := range AllCategories {
		out = append(out, specs[c])
	}
	return out
}
