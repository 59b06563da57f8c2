package domain

// Source identifies which backend produced a mechanic record.
type Source string

const (
	// SourceDirectory marks records returned by the first-party directory.
	SourceDirectory Source = "directory"
	// SourceGooglePlaces marks records discovered via the Google Places API.
	SourceGooglePlaces Source = "google_places"
)

// GooglePlaceIDPrefix is prepended to provider record IDs so they can never
// collide with directory IDs in a merged result.
const GooglePlaceIDPrefix = "google_"

// Placeholder values used when an upstream field is absent. Address and
// phone are never left empty on a returned record.
const (
	PlaceholderAddress     = "Address not available"
	PlaceholderPhone       = "Call for details"
	PlaceholderDescription = "Professional automotive services"
)

// Review is a provider review passed through unmodified.
type Review struct {
	Author      string
	Rating      float64
	Text        string
	PublishTime string
}

// Mechanic is the unified, source-tagged representation of a repair business.
// Instances are built fresh per search request and never mutated afterwards.
type Mechanic struct {
	ID           string
	Name         string
	ShopName     string
	Address      string
	Phone        string
	Email        string
	Latitude     float64
	Longitude    float64
	Rating       float64
	TotalReviews int
	ImageURL     string
	Description  string
	Specialties  []string
	DistanceKm   float64
	Source       Source

	// Provider-only fields; zero-valued for directory records.
	WebsiteURL           string
	GooglePlaceID        string
	BusinessStatus       string
	FormattedPhoneNumber string
	Photos               []string
	Reviews              []Review

	ServiceCategories []ServiceCategory
}

// HasCategory reports whether the record carries a service category with the
// given slug.
func (m Mechanic) HasCategory(slug string) bool {
	for _, c := range m.ServiceCategories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
