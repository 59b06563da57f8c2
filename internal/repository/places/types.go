package places

import "errors"

// Request and response boundary types for the Places API (New) searchText
// endpoint. The provider's schema has drifted across versions; keeping the
// mapping here means drift fails loudly at this boundary instead of leaking
// half-populated records inward.

type searchRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	TextQuery           string              `json:"textQuery"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID                  string        `json:"id"`
	DisplayName         localizedText `json:"displayName"`
	FormattedAddress    string        `json:"formattedAddress"`
	Location            latLng        `json:"location"`
	Rating              float64       `json:"rating"`
	UserRatingCount     int           `json:"userRatingCount"`
	Types               []string      `json:"types"`
	WebsiteURI          string        `json:"websiteUri"`
	NationalPhoneNumber string        `json:"nationalPhoneNumber"`
	BusinessStatus      string        `json:"businessStatus"`
	Photos              []photo       `json:"photos"`
	Reviews             []review      `json:"reviews"`
}

type localizedText struct {
	Text string `json:"text"`
}

type photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
}

type review struct {
	Name              string        `json:"name"`
	Rating            float64       `json:"rating"`
	Text              localizedText `json:"text"`
	AuthorAttribution attribution   `json:"authorAttribution"`
	PublishTime       string        `json:"publishTime"`
}

type attribution struct {
	DisplayName string `json:"displayName"`
}

// validate checks the fields every downstream consumer relies on. A missing
// id or display name means the response shape has drifted.
func (p place) validate() error {
	if p.ID == "" {
		return errors.New("missing place id")
	}
	if p.DisplayName.Text == "" {
		return errors.New("missing display name")
	}
	return nil
}
