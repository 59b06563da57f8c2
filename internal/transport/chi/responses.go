package chi

import (
	"github.com/shoplocal/mechfinder/internal/domain"
	searchuc "github.com/shoplocal/mechfinder/internal/usecase/search"
)

// mechanicJSON is the wire shape of one merged search record. Provider-only
// fields are omitted for directory records.
type mechanicJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ShopName     string   `json:"shop_name"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"total_reviews"`
	ImageURL     string   `json:"image_url,omitempty"`
	Description  string   `json:"description"`
	Specialties  []string `json:"specialties"`
	DistanceKm   float64  `json:"distance_km"`
	Source       string   `json:"source"`

	WebsiteURL           string       `json:"website_url,omitempty"`
	GooglePlaceID        string       `json:"google_place_id,omitempty"`
	BusinessStatus       string       `json:"business_status,omitempty"`
	FormattedPhoneNumber string       `json:"formatted_phone_number,omitempty"`
	Photos               []string     `json:"photos,omitempty"`
	Reviews              []reviewJSON `json:"reviews,omitempty"`

	ServiceCategories []categoryJSON `json:"service_categories"`
}

type reviewJSON struct {
	Author      string  `json:"author"`
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	PublishTime string  `json:"publish_time,omitempty"`
}

type categoryJSON struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	IconName    string `json:"icon_name,omitempty"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

type searchResponse struct {
	Mechanics []mechanicJSON    `json:"mechanics"`
	Sources   map[string]string `json:"sources"`
	Degraded  bool              `json:"degraded"`
}

type categoriesResponse struct {
	Categories []categoryJSON `json:"categories"`
}

func searchResponseFromResult(result searchuc.Result) searchResponse {
	mechanics := make([]mechanicJSON, len(result.Mechanics))
	for i, m := range result.Mechanics {
		mechanics[i] = mechanicToJSON(m)
	}

	sources := make(map[string]string, len(result.Sources))
	for src, status := range result.Sources {
		sources[string(src)] = string(status)
	}

	return searchResponse{
		Mechanics: mechanics,
		Sources:   sources,
		Degraded:  result.Degraded,
	}
}

func mechanicToJSON(m domain.Mechanic) mechanicJSON {
	specialties := m.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	categories := make([]categoryJSON, len(m.ServiceCategories))
	for i, c := range m.ServiceCategories {
		categories[i] = categoryToJSON(c)
	}

	reviews := make([]reviewJSON, 0, len(m.Reviews))
	for _, rv := range m.Reviews {
		reviews = append(reviews, reviewJSON{
			Author:      rv.Author,
			Rating:      rv.Rating,
			Text:        rv.Text,
			PublishTime: rv.PublishTime,
		})
	}
	if len(reviews) == 0 {
		reviews = nil
	}

	return mechanicJSON{
		ID:                   m.ID,
		Name:                 m.Name,
		ShopName:             m.ShopName,
		Address:              m.Address,
		Phone:                m.Phone,
		Email:                m.Email,
		Latitude:             m.Latitude,
		Longitude:            m.Longitude,
		Rating:               m.Rating,
		TotalReviews:         m.TotalReviews,
		ImageURL:             m.ImageURL,
		Description:          m.Description,
		Specialties:          specialties,
		DistanceKm:           m.DistanceKm,
		Source:               string(m.Source),
		WebsiteURL:           m.WebsiteURL,
		GooglePlaceID:        m.GooglePlaceID,
		BusinessStatus:       m.BusinessStatus,
		FormattedPhoneNumber: m.FormattedPhoneNumber,
		Photos:               m.Photos,
		Reviews:              reviews,
		ServiceCategories:    categories,
	}
}

func categoryToJSON(c domain.ServiceCategory) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		IconName:    c.IconName,
		Description: c.Description,
		SortOrder:   c.SortOrder,
	}
}
