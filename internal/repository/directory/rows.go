package directory

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shoplocal/mechfinder/internal/domain"
)

// flexFloat tolerates numeric fields that arrive as JSON strings or null.
// The directory's RPC historically returned latitude, longitude and rating
// as strings in some deployments.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("numeric string %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// mechanicRow is the versioned boundary shape of one directory RPC row.
type mechanicRow struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	ShopName             string        `json:"shop_name"`
	Address              string        `json:"address"`
	Phone                string        `json:"phone"`
	Email                string        `json:"email"`
	Latitude             flexFloat     `json:"latitude"`
	Longitude            flexFloat     `json:"longitude"`
	Rating               flexFloat     `json:"rating"`
	TotalReviews         int           `json:"total_reviews"`
	ImageURL             string        `json:"image_url"`
	Description          string        `json:"description"`
	Specialties          []string      `json:"specialties"`
	DistanceKm           float64       `json:"distance_km"`
	BusinessStatus       string        `json:"business_status"`
	FormattedPhoneNumber string        `json:"formatted_phone_number"`
	Photos               []string      `json:"photos"`
	ServiceCategories    []categoryRow `json:"service_categories"`
}

func (r mechanicRow) toMechanic() domain.Mechanic {
	address := r.Address
	if address == "" {
		address = domain.PlaceholderAddress
	}

	specialties := r.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	var categories []domain.ServiceCategory
	for _, c := range r.ServiceCategories {
		categories = append(categories, c.toCategory())
	}

	return domain.Mechanic{
		ID:                   r.ID,
		Name:                 r.Name,
		ShopName:             r.ShopName,
		Address:              address,
		Phone:                r.Phone,
		Email:                r.Email,
		Latitude:             float64(r.Latitude),
		Longitude:            float64(r.Longitude),
		Rating:               float64(r.Rating),
		TotalReviews:         r.TotalReviews,
		ImageURL:             r.ImageURL,
		Description:          r.Description,
		Specialties:          specialties,
		DistanceKm:           r.DistanceKm,
		Source:               domain.SourceDirectory,
		BusinessStatus:       r.BusinessStatus,
		FormattedPhoneNumber: r.FormattedPhoneNumber,
		Photos:               r.Photos,
		ServiceCategories:    categories,
	}
}

// categoryRow is the boundary shape of one service_categories row.
type categoryRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	IconName    string `json:"icon_name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (r categoryRow) toCategory() domain.ServiceCategory {
	return domain.ServiceCategory{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		IconName:    r.IconName,
		Description: r.Description,
		SortOrder:   r.SortOrder,
	}
}
