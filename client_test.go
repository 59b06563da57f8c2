package mechfinder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shoplocal/mechfinder/internal/domain"
)

func fakeDirectory(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/rpc/get_nearby_mechanics_public", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "d1", "name": "Joe's Garage", "shop_name": "Joe's Garage",
				"address": "123 Main St", "phone": "555-0100",
				"latitude": 49.28, "longitude": -123.12,
				"rating": 4.5, "total_reviews": 12,
				"specialties": ["brakes"], "distance_km": 3.2,
				"service_categories": [{"id": "c1", "name": "Brake Service", "slug": "brakes"}]
			}
		]`))
	})
	mux.HandleFunc("/rest/v1/service_categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "c1", "name": "Brake Service", "slug": "brakes", "icon_name": "disc", "sort_order": 1}
		]`))
	})
	return httptest.NewServer(mux)
}

func fakePlaces(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/places:searchText" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"places": [
				{
					"id": "abc123",
					"displayName": {"text": "Indie Auto Works"},
					"formattedAddress": "456 Oak Ave",
					"location": {"latitude": 49.281, "longitude": -123.121},
					"rating": 4.8, "userRatingCount": 33
				}
			]
		}`))
	}))
}

func TestClient_SearchNearby(t *testing.T) {
	directory := fakeDirectory(t)
	defer directory.Close()
	places := fakePlaces(t)
	defer places.Close()

	client, err := New(
		WithDirectory(directory.URL, "test-key"),
		WithPlacesAPIKey("places-key"),
		WithPlacesBaseURL(places.URL),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := client.SearchNearby(context.Background(), 49.28, -123.12)
	if err != nil {
		t.Fatalf("SearchNearby failed: %v", err)
	}

	if len(result.Mechanics) != 2 {
		t.Fatalf("expected 2 mechanics, got %d", len(result.Mechanics))
	}
	if result.Degraded {
		t.Error("expected degraded=false with both sources up")
	}
	// Provider record is ~100 m away, directory record 3.2 km.
	if result.Mechanics[0].ID != domain.GooglePlaceIDPrefix+"abc123" {
		t.Errorf("expected provider record first, got %s", result.Mechanics[0].ID)
	}
	if result.Mechanics[1].Source != domain.SourceDirectory {
		t.Errorf("expected directory record second, got %s", result.Mechanics[1].Source)
	}
}

func TestClient_SearchNearby_CategoryFilter(t *testing.T) {
	directory := fakeDirectory(t)
	defer directory.Close()
	places := fakePlaces(t)
	defer places.Close()

	client, err := New(
		WithDirectory(directory.URL, "test-key"),
		WithPlacesAPIKey("places-key"),
		WithPlacesBaseURL(places.URL),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := client.SearchNearby(context.Background(), 49.28, -123.12,
		WithCategory("brakes"),
	)
	if err != nil {
		t.Fatalf("SearchNearby failed: %v", err)
	}

	// The provider record only carries the synthetic general-repair category
	// and is dropped by the filter; the directory row passes.
	if len(result.Mechanics) != 1 {
		t.Fatalf("expected 1 mechanic, got %d", len(result.Mechanics))
	}
	if result.Mechanics[0].ID != "d1" {
		t.Errorf("expected d1, got %s", result.Mechanics[0].ID)
	}
}

func TestClient_SearchNearby_DirectoryOnly(t *testing.T) {
	directory := fakeDirectory(t)
	defer directory.Close()

	// No places API key: every search degrades to directory-only.
	client, err := New(WithDirectory(directory.URL, "test-key"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := client.SearchNearby(context.Background(), 49.28, -123.12)
	if err != nil {
		t.Fatalf("SearchNearby failed: %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded=true without a provider key")
	}
	if len(result.Mechanics) != 1 {
		t.Fatalf("expected 1 mechanic, got %d", len(result.Mechanics))
	}
}

func TestClient_SearchNearby_InvalidCoordinates(t *testing.T) {
	directory := fakeDirectory(t)
	defer directory.Close()

	client, err := New(WithDirectory(directory.URL, "test-key"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.SearchNearby(context.Background(), 95, -123.12)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestClient_Categories(t *testing.T) {
	directory := fakeDirectory(t)
	defer directory.Close()

	client, err := New(WithDirectory(directory.URL, "test-key"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cats, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Slug != "brakes" {
		t.Errorf("unexpected categories: %+v", cats)
	}
}

func TestNew_RequiresDirectory(t *testing.T) {
	_, err := New()
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
