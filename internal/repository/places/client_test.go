package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shoplocal/mechfinder/internal/domain"
)

func testQuery(t *testing.T, radiusMeters int) domain.Query {
	t.Helper()
	q, err := domain.NewQuery(49.2827, -123.1207, radiusMeters, "")
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	return q
}

func newTestClient(baseURL string) *Client {
	return New(Config{APIKey: "test-key", BaseURL: baseURL})
}

func TestSearchNearby_RequestShape(t *testing.T) {
	var gotAPIKey, gotFieldMask string
	var gotBody searchRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Goog-Api-Key")
		gotFieldMask = r.Header.Get("X-Goog-FieldMask")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"places":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.SearchNearby(context.Background(), testQuery(t, 10_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("expected api key header, got %q", gotAPIKey)
	}
	if gotFieldMask == "" {
		t.Error("expected field mask header")
	}
	if gotBody.MaxResultCount != 20 {
		t.Errorf("expected maxResultCount=20, got %d", gotBody.MaxResultCount)
	}
	if gotBody.TextQuery != textQuery {
		t.Errorf("unexpected textQuery %q", gotBody.TextQuery)
	}
	if gotBody.LocationRestriction.Circle.Radius != 10_000 {
		t.Errorf("expected radius=10000, got %f", gotBody.LocationRestriction.Circle.Radius)
	}
	if gotBody.LocationRestriction.Circle.Center.Latitude != 49.2827 {
		t.Errorf("unexpected center %+v", gotBody.LocationRestriction.Circle.Center)
	}
}

func TestSearchNearby_FiltersChainsAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[
			{"id":"p-1","displayName":{"text":"Joe's Garage"},
			 "formattedAddress":"123 Main St","location":{"latitude":49.28,"longitude":-123.12},
			 "rating":4.7,"userRatingCount":88,"websiteUri":"https://joes.example",
			 "nationalPhoneNumber":"(604) 555-0101","businessStatus":"OPERATIONAL",
			 "photos":[{"name":"places/p-1/photos/a","widthPx":400,"heightPx":300}],
			 "reviews":[{"name":"r1","rating":5,"text":{"text":"great"},
			             "authorAttribution":{"displayName":"Sam"},"publishTime":"2024-01-01T00:00:00Z"}]},
			{"id":"p-2","displayName":{"text":"Midas Vancouver"},
			 "location":{"latitude":49.29,"longitude":-123.11}},
			{"id":"p-3","displayName":{"text":"Backstreet Auto"},
			 "location":{"latitude":49.30,"longitude":-123.10}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	mechanics, err := c.SearchNearby(context.Background(), testQuery(t, 25_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mechanics) != 2 {
		t.Fatalf("expected 2 mechanics after chain exclusion, got %d", len(mechanics))
	}

	joe := mechanics[0]
	if joe.ID != "google_p-1" {
		t.Errorf("expected prefixed id, got %q", joe.ID)
	}
	if joe.Source != domain.SourceGooglePlaces {
		t.Errorf("expected google_places source, got %q", joe.Source)
	}
	if joe.Name != "Joe's Garage" || joe.ShopName != "Joe's Garage" {
		t.Errorf("name should populate both fields: %q / %q", joe.Name, joe.ShopName)
	}
	if joe.Phone != "(604) 555-0101" {
		t.Errorf("direct phone number should take precedence, got %q", joe.Phone)
	}
	if joe.DistanceKm <= 0 {
		t.Errorf("expected computed distance > 0, got %f", joe.DistanceKm)
	}
	if len(joe.Photos) != 1 || joe.Photos[0] != "places/p-1/photos/a" {
		t.Errorf("unexpected photos %#v", joe.Photos)
	}
	if len(joe.Reviews) != 1 || joe.Reviews[0].Author != "Sam" {
		t.Errorf("unexpected reviews %#v", joe.Reviews)
	}

	bare := mechanics[1]
	if bare.Address != domain.PlaceholderAddress {
		t.Errorf("missing address should get placeholder, got %q", bare.Address)
	}
	if bare.Phone != domain.PlaceholderPhone {
		t.Errorf("missing phone should get placeholder, got %q", bare.Phone)
	}
	if bare.Description != domain.PlaceholderDescription {
		t.Errorf("missing description should get placeholder, got %q", bare.Description)
	}
	if bare.Rating != 0 || bare.TotalReviews != 0 {
		t.Errorf("missing rating/reviews should default to 0, got %f/%d", bare.Rating, bare.TotalReviews)
	}
	if len(bare.Specialties) != 1 || bare.Specialties[0] != domain.GeneralRepairName {
		t.Errorf("unexpected specialties %#v", bare.Specialties)
	}
	if len(bare.ServiceCategories) != 1 || bare.ServiceCategories[0].Slug != domain.GeneralRepairSlug {
		t.Errorf("expected synthetic general-repair category, got %#v", bare.ServiceCategories)
	}
	if bare.ServiceCategories[0].ID != "" {
		t.Errorf("synthetic category must have empty id, got %q", bare.ServiceCategories[0].ID)
	}
}

func TestSearchNearby_NoChainNamesSurvive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[
			{"id":"p-1","displayName":{"text":"CANADIAN TIRE #203"},"location":{"latitude":49.1,"longitude":-123.1}},
			{"id":"p-2","displayName":{"text":"Jiffy Lube Express"},"location":{"latitude":49.2,"longitude":-123.2}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	mechanics, err := c.SearchNearby(context.Background(), testQuery(t, 25_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mechanics) != 0 {
		t.Fatalf("expected all chains excluded, got %d records", len(mechanics))
	}
}

func TestSearchNearby_MissingAPIKey(t *testing.T) {
	c := New(Config{})
	_, err := c.SearchNearby(context.Background(), testQuery(t, 0))
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchNearby_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SearchNearby(context.Background(), testQuery(t, 0))
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestSearchNearby_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SearchNearby(context.Background(), testQuery(t, 0))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestSearchNearby_PlaceWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[{"displayName":{"text":"No ID Garage"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SearchNearby(context.Background(), testQuery(t, 0))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for missing id, got %v", err)
	}
}

func TestSearchNearby_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(srv.URL)
	if _, err := c.SearchNearby(ctx, testQuery(t, 0)); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
