package geo

import "testing"

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestDistanceKm_SamePoint(t *testing.T) {
	d := DistanceKm(49.2827, -123.1207, 49.2827, -123.1207)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestDistanceKm_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator: ~111.19 km
	d := DistanceKm(0, 0, 0, 1)
	if !almost(d, 111.19, 0.1) {
		t.Fatalf("want ~111.19km, got %fkm", d)
	}
}

func TestDistanceKm_Vancouver_Toronto(t *testing.T) {
	// Vancouver to Toronto: ~3,360 km
	d := DistanceKm(49.2827, -123.1207, 43.6532, -79.3832)
	if !almost(d, 3360, 20) {
		t.Fatalf("want ~3360km, got %fkm", d)
	}
}

func TestDistanceKm_NewYork_London(t *testing.T) {
	// NYC to London: ~5,570 km
	d := DistanceKm(40.7128, -74.0060, 51.5074, -0.1278)
	if !almost(d, 5570, 30) { // 30km tolerance (spherical approx)
		t.Fatalf("want ~5570km, got %fkm", d)
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{49.2827, -123.1207, 49.25, -122.95},
		{0, 0, 0, 180},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{90, 0, -90, 0},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if !almost(ab, ba, 1e-9) {
			t.Errorf("distance not symmetric: %f vs %f for %v", ab, ba, p)
		}
		if ab < 0 {
			t.Errorf("negative distance %f for %v", ab, p)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lng float64
		want     bool
	}{
		{0, 0, true},
		{49.2827, -123.1207, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{-90.1, 0, false},
		{0, 180.1, false},
		{0, -180.1, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lng); got != tt.want {
			t.Errorf("ValidateCoordinates(%f, %f) = %v, want %v", tt.lat, tt.lng, got, tt.want)
		}
	}
}
