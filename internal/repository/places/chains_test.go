package places

import "testing"

func TestChainFilter_Defaults(t *testing.T) {
	f := NewChainFilter(nil)

	tests := []struct {
		name string
		want bool
	}{
		{"Midas Auto Service", true},
		{"MIDAS", true},
		{"Canadian Tire Auto Centre", true},
		{"Mr. Lube + Tires", true},
		{"Joe's Independent Garage", false},
	}
	for _, tt := range tests {
		if got := f.Excluded(tt.name); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	// Substring matching is deliberate and known to over-match: the original
	// market tuning accepts that "Shelly's Repair" contains "shell".
	if !f.Excluded("Shelly's Repair") {
		t.Error("substring matching should exclude names containing a chain name")
	}
}

func TestChainFilter_CustomList(t *testing.T) {
	f := NewChainFilter([]string{"MegaCorp Auto"})

	if !f.Excluded("megacorp auto #42") {
		t.Error("custom denylist entry should match case-insensitively")
	}
	if f.Excluded("Midas Auto Service") {
		t.Error("custom list should replace the defaults entirely")
	}
}
