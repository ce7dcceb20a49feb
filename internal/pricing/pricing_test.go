package pricing

import "testing"

func TestCalculateDetailedPriceBreakdown(t *testing.T) {
	opts := Options{
		PropertySize:       PropertyThreeBed,
		VolumeLoads:        2,
		WasteTypes:         []string{"general", "furniture"},
		FurnitureItems:     3,
		AccessDifficulties: []string{"stairs"},
		Urgency:            Urgency24h,
		ComplianceAddOns:   []string{"photos"},
	}

	got := CalculateDetailedPrice(opts)

	checks := []struct {
		name   string
		got    float64
		expect float64
	}{
		{"base call out", got.BaseCallOut, 250},
		{"property size", got.PropertySize, 350},
		{"volume load", got.VolumeLoad, 300},
		{"waste type", got.WasteType, 150},
		{"access difficulty", got.AccessDifficulty, 100},
		{"urgency", got.Urgency, 150},
		{"compliance add-ons", got.ComplianceAddOns, 50},
		{"subtotal", got.Subtotal, 1350},
		{"total", got.Total, 1350},
	}
	for _, c := range checks {
		if c.got != c.expect {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.expect)
		}
	}
}

func TestCalculateDetailedPriceMinimumCharge(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty options", Options{}},
		{"studio only", Options{PropertySize: PropertyStudio}},
		{"single load general waste", Options{VolumeLoads: 1, WasteTypes: []string{"general"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDetailedPrice(tt.opts)
			if got.Total < MinimumCharge {
				t.Errorf("total = %v, want at least %v", got.Total, MinimumCharge)
			}
			if got.Subtotal < MinimumCharge && got.Total != MinimumCharge {
				t.Errorf("total = %v, want floor %v when subtotal %v is below it",
					got.Total, MinimumCharge, got.Subtotal)
			}
		})
	}
}

func TestCalculateDetailedPriceIsPure(t *testing.T) {
	opts := Options{
		PropertySize:       PropertyFourBed,
		VolumeLoads:        3,
		WasteTypes:         []string{"hazardous", "furniture"},
		FurnitureItems:     7,
		AccessDifficulties: []string{"stairs", "parking", "distance"},
		Urgency:            UrgencySameDay,
		ComplianceAddOns:   []string{"photos", "council", "sanitation"},
	}

	first := CalculateDetailedPrice(opts)
	second := CalculateDetailedPrice(opts)
	if first != second {
		t.Errorf("repeated calls diverged: %+v vs %+v", first, second)
	}
}

func TestFurnitureScalesPerItem(t *testing.T) {
	tests := []struct {
		items  int
		expect float64
	}{
		{0, 0},
		{1, 50},
		{3, 150},
		{10, 500},
	}

	for _, tt := range tests {
		got := CalculateDetailedPrice(Options{
			WasteTypes:     []string{"furniture"},
			FurnitureItems: tt.items,
		})
		if got.WasteType != tt.expect {
			t.Errorf("furniture x%d = %v, want %v", tt.items, got.WasteType, tt.expect)
		}
	}

	// Other waste types stay flat no matter how much furniture is listed.
	flat := CalculateDetailedPrice(Options{WasteTypes: []string{"hazardous"}, FurnitureItems: 9})
	if flat.WasteType != 300 {
		t.Errorf("hazardous waste = %v, want flat 300", flat.WasteType)
	}
}

func TestVolumeLoadClamp(t *testing.T) {
	four := CalculateDetailedPrice(Options{VolumeLoads: 4})
	five := CalculateDetailedPrice(Options{VolumeLoads: 5})
	twelve := CalculateDetailedPrice(Options{VolumeLoads: 12})

	if four.VolumeLoad != 600 {
		t.Errorf("4 loads = %v, want 600", four.VolumeLoad)
	}
	if five.VolumeLoad != four.VolumeLoad {
		t.Errorf("5 loads = %v, want same as 4 loads (%v)", five.VolumeLoad, four.VolumeLoad)
	}
	if twelve.VolumeLoad != four.VolumeLoad {
		t.Errorf("12 loads = %v, want clamp at %v", twelve.VolumeLoad, four.VolumeLoad)
	}
}

func TestUnknownEnumValuesContributeZero(t *testing.T) {
	got := CalculateDetailedPrice(Options{
		PropertySize:       "castle",
		WasteTypes:         []string{"plutonium"},
		AccessDifficulties: []string{"moat"},
		Urgency:            "yesterday",
		ComplianceAddOns:   []string{"blessing"},
	})

	if got.PropertySize != 0 || got.WasteType != 0 || got.AccessDifficulty != 0 ||
		got.Urgency != 0 || got.ComplianceAddOns != 0 {
		t.Errorf("unknown enum values must contribute zero, got %+v", got)
	}
	if got.Total != MinimumCharge {
		t.Errorf("total = %v, want minimum charge %v", got.Total, MinimumCharge)
	}
}

func TestCalculateQuickPriceIgnoresServiceDetails(t *testing.T) {
	base := CalculateQuickPrice("house-clearance", "standard", 10, "luton-van")

	// Service type, distance and vehicle have no effect on the quick path.
	if got := CalculateQuickPrice("hoarder-clearout", "standard", 250, "7.5-tonne"); got != base {
		t.Errorf("quick price varied with service details: %v vs %v", got, base)
	}

	if got := CalculateQuickPrice("house-clearance", "24h", 10, "luton-van"); got != base+150 {
		t.Errorf("24h quick price = %v, want %v", got, base+150)
	}
	if got := CalculateQuickPrice("house-clearance", "same-day", 10, "luton-van"); got != base+300 {
		t.Errorf("same-day quick price = %v, want %v", got, base+300)
	}
}
