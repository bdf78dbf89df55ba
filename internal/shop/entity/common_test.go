package entity

import "testing"

func TestRecomputeMargin(t *testing.T) {
	cases := []struct {
		name    string
		cost    float64
		price   float64
		current float64
		want    float64
	}{
		{"derives from cost and price", 100, 150, 20, 50},
		{"negative margin allowed", 200, 150, 20, -25},
		{"zero cost keeps current", 0, 150, 20, 20},
		{"negative cost keeps current", -5, 150, 33, 33},
		{"break even", 80, 80, 20, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputeMargin(tc.cost, tc.price, tc.current)
			if got != tc.want {
				t.Errorf("RecomputeMargin(%v, %v, %v) = %v, want %v", tc.cost, tc.price, tc.current, got, tc.want)
			}
		})
	}
}

func TestLocalizedTextIn(t *testing.T) {
	text := LocalizedText{TR: "Ekran", DE: "Display", EN: "Screen"}
	if got := text.In("tr"); got != "Ekran" {
		t.Errorf("In(tr) = %q", got)
	}
	if got := text.In("de"); got != "Display" {
		t.Errorf("In(de) = %q", got)
	}
	// Unknown languages fall back to English.
	if got := text.In("fr"); got != "Screen" {
		t.Errorf("In(fr) = %q", got)
	}
}

func TestApplyCatalogFieldsLeavesBranchOwned(t *testing.T) {
	barcode := "4001234567890"
	part := &Part{
		ID:           "part-001",
		DeviceTypeID: "dt-001",
		BrandID:      "brand-001",
		ModelID:      "model-001",
		Category:     "display",
		Name:         LocalizedText{TR: "Ekran", DE: "Display", EN: "Screen"},
		Barcode:      &barcode,
		IsActive:     true,
	}
	bp := &BranchPart{}
	bp.SeedBranchDefaults()
	bp.Stock = 42
	bp.Price = Money{Amount: 99.9, Currency: DefaultCurrency}

	bp.ApplyCatalogFields(part)

	if bp.PartID != "part-001" || bp.Category != "display" || bp.Name.EN != "Screen" {
		t.Errorf("catalog fields not mirrored: %+v", bp)
	}
	if bp.Stock != 42 {
		t.Errorf("branch stock touched by catalog copy: %d", bp.Stock)
	}
	if bp.Price.Amount != 99.9 {
		t.Errorf("branch price touched by catalog copy: %v", bp.Price.Amount)
	}
	if bp.Margin != 20 {
		t.Errorf("branch margin touched by catalog copy: %v", bp.Margin)
	}
}
