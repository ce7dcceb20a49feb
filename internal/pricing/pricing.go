// Package pricing computes clearance quotes from structured booking options.
// Every calculation is pure: the same options always produce the same
// breakdown, and unknown option values contribute zero rather than failing.
package pricing

import "math"

const (
	// BaseCallOut is charged on every booking before any itemised work.
	BaseCallOut = 250.0
	// MinimumCharge is the floor applied to the itemised total.
	MinimumCharge = 350.0

	furnitureItemRate = 50.0
)

type PropertySize string

const (
	PropertyStudio   PropertySize = "studio"
	PropertyTwoBed   PropertySize = "2bed"
	PropertyThreeBed PropertySize = "3bed"
	PropertyFourBed  PropertySize = "4bed"
)

type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	Urgency24h      Urgency = "24h"
	UrgencySameDay  Urgency = "same-day"
)

var propertySizeRates = map[PropertySize]float64{
	PropertyStudio:   100,
	PropertyTwoBed:   200,
	PropertyThreeBed: 350,
	PropertyFourBed:  500,
}

// volumeLoadRates is keyed by loads 1-3 exactly; anything above three is
// clamped to the four-load tier, it does not keep scaling.
var volumeLoadRates = map[int]float64{
	1: 150,
	2: 300,
	3: 450,
}

const volumeLoadClampRate = 600

var wasteTypeRates = map[string]float64{
	"general":      0,
	"garden":       100,
	"construction": 200,
	"hazardous":    300,
}

var accessDifficultyRates = map[string]float64{
	"ground":   0,
	"stairs":   100,
	"parking":  100,
	"distance": 100,
}

var urgencyRates = map[Urgency]float64{
	UrgencyStandard: 0,
	Urgency24h:      150,
	UrgencySameDay:  300,
}

var complianceAddOnRates = map[string]float64{
	"photos":     50,
	"council":    100,
	"sanitation": 250,
}

type Options struct {
	PropertySize       PropertySize
	VolumeLoads        int
	WasteTypes         []string
	FurnitureItems     int
	AccessDifficulties []string
	Urgency            Urgency
	ComplianceAddOns   []string
}

type Components struct {
	BaseCallOut      float64
	PropertySize     float64
	VolumeLoad       float64
	WasteType        float64
	AccessDifficulty float64
	Urgency          float64
	ComplianceAddOns float64
	Subtotal         float64
	Total            float64
}

// CalculateDetailedPrice maps booking options to an itemised cost breakdown.
// Unrecognised enum values fall through to a zero contribution: bad input
// produces a cheaper quote, never an error. That fallback is deliberate and
// relied on by callers that pass through raw form values.
func CalculateDetailedPrice(opts Options) Components {
	c := Components{BaseCallOut: BaseCallOut}

	c.PropertySize = propertySizeRates[opts.PropertySize]

	if opts.VolumeLoads > 3 {
		c.VolumeLoad = volumeLoadClampRate
	} else if opts.VolumeLoads > 0 {
		c.VolumeLoad = volumeLoadRates[opts.VolumeLoads]
	}

	for _, waste := range opts.WasteTypes {
		if waste == "furniture" {
			// Furniture is the one per-item waste type.
			c.WasteType += furnitureItemRate * float64(opts.FurnitureItems)
			continue
		}
		c.WasteType += wasteTypeRates[waste]
	}

	for _, access := range opts.AccessDifficulties {
		c.AccessDifficulty += accessDifficultyRates[access]
	}

	c.Urgency = urgencyRates[opts.Urgency]

	for _, addOn := range opts.ComplianceAddOns {
		c.ComplianceAddOns += complianceAddOnRates[addOn]
	}

	c.Subtotal = c.BaseCallOut + c.PropertySize + c.VolumeLoad + c.WasteType +
		c.AccessDifficulty + c.Urgency + c.ComplianceAddOns
	c.Total = math.Max(c.Subtotal, MinimumCharge)
	return c
}

// CalculateQuickPrice is the legacy single-figure estimate used by the booking
// wizard before any survey detail is captured. It prices a fixed reference job
// (two-bed property, two loads, general waste, ground access, photo pack) and
// varies only the urgency derived from the SLA tier. The serviceType, distance
// and vehicleType arguments are accepted for wire compatibility and ignored.
func CalculateQuickPrice(serviceType, slaType string, distanceMiles float64, vehicleType string) float64 {
	_ = serviceType
	_ = distanceMiles
	_ = vehicleType

	urgency := UrgencyStandard
	switch slaType {
	case "24h":
		urgency = Urgency24h
	case "same-day":
		urgency = UrgencySameDay
	}

	return CalculateDetailedPrice(Options{
		PropertySize:       PropertyTwoBed,
		VolumeLoads:        2,
		WasteTypes:         []string{"general"},
		AccessDifficulties: []string{"ground"},
		Urgency:            urgency,
		ComplianceAddOns:   []string{"photos"},
	}).Total
}
