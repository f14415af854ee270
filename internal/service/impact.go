package service

import (
	"fmt"
	"math"

	"github.com/bloomnet/backend/internal/domain"
)

// Fixed domain parameters for impact derivation, per kilogram of food saved.
// These are not configurable per call.
const (
	mealsPerKg       = 4
	co2KgPerKg       = 2.5
	waterLitersPerKg = 1800
)

// Impact is the derived social-impact summary of a set of claimed donations.
type Impact struct {
	Meals       int     `json:"meals"`
	CO2Kg       float64 `json:"co2Kg"`
	WaterLiters float64 `json:"waterLiters"`
	TotalKg     float64 `json:"totalKg"`
}

// ImpactService derives impact summaries from the donation collection.
type ImpactService struct {
	src Source
}

// NewImpactService constructs an ImpactService over the given source.
func NewImpactService(src Source) *ImpactService {
	return &ImpactService{src: src}
}

// Global returns the impact of every claimed donation in the collection.
func (s *ImpactService) Global() Impact {
	return AggregateImpact(s.src.All())
}

// Donor returns the impact of one donor's claimed donations.
func (s *ImpactService) Donor(donorID string) Impact {
	var scoped []domain.Donation
	for _, d := range s.src.All() {
		if d.DonorID == donorID {
			scoped = append(scoped, d)
		}
	}
	return AggregateImpact(scoped)
}

// AggregateImpact estimates the mass of every claimed donation in the input
// and derives meals, CO2 and water totals from it. Meals are rounded per
// donation, which keeps the aggregate additive over disjoint subsets.
// Unclaimed donations contribute nothing.
func AggregateImpact(donations []domain.Donation) Impact {
	var out Impact
	for _, d := range donations {
		if !d.Claimed {
			continue
		}
		kg := EstimateMassKg(d.Quantity)
		out.TotalKg += kg
		out.Meals += int(math.Round(kg * mealsPerKg))
		out.CO2Kg += kg * co2KgPerKg
		out.WaterLiters += kg * waterLitersPerKg
	}
	return out
}

// ShareText renders the social share sentence for an impact summary.
func ShareText(impact Impact) string {
	return fmt.Sprintf(
		"I'm using BloomNet to fight food waste! We've saved %d meals, prevented %.1fkg CO2, and saved %.0fL of water! Join us at #BloomNet #FoodWaste #Sustainability",
		impact.Meals, impact.CO2Kg, impact.WaterLiters)
}
