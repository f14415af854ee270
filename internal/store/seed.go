package store

import (
	"math/rand"
	"time"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/timefmt"
)

// Demo seed coordinates: central Delhi, with a small jitter per donation so
// the map markers do not stack on one point.
const (
	seedLat = 28.7041
	seedLng = 77.1025
)

// demoDonations builds the fixed demo set inserted into a first-run empty
// collection: three open donations from three distinct donors, posted
// recently with pickup deadlines a few hours out from now.
func demoDonations(now time.Time) []domain.Donation {
	seed := func(id, food string, cat domain.Category, qty, notes string,
		pickupIn, postedAgo time.Duration, donorID, donorName string) domain.Donation {
		pickup := now.Add(pickupIn)
		return domain.Donation{
			ID:                id,
			FoodName:          food,
			Category:          cat,
			Quantity:          qty,
			Notes:             notes,
			PickupTime:        pickup,
			PickupTimeDisplay: timefmt.Display(pickup),
			Latitude:          seedLat + jitter(),
			Longitude:         seedLng + jitter(),
			DonorID:           donorID,
			DonorName:         donorName,
			Timestamp:         now.Add(-postedAgo),
		}
	}

	return []domain.Donation{
		seed("demo_1", "Fresh Vegetables", domain.CategoryProduce, "5 kg",
			"Mixed vegetables - carrots, tomatoes, onions",
			2*time.Hour, 30*time.Minute, "demo_donor_1", "Community Kitchen"),
		seed("demo_2", "Bread & Pastries", domain.CategoryBakery, "20 pieces",
			"Fresh from bakery, still warm",
			4*time.Hour, 15*time.Minute, "demo_donor_2", "Local Bakery"),
		seed("demo_3", "Canned Goods", domain.CategoryCanned, "15 cans",
			"Various canned foods - beans, soup, vegetables",
			6*time.Hour, time.Hour, "demo_donor_3", "Food Bank"),
	}
}

// jitter spreads seed markers within roughly ±0.05 degrees.
func jitter() float64 {
	return (rand.Float64() - 0.5) * 0.1
}
