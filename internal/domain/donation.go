// Package domain contains the core data types for the BloomNet backend.
// This package has zero external dependencies and is imported by every other
// internal package (repo, store, service, handler).
package domain

import "time"

// Category classifies a donation's food type.
type Category string

const (
	CategoryProduce Category = "produce"
	CategoryBakery  Category = "bakery"
	CategoryCanned  Category = "canned"
	CategoryDairy   Category = "dairy"
	CategoryMeals   Category = "meals"
	CategorySnacks  Category = "snacks"
	CategoryOther   Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryProduce, CategoryBakery, CategoryCanned,
	CategoryDairy, CategoryMeals, CategorySnacks, CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Donation is the sole persisted entity: one surplus-food listing.
// JSON field names match the persisted collection layout, so records written
// by earlier versions of the app round-trip unchanged.
//
// A donation is in exactly one of three states:
//   - open:    Claimed=false, Expired=false
//   - expired: Claimed=false, Expired=true (deadline passed, still claimable)
//   - claimed: Claimed=true (absorbing; claim wins over expiry)
type Donation struct {
	ID       string   `json:"id"`
	FoodName string   `json:"foodName"`
	Category Category `json:"category"`
	Quantity string   `json:"quantity"` // free text, e.g. "5 kg", "20 pieces"
	Notes    string   `json:"notes,omitempty"`

	// PickupTime is the absolute pickup deadline, set once at creation.
	// PickupTimeDisplay is the human-readable rendering cached at creation
	// so the listing shows the same string regardless of viewer locale.
	PickupTime        time.Time `json:"pickupTime"`
	PickupTimeDisplay string    `json:"pickupTimeDisplay"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	DonorID   string    `json:"donorId"`
	DonorName string    `json:"donorName"`
	Timestamp time.Time `json:"timestamp"` // creation time, immutable

	Claimed       bool       `json:"claimed"`
	ClaimedBy     string     `json:"claimedBy,omitempty"`
	ClaimedByName string     `json:"claimedByName,omitempty"`
	ClaimedAt     *time.Time `json:"claimedAt,omitempty"`

	// Expired is derived by the expiry sweep; never true while Claimed is true.
	Expired bool `json:"expired,omitempty"`

	// Distance is transient: attached during distance sort for the current
	// viewer, never meaningful in the persisted collection.
	Distance *float64 `json:"distance,omitempty"`
}

// Open reports whether the donation is available to claim and unexpired.
func (d Donation) Open() bool {
	return !d.Claimed && !d.Expired
}
