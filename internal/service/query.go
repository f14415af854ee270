// Package service contains the derivation logic of the BloomNet backend:
// the query engine that computes the visible set, the impact aggregator, the
// donor leaderboard, and the dashboard statistics. Everything here derives
// from a snapshot of the donation collection and mutates nothing — services
// depend on the Source interface, not the store implementation.
package service

import (
	"sort"
	"strings"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/geo"
)

// Source supplies a snapshot of the full donation collection.
// *store.Store satisfies it.
type Source interface {
	All() []domain.Donation
}

// QueryService computes the visible set for shelter viewers.
type QueryService struct {
	src Source
}

// NewQueryService constructs a QueryService over the given source.
func NewQueryService(src Source) *QueryService {
	return &QueryService{src: src}
}

// Visible returns the filtered, sorted donations for the given query.
// viewer is the viewer's location, nil when unknown.
func (s *QueryService) Visible(q domain.Query, viewer *geo.Point) []domain.Donation {
	return VisibleSet(s.src.All(), q, viewer)
}

// VisibleSet is the pure query engine: (collection, params, viewer location)
// → ordered visible set. The base predicate always applies — claimed or
// expired donations are never part of the available view, whatever the
// params say. They remain reachable through the raw collection (donor
// history, impact totals, leaderboard).
//
// All sorts are stable; ties keep the relative order of the prior step.
func VisibleSet(donations []domain.Donation, q domain.Query, viewer *geo.Point) []domain.Donation {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Donation, 0, len(donations))
	for _, d := range donations {
		if !d.Open() {
			continue
		}
		if q.Category != "" && d.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.FoodName), search) &&
			!strings.Contains(strings.ToLower(d.Notes), search) {
			continue
		}
		out = append(out, d)
	}

	switch q.Sort {
	case domain.SortDistance:
		if viewer == nil {
			// Unknown viewer location: distance sort degrades to input order.
			break
		}
		for i := range out {
			km := geo.DistanceKm(*viewer, geo.Point{Lat: out[i].Latitude, Lng: out[i].Longitude})
			out[i].Distance = &km
		}
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].Distance < *out[j].Distance
		})
	case domain.SortQuantity:
		sort.SliceStable(out, func(i, j int) bool {
			return quantityMagnitude(out[i].Quantity) > quantityMagnitude(out[j].Quantity)
		})
	default: // domain.SortRecency and unset
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.After(out[j].Timestamp)
		})
	}

	return out
}

// quantityMagnitude is the sort key for quantity ordering: the leading
// numeric token of the free text, 0 when none parses.
func quantityMagnitude(quantity string) float64 {
	v, ok := leadingNumber(quantity)
	if !ok {
		return 0
	}
	return v
}
