package service

import (
	"sort"

	"github.com/bloomnet/backend/internal/domain"
)

// leaderboardSize caps the leaderboard at the top donors.
const leaderboardSize = 5

// DonorRank is one leaderboard row.
type DonorRank struct {
	DonorID          string `json:"donorId"`
	DonorName        string `json:"donorName"`
	TotalDonations   int    `json:"totalDonations"`
	ClaimedDonations int    `json:"claimedDonations"`
	Impact           Impact `json:"impact"`
}

// LeaderboardService ranks donors by their claimed donations and impact.
type LeaderboardService struct {
	src Source
}

// NewLeaderboardService constructs a LeaderboardService over the given source.
func NewLeaderboardService(src Source) *LeaderboardService {
	return &LeaderboardService{src: src}
}

// Top returns the current top donors.
func (s *LeaderboardService) Top() []DonorRank {
	return Leaderboard(s.src.All())
}

// Leaderboard accumulates per-donor counts and impact over the collection
// and returns at most five donors, ranked by claimed donations descending,
// ties broken by impact meals descending. Donors with zero claims still
// appear (counted via their total donations); their zero claim count sorts
// them last. The sort is stable over first-appearance order in the
// collection, so the ranking is deterministic.
func Leaderboard(donations []domain.Donation) []DonorRank {
	byDonor := make(map[string]*DonorRank)
	var order []string

	for _, d := range donations {
		if d.DonorID == "" {
			continue
		}
		row, ok := byDonor[d.DonorID]
		if !ok {
			row = &DonorRank{DonorID: d.DonorID, DonorName: d.DonorName}
			byDonor[d.DonorID] = row
			order = append(order, d.DonorID)
		}
		row.TotalDonations++
		if d.Claimed {
			row.ClaimedDonations++
		}
	}

	ranks := make([]DonorRank, 0, len(order))
	for _, id := range order {
		row := *byDonor[id]
		row.Impact = donorImpact(donations, id)
		ranks = append(ranks, row)
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].ClaimedDonations != ranks[j].ClaimedDonations {
			return ranks[i].ClaimedDonations > ranks[j].ClaimedDonations
		}
		return ranks[i].Impact.Meals > ranks[j].Impact.Meals
	})

	if len(ranks) > leaderboardSize {
		ranks = ranks[:leaderboardSize]
	}
	return ranks
}

// donorImpact aggregates impact over one donor's donations.
func donorImpact(donations []domain.Donation, donorID string) Impact {
	var scoped []domain.Donation
	for _, d := range donations {
		if d.DonorID == donorID {
			scoped = append(scoped, d)
		}
	}
	return AggregateImpact(scoped)
}
