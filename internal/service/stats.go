package service

import (
	"sort"
	"time"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/timefmt"
)

// activeDonorWindow is how far back a donation still counts its donor as active.
const activeDonorWindow = 7 * 24 * time.Hour

// Dashboard is the quick-stats widget data.
type Dashboard struct {
	// Available counts open donations.
	Available int `json:"available"`
	// ClaimedToday counts donations claimed on the current calendar day.
	ClaimedToday int `json:"claimedToday"`
	// ActiveDonors counts distinct donors with an unexpired donation posted
	// inside the active window.
	ActiveDonors int `json:"activeDonors"`
	// Categories is the category distribution of open donations.
	Categories map[domain.Category]int `json:"categories"`
}

// Activity is one recent-activity line: a fresh post or a fresh claim.
type Activity struct {
	Kind     string          `json:"kind"` // "posted" or "claimed"
	FoodName string          `json:"foodName"`
	Category domain.Category `json:"category"`
	Actor    string          `json:"actor"` // donor for posts, shelter for claims
	TimeAgo  string          `json:"timeAgo"`
}

// DonorStats is the per-donor summary shown on the donor panel.
type DonorStats struct {
	TotalDonations   int    `json:"totalDonations"`
	ClaimedDonations int    `json:"claimedDonations"`
	Impact           Impact `json:"impact"`
}

// ShelterStats is the per-shelter summary shown on the shelter panel.
type ShelterStats struct {
	Available int `json:"available"`
	Claimed   int `json:"claimed"` // claimed by this shelter
}

// StatsService derives dashboard widgets, activity lines, and per-role stats.
type StatsService struct {
	src Source
}

// NewStatsService constructs a StatsService over the given source.
func NewStatsService(src Source) *StatsService {
	return &StatsService{src: src}
}

// Dashboard computes the quick stats as of now.
func (s *StatsService) Dashboard(now time.Time) Dashboard {
	out := Dashboard{Categories: make(map[domain.Category]int)}
	activeDonors := make(map[string]struct{})

	for _, d := range s.src.All() {
		if d.Open() {
			out.Available++
			out.Categories[d.Category]++
		}
		if d.Claimed && d.ClaimedAt != nil && sameDay(*d.ClaimedAt, now) {
			out.ClaimedToday++
		}
		if !d.Expired && now.Sub(d.Timestamp) <= activeDonorWindow {
			activeDonors[d.DonorID] = struct{}{}
		}
	}
	out.ActiveDonors = len(activeDonors)
	return out
}

// RecentActivity returns up to five activity lines: the three newest posts
// followed by the two newest claims, each with a relative timestamp.
func (s *StatsService) RecentActivity(now time.Time) []Activity {
	donations := s.src.All()

	posts := make([]domain.Donation, len(donations))
	copy(posts, donations)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})

	var claims []domain.Donation
	for _, d := range donations {
		if d.Claimed && d.ClaimedAt != nil {
			claims = append(claims, d)
		}
	}
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].ClaimedAt.After(*claims[j].ClaimedAt)
	})

	var out []Activity
	for _, d := range posts[:min(3, len(posts))] {
		out = append(out, Activity{
			Kind:     "posted",
			FoodName: d.FoodName,
			Category: d.Category,
			Actor:    d.DonorName,
			TimeAgo:  timefmt.Ago(d.Timestamp, now),
		})
	}
	for _, d := range claims[:min(2, len(claims))] {
		out = append(out, Activity{
			Kind:     "claimed",
			FoodName: d.FoodName,
			Category: d.Category,
			Actor:    d.ClaimedByName,
			TimeAgo:  timefmt.Ago(*d.ClaimedAt, now),
		})
	}
	return out
}

// Feed returns the five newest open donations, newest first.
// Consumers pair it with the store's change notifications instead of polling.
func (s *StatsService) Feed() []domain.Donation {
	var open []domain.Donation
	for _, d := range s.src.All() {
		if d.Open() {
			open = append(open, d)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Timestamp.After(open[j].Timestamp)
	})
	return open[:min(5, len(open))]
}

// Donor computes one donor's counts and impact over the raw collection.
func (s *StatsService) Donor(donorID string) DonorStats {
	var out DonorStats
	var scoped []domain.Donation
	for _, d := range s.src.All() {
		if d.DonorID != donorID {
			continue
		}
		scoped = append(scoped, d)
		out.TotalDonations++
		if d.Claimed {
			out.ClaimedDonations++
		}
	}
	out.Impact = AggregateImpact(scoped)
	return out
}

// Shelter computes one shelter's view: all open donations plus its own claims.
func (s *StatsService) Shelter(shelterID string) ShelterStats {
	var out ShelterStats
	for _, d := range s.src.All() {
		if d.Open() {
			out.Available++
		}
		if d.Claimed && d.ClaimedBy == shelterID {
			out.Claimed++
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
