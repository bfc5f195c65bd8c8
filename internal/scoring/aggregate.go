package scoring

import (
	"math"
	"sort"

	"github.com/sourcepoint/tenderd/internal/store"
)

// VendorSummary is the derived per-vendor aggregation over an evaluation set.
// TotalScore and WeightedScore are half-up rounded to 2 decimals for display;
// the underlying computation is full precision.
type VendorSummary struct {
	VendorID      string              `json:"vendor_id"`
	TotalScore    float64             `json:"total_score"`
	WeightedScore float64             `json:"weighted_score"`
	Rank          int                 `json:"rank"`
	Evaluations   []*store.Evaluation `json:"evaluations"`
}

// Aggregate groups evaluations by vendor, sums effective and weighted
// scores, and ranks vendors descending by weighted score. Ties break on
// ascending vendor id so the ordering is total and repeatable. An empty
// input yields an empty slice.
func Aggregate(evaluations []*store.Evaluation) []VendorSummary {
	grouped := make(map[string][]*store.Evaluation)
	var order []string
	for _, e := range evaluations {
		if _, seen := grouped[e.VendorID]; !seen {
			order = append(order, e.VendorID)
		}
		grouped[e.VendorID] = append(grouped[e.VendorID], e)
	}

	summaries := make([]VendorSummary, 0, len(order))
	for _, vendorID := range order {
		rows := grouped[vendorID]
		var total, weighted float64
		for _, e := range rows {
			v := Resolve(e).Value
			total += v
			weighted += v * e.Weight
		}
		summaries = append(summaries, VendorSummary{
			VendorID:      vendorID,
			TotalScore:    round2(total),
			WeightedScore: round2(weighted),
			Evaluations:   rows,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].WeightedScore != summaries[j].WeightedScore {
			return summaries[i].WeightedScore > summaries[j].WeightedScore
		}
		return summaries[i].VendorID < summaries[j].VendorID
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
	return summaries
}

// TopRanked returns the leading summary, or false for an empty set.
func TopRanked(summaries []VendorSummary) (VendorSummary, bool) {
	if len(summaries) == 0 {
		return VendorSummary{}, false
	}
	return summaries[0], true
}

// round2 applies half-up rounding to 2 decimal places. Scores are
// non-negative, so round-half-away-from-zero is half-up here.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
