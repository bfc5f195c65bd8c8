package scoring

import "github.com/sourcepoint/tenderd/internal/store"

// VendorCompletion counts human-scored cells for one vendor.
type VendorCompletion struct {
	Filled int `json:"filled"`
	Total  int `json:"total"`
}

// Completion measures human sign-off coverage over an evaluation matrix.
// A cell is filled only when a manual score is present; AI-only scores do
// not count. OverallPercent of 100 gates winner submission.
type Completion struct {
	PerVendor      map[string]VendorCompletion `json:"per_vendor"`
	OverallPercent float64                     `json:"overall_percent"`
}

// Complete reports full human coverage.
func (c Completion) Complete() bool { return c.OverallPercent == 100 }

// TrackCompletion computes per-vendor and overall completion against the
// expected criteria count. A zero denominator yields 0 percent.
func TrackCompletion(evaluations []*store.Evaluation, criteriaCount int) Completion {
	perVendor := make(map[string]VendorCompletion)
	filled := 0
	for _, e := range evaluations {
		vc := perVendor[e.VendorID]
		vc.Total = criteriaCount
		if e.ManualScore != nil {
			vc.Filled++
			filled++
		}
		perVendor[e.VendorID] = vc
	}

	denom := len(perVendor) * criteriaCount
	if denom == 0 {
		return Completion{PerVendor: perVendor, OverallPercent: 0}
	}
	return Completion{
		PerVendor:      perVendor,
		OverallPercent: 100 * float64(filled) / float64(denom),
	}
}
