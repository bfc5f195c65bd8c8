package scoring

import (
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/sourcepoint/tenderd/internal/catalog"
)

const (
	jitterRange       = 2.5
	confidenceFloor   = 70.0
	confidenceCeiling = 95.0

	fallbackScore      = 75.0
	fallbackConfidence = 50.0
)

// Recommendation is a non-binding AI scoring suggestion. It never writes a
// manual score; accepting it is a separate user action.
type Recommendation struct {
	Score         float64 `json:"score"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
}

// Recommender produces repeatable-per-vendor score suggestions inside each
// criterion's recommended sub-range. One Recommender serves every request
// handler, so access to the rng is serialized; rand.Rand is not safe for
// concurrent use.
type Recommender struct {
	catalog *catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRecommender creates a Recommender over the given catalog.
func NewRecommender(cat *catalog.Catalog) *Recommender {
	return NewRecommenderWithSeed(cat, time.Now().UnixNano())
}

// NewRecommenderWithSeed fixes the jitter source, for tests.
func NewRecommenderWithSeed(cat *catalog.Catalog, seed int64) *Recommender {
	return &Recommender{catalog: cat, rng: rand.New(rand.NewSource(seed))}
}

// Recommend suggests a score for a vendor on a criterion. The baseline is
// derived from a hash of the vendor id so repeat calls stay near a stable
// position in the criterion's sub-range; bounded jitter is added and the
// result clamped back into the sub-range. An unrecognised criterion
// returns a neutral fallback instead of an error, since this only feeds a
// non-binding hint.
func (r *Recommender) Recommend(vendorID, criterionName string) Recommendation {
	crit, ok := r.catalog.ByName(criterionName)
	if !ok {
		return Recommendation{
			Score:         fallbackScore,
			Confidence:    fallbackConfidence,
			Justification: "No catalog guidance available for this criterion",
		}
	}

	h := vendorHash(vendorID)
	span := crit.MaxScore - crit.MinScore
	base := crit.MinScore
	if span > 0 {
		base += float64(h%1000) / 999.0 * span
	}

	r.mu.Lock()
	jitter := (r.rng.Float64()*2 - 1) * jitterRange
	confidence := confidenceFloor + r.rng.Float64()*(confidenceCeiling-confidenceFloor)
	r.mu.Unlock()

	score := clamp(base+jitter, crit.MinScore, crit.MaxScore)

	justification := ""
	if len(crit.Rationales) > 0 {
		justification = crit.Rationales[int(h%uint64(len(crit.Rationales)))]
	}

	return Recommendation{
		Score:         score,
		Confidence:    confidence,
		Justification: justification,
	}
}

func vendorHash(vendorID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(vendorID))
	return h.Sum64()
}
