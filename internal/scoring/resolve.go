package scoring

import "github.com/sourcepoint/tenderd/internal/store"

// EffectiveScore is the score actually used in aggregation for one cell.
type EffectiveScore struct {
	Value      float64 `json:"value"`
	AISourced  bool    `json:"is_ai_sourced"`
}

// Resolve determines the effective score for an evaluation row: the manual
// score when present, else the AI score, else 0. Absent data degrades to
// zero rather than failing so an incomplete matrix can still be ranked.
func Resolve(e *store.Evaluation) EffectiveScore {
	if e.ManualScore != nil {
		return EffectiveScore{Value: *e.ManualScore, AISourced: false}
	}
	if e.AIScore != nil {
		return EffectiveScore{Value: *e.AIScore, AISourced: true}
	}
	return EffectiveScore{Value: 0, AISourced: true}
}
