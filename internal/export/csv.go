// Package export serializes the scoring matrix into a flat tabular format.
// Output is byte-stable for identical input so exports are diffable.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
)

// Vendor pairs a vendor id with its display name for the export header.
type Vendor struct {
	ID          string
	DisplayName string
}

// CSV renders the evaluation matrix: one row per criterion with the weight
// as a percentage and each vendor's effective score to one decimal ("-"
// when the cell is absent), then Weighted Score and Rank trailer rows per
// the aggregation ordering. Fields are not quoted; criterion and vendor
// names are assumed comma-free. Lines end with \n.
func CSV(criteria []catalog.Criterion, vendors []Vendor, evaluations []*store.Evaluation, summaries []scoring.VendorSummary) string {
	cells := make(map[cellKey]*store.Evaluation, len(evaluations))
	for _, e := range evaluations {
		cells[cellKey{vendorID: e.VendorID, criterion: e.CriteriaName}] = e
	}

	weightedByVendor := make(map[string]float64, len(summaries))
	rankByVendor := make(map[string]int, len(summaries))
	for _, s := range summaries {
		weightedByVendor[s.VendorID] = s.WeightedScore
		rankByVendor[s.VendorID] = s.Rank
	}

	var b strings.Builder

	b.WriteString("Criteria,Weight")
	for _, v := range vendors {
		b.WriteByte(',')
		b.WriteString(v.DisplayName)
	}
	b.WriteByte('\n')

	for _, crit := range criteria {
		b.WriteString(crit.Name)
		b.WriteByte(',')
		b.WriteString(fmt.Sprintf("%.0f%%", crit.Weight*100))
		for _, v := range vendors {
			b.WriteByte(',')
			if e, ok := cells[cellKey{vendorID: v.ID, criterion: crit.Name}]; ok && hasScore(e) {
				b.WriteString(strconv.FormatFloat(scoring.Resolve(e).Value, 'f', 1, 64))
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("Weighted Score,")
	for _, v := range vendors {
		b.WriteByte(',')
		if w, ok := weightedByVendor[v.ID]; ok {
			b.WriteString(strconv.FormatFloat(w, 'f', 2, 64))
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte('\n')

	b.WriteString("Rank,")
	for _, v := range vendors {
		b.WriteByte(',')
		if r, ok := rankByVendor[v.ID]; ok {
			b.WriteString(strconv.Itoa(r))
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte('\n')

	return b.String()
}

// Filename returns the export attachment name for an event at a moment in
// time, expressed as epoch milliseconds.
func Filename(eventID string, epochMillis int64) string {
	return fmt.Sprintf("tender-evaluation-%s-%d.csv", eventID, epochMillis)
}

// cellKey is a composite (vendor, criterion) lookup key.
type cellKey struct {
	vendorID  string
	criterion string
}

func hasScore(e *store.Evaluation) bool {
	return e.ManualScore != nil || e.AIScore != nil
}
