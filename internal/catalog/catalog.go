package catalog

import (
	"fmt"
	"math"
)

// WeightTolerance is the allowed deviation of the catalog weight sum from 1.0.
const WeightTolerance = 1e-6

// Criterion is one named, weighted dimension of vendor evaluation.
type Criterion struct {
	Name        string  `json:"name" yaml:"name"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`

	// AI recommendation sub-range of [0,100] for this criterion.
	MinScore float64 `json:"min_score" yaml:"min_score"`
	MaxScore float64 `json:"max_score" yaml:"max_score"`

	// Canned rationale pool for AI recommendations.
	Rationales []string `json:"rationales,omitempty" yaml:"rationales,omitempty"`
}

// Catalog is an ordered, immutable set of criteria. Build one with New;
// a zero Catalog is empty and invalid for scoring.
type Catalog struct {
	criteria []Criterion
	byName   map[string]int
}

// New validates the criteria and returns a Catalog. Weights must each be
// in (0, 1] and sum to 1.0 within WeightTolerance; names must be unique
// and non-empty; score sub-ranges must sit inside [0, 100].
func New(criteria []Criterion) (*Catalog, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("catalog: no criteria")
	}

	byName := make(map[string]int, len(criteria))
	var sum float64
	for i, c := range criteria {
		if c.Name == "" {
			return nil, fmt.Errorf("catalog: criterion %d has empty name", i)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate criterion %q", c.Name)
		}
		if c.Weight <= 0 || c.Weight > 1 {
			return nil, fmt.Errorf("catalog: criterion %q weight %f outside (0,1]", c.Name, c.Weight)
		}
		if c.MinScore < 0 || c.MaxScore > 100 || c.MinScore > c.MaxScore {
			return nil, fmt.Errorf("catalog: criterion %q score range [%f,%f] invalid", c.Name, c.MinScore, c.MaxScore)
		}
		byName[c.Name] = i
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return nil, fmt.Errorf("catalog: weights sum to %.8f, must sum to 1.0", sum)
	}

	cp := make([]Criterion, len(criteria))
	copy(cp, criteria)
	return &Catalog{criteria: cp, byName: byName}, nil
}

// Criteria returns the criteria in catalog order.
func (c *Catalog) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// Len returns the number of criteria.
func (c *Catalog) Len() int { return len(c.criteria) }

// ByName looks up a criterion. The second return is false for unknown names.
func (c *Catalog) ByName(name string) (Criterion, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Criterion{}, false
	}
	return c.criteria[i], true
}

// Weight returns the weight for a named criterion, or 0 if unknown.
func (c *Catalog) Weight(name string) float64 {
	if crit, ok := c.ByName(name); ok {
		return crit.Weight
	}
	return 0
}

// Default returns the standard five-criterion sourcing catalog.
func Default() *Catalog {
	cat, err := New(DefaultCriteria())
	if err != nil {
		// The default set is fixed; a failure here is a programming error.
		panic(err)
	}
	return cat
}

// DefaultCriteria returns the built-in criterion set, weights summing to 1.0.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{
			Name:        "Price Competitiveness",
			Weight:      0.30,
			Description: "Commercial terms relative to budget and market benchmarks",
			MinScore:    65,
			MaxScore:    90,
			Rationales: []string{
				"Pricing sits below the category benchmark with acceptable payment terms",
				"Quote is competitive but includes cost escalators worth negotiating",
				"Total cost of ownership is favourable once support fees are included",
			},
		},
		{
			Name:        "Technical Capability",
			Weight:      0.25,
			Description: "Fit of the proposed solution against the technical requirements",
			MinScore:    75,
			MaxScore:    95,
			Rationales: []string{
				"Solution covers all mandatory requirements with proven components",
				"Architecture meets the requirements though two modules need customisation",
				"Strong technical depth demonstrated in the proof of concept",
			},
		},
		{
			Name:        "Delivery Timeline",
			Weight:      0.20,
			Description: "Credibility of the proposed schedule and milestones",
			MinScore:    70,
			MaxScore:    95,
			Rationales: []string{
				"Milestone plan is realistic with buffer on the critical path",
				"Timeline is aggressive but backed by committed resourcing",
				"Delivery plan aligns with the required go-live window",
			},
		},
		{
			Name:        "Quality Assurance",
			Weight:      0.15,
			Description: "QA processes, certifications, and warranty coverage",
			MinScore:    72,
			MaxScore:    94,
			Rationales: []string{
				"ISO-certified QA process with documented defect management",
				"Warranty and SLA coverage exceed the tender minimums",
				"QA approach is sound though inspection cadence is light",
			},
		},
		{
			Name:        "Past Performance",
			Weight:      0.10,
			Description: "Track record on comparable engagements and references",
			MinScore:    68,
			MaxScore:    92,
			Rationales: []string{
				"References confirm on-time delivery on two comparable contracts",
				"Solid delivery history with one minor dispute resolved amicably",
				"Established vendor with consistent performance in this category",
			},
		},
	}
}
