package models

// Recommendation is one ranked entry in the engine's output, annotated with
// display tags for the storefront UI.
type Recommendation struct {
	BoxName         string     `json:"box_name"`
	BoxDimensions   Dimensions `json:"box_dimensions"`
	Strategy        Strategy   `json:"strategy"`
	Price           float64    `json:"price"`
	Score           float64    `json:"score"`
	NormalizedPrice float64    `json:"normalized_price"`
	NormalizedScore float64    `json:"normalized_score"`
	CompositeScore  float64    `json:"composite_score"`
	IsPreScored     bool       `json:"is_pre_scored,omitempty"`
	CutDepth        *float64   `json:"cut_depth,omitempty"`
	Comment         string     `json:"comment,omitempty"`
	Efficient       bool       `json:"efficient"`
	Tag             string     `json:"tag"`
	TagClass        string     `json:"tag_class"`
	Reason          string     `json:"reason"`
}

// RecommendationWeights defines the relative importance of cost, fit
// tightness, and packing convenience in the composite score. The weights are
// linear coefficients and are not required to sum to 1.
type RecommendationWeights struct {
	Price      float64 `json:"price" yaml:"price"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
	Ease       float64 `json:"ease" yaml:"ease"`
}

// Sum returns the total of the three weights.
func (w RecommendationWeights) Sum() float64 {
	return w.Price + w.Efficiency + w.Ease
}

// IsZero reports whether no weight has been set.
func (w RecommendationWeights) IsZero() bool {
	return w.Price == 0 && w.Efficiency == 0 && w.Ease == 0
}

// PopulationStats holds score and price statistics across the full filtered
// candidate population of a single recommendation call.
type PopulationStats struct {
	MeanScore float64 `json:"mean_score"`
	StdDev    float64 `json:"std_dev"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}
