package models

import (
	"fmt"
	"math"
)

// Dimensions holds length, width, and height in inches.
type Dimensions [3]float64

// Min returns the shortest dimension.
func (d Dimensions) Min() float64 {
	return math.Min(d[0], math.Min(d[1], d[2]))
}

// Volume returns length * width * height.
func (d Dimensions) Volume() float64 {
	return d[0] * d[1] * d[2]
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d[0], d[1], d[2])
}

// StrategyResult is one (strategy, packing level) evaluation produced by a
// box's strategy generator. The engine treats the generator as a black box
// and only ranks results already tagged as fitting.
type StrategyResult struct {
	Strategy    Strategy            `json:"strategy" mapstructure:"strategy"`
	Level       RecommendationLevel `json:"recommendation_level" mapstructure:"recommendation_level"`
	Price       float64             `json:"price" mapstructure:"price"`
	Score       float64             `json:"score" mapstructure:"score"`
	Comment     string              `json:"comment,omitempty" mapstructure:"comment"`
	IsPreScored bool                `json:"is_pre_scored,omitempty" mapstructure:"is_pre_scored"`
	CutDepth    *float64            `json:"cut_depth,omitempty" mapstructure:"cut_depth"`
}
