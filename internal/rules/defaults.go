// Package rules holds the default packing rules and recommendation engine
// configuration. The config store falls back to these when a store has no
// custom rows.
package rules

import (
	"fmt"

	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/recommend"
)

// Default engine configuration values.
const (
	DefaultWeightPrice      = 0.45
	DefaultWeightEfficiency = 0.25
	DefaultWeightEase       = 0.30

	DefaultPrefNormal      = 0
	DefaultPrefPreScored   = 1
	DefaultPrefFlattened   = 2
	DefaultPrefManualCut   = 5
	DefaultPrefTelescoping = 6
	DefaultPrefCheating    = 8

	DefaultMaxRecommendations        = 10
	DefaultExtremeCutThreshold       = 0.5
	DefaultPracticallyTightThreshold = 0.85
)

// DefaultEngineConfig returns the factory recommendation engine configuration.
func DefaultEngineConfig() recommend.Config {
	return recommend.Config{
		Weights: models.RecommendationWeights{
			Price:      DefaultWeightPrice,
			Efficiency: DefaultWeightEfficiency,
			Ease:       DefaultWeightEase,
		},
		StrategyPreferences: map[models.PreferenceKey]float64{
			models.PrefNormal:      DefaultPrefNormal,
			models.PrefPreScored:   DefaultPrefPreScored,
			models.PrefFlattened:   DefaultPrefFlattened,
			models.PrefManualCut:   DefaultPrefManualCut,
			models.PrefTelescoping: DefaultPrefTelescoping,
			models.PrefCheating:    DefaultPrefCheating,
		},
		MaxRecommendations:        DefaultMaxRecommendations,
		ExtremeCutThreshold:       DefaultExtremeCutThreshold,
		PracticallyTightThreshold: DefaultPracticallyTightThreshold,
	}
}

// Rule describes the packing requirements for one protection tier.
type Rule struct {
	PackingLevel      models.PackingLevel `json:"packing_type"`
	PaddingInches     float64             `json:"padding_inches"`
	WizardDescription string              `json:"wizard_description"`
	LabelInstructions string              `json:"label_instructions"`
	IsCustom          bool                `json:"is_custom"`
}

var defaultRules = map[models.PackingLevel]Rule{
	models.PackingBasic: {
		PackingLevel:      models.PackingBasic,
		PaddingInches:     0,
		WizardDescription: "For non-sensitive items like clothing, toys, books",
		LabelInstructions: "- Inflatable void fill as needed",
	},
	models.PackingStandard: {
		PackingLevel:      models.PackingStandard,
		PaddingInches:     1,
		WizardDescription: "For electronics, jewelry, and medium-sensitive items",
		LabelInstructions: "- Two (2) layers of large bubble or inflatable air cushioning\n" +
			"- Inflatable void fill as needed\n" +
			"- 1\" between item and edge of box",
	},
	models.PackingFragile: {
		PackingLevel:      models.PackingFragile,
		PaddingInches:     2,
		WizardDescription: "For china, crystal, art, and sensitive equipment",
		LabelInstructions: "- One (1) layer of small bubble or foam wrap\n" +
			"- Two (2) layers of large bubble or inflatable air cushioning\n" +
			"- Inflatable void fill as needed\n" +
			"- Corrugated dividers for layering multiple items\n" +
			"- 2\" between item and edge of box",
	},
	models.PackingCustom: {
		PackingLevel:      models.PackingCustom,
		PaddingInches:     3,
		WizardDescription: "Maximum protection for highly sensitive items",
		LabelInstructions: "- 1\" foam plank on all sides of the box\n" +
			"- One (1) layer of small bubble or foam wrap\n" +
			"- Two (2) layers of small bubble or foam wrap\n" +
			"- Inflatable void fill as needed\n" +
			"- 3\" between item and edge of box",
	},
}

// DefaultRule returns the default rule for a packing level.
func DefaultRule(level models.PackingLevel) (Rule, error) {
	rule, ok := defaultRules[level]
	if !ok {
		return Rule{}, fmt.Errorf("rules: unknown packing type: %s", level)
	}
	return rule, nil
}

// AllDefaultRules returns every default rule in display order.
func AllDefaultRules() []Rule {
	out := make([]Rule, 0, len(defaultRules))
	for _, level := range []models.PackingLevel{
		models.PackingBasic, models.PackingStandard, models.PackingFragile, models.PackingCustom,
	} {
		out = append(out, defaultRules[level])
	}
	return out
}
