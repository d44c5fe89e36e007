package webapi

import (
	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/recommend"
	"github.com/packhouse/boxpick/internal/rules"
)

// EngineConfigPayload is the wire shape of a recommendation engine
// configuration, shared by the GET response and the POST request body.
type EngineConfigPayload struct {
	IsCustom                  bool                            `json:"is_custom,omitempty"`
	Weights                   models.RecommendationWeights    `json:"weights"`
	StrategyPreferences       map[models.PreferenceKey]float64 `json:"strategy_preferences"`
	PracticallyTightThreshold float64                         `json:"practically_tight_threshold"`
	MaxRecommendations        int                             `json:"max_recommendations"`
	ExtremeCutThreshold       float64                         `json:"extreme_cut_threshold"`
}

// Config converts the payload into an engine configuration.
func (p EngineConfigPayload) Config() recommend.Config {
	return recommend.Config{
		Weights:                   p.Weights,
		StrategyPreferences:       p.StrategyPreferences,
		MaxRecommendations:        p.MaxRecommendations,
		ExtremeCutThreshold:       p.ExtremeCutThreshold,
		PracticallyTightThreshold: p.PracticallyTightThreshold,
	}
}

func payloadFromConfig(cfg recommend.Config, isCustom bool) EngineConfigPayload {
	return EngineConfigPayload{
		IsCustom:                  isCustom,
		Weights:                   cfg.Weights,
		StrategyPreferences:       cfg.StrategyPreferences,
		PracticallyTightThreshold: cfg.PracticallyTightThreshold,
		MaxRecommendations:        cfg.MaxRecommendations,
		ExtremeCutThreshold:       cfg.ExtremeCutThreshold,
	}
}

// PackingRulesResponse lists a store's custom rules alongside the effective
// rule set (custom rules override defaults).
type PackingRulesResponse struct {
	CustomRules    []rules.Rule `json:"custom_rules"`
	EffectiveRules []rules.Rule `json:"effective_rules"`
}

// PackingRulesUpdateRequest replaces all custom rules for a store.
type PackingRulesUpdateRequest struct {
	Rules []rules.Rule `json:"rules"`
}

// PackingConfigResponse combines the effective rules and engine config.
type PackingConfigResponse struct {
	Rules        []rules.Rule        `json:"rules"`
	EngineConfig EngineConfigPayload `json:"engine_config"`
}

// RecommendationRequest asks for ranked boxes for one item.
type RecommendationRequest struct {
	ItemDimensions models.Dimensions   `json:"item_dimensions"`
	PackingLevel   models.PackingLevel `json:"packing_level"`
}

// RecommendationResponse carries the ranked recommendation list.
type RecommendationResponse struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}

// StatusResponse acknowledges a successful mutation.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
