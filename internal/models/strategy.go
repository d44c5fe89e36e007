package models

// Strategy identifies a named packing approach for fitting an item into a box.
type Strategy string

const (
	StrategyNormal      Strategy = "normal"
	StrategyCutDown     Strategy = "cut_down"
	StrategyTelescoping Strategy = "telescoping"
	StrategyCheating    Strategy = "cheating"
	StrategyFlattened   Strategy = "flattened"
)

// RecommendationLevel classifies whether a strategy result actually fits the
// item at the requested packing level.
type RecommendationLevel string

const (
	LevelFits       RecommendationLevel = "fits"
	LevelDoesNotFit RecommendationLevel = "does_not_fit"
	LevelTooTight   RecommendationLevel = "too_tight"
)

// PreferenceKey is the lookup key into the ease-of-handling preference table.
type PreferenceKey string

const (
	PrefNormal      PreferenceKey = "normal"
	PrefPreScored   PreferenceKey = "prescored"
	PrefManualCut   PreferenceKey = "manual_cut"
	PrefFlattened   PreferenceKey = "flattened"
	PrefTelescoping PreferenceKey = "telescoping"
	PrefCheating    PreferenceKey = "cheating"
)

// PreferenceKeyFor maps a strategy to its ease-preference key. Cut Down
// splits on whether the cut depth is factory pre-scored; unrecognized
// strategies fall back to manual_cut so new strategy types degrade to a
// middling ease score instead of blocking recommendations.
func PreferenceKeyFor(s Strategy, preScored bool) PreferenceKey {
	switch s {
	case StrategyNormal:
		return PrefNormal
	case StrategyCutDown:
		if preScored {
			return PrefPreScored
		}
		return PrefManualCut
	case StrategyFlattened:
		return PrefFlattened
	case StrategyTelescoping:
		return PrefTelescoping
	case StrategyCheating:
		return PrefCheating
	default:
		return PrefManualCut
	}
}

// PackingLevel is a named protection tier that determines required padding
// and which strategies the generator evaluates.
type PackingLevel string

const (
	PackingBasic    PackingLevel = "Basic"
	PackingStandard PackingLevel = "Standard"
	PackingFragile  PackingLevel = "Fragile"
	PackingCustom   PackingLevel = "Custom"
)

// PackingLevelOrder gives the display ordering of packing levels. Unknown
// levels sort last.
func PackingLevelOrder(l PackingLevel) int {
	switch l {
	case PackingBasic:
		return 0
	case PackingStandard:
		return 1
	case PackingFragile:
		return 2
	case PackingCustom:
		return 3
	default:
		return 999
	}
}
