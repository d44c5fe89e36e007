// Package recommend ranks already-priced packing strategies for an item
// into a short ordered list of annotated recommendations.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/packhouse/boxpick/internal/metrics"
	"github.com/packhouse/boxpick/internal/models"
)

// DefaultMaxRecommendations caps the output size when the configuration
// does not specify one.
const DefaultMaxRecommendations = 10

// defaultPreference is the ease score assumed for strategy categories
// missing from the preference table.
const defaultPreference = 5.0

// Box is the engine's only contract with the surrounding application: a box
// exposes its display fields and a generator that evaluates every packing
// strategy for a given item and packing level. The engine never computes
// geometric feasibility itself; it only ranks results already tagged as
// fitting.
type Box interface {
	Name() string
	Dimensions() models.Dimensions
	StrategyResults(item models.Dimensions, level models.PackingLevel) []models.StrategyResult
}

// Config holds the scoring weights and policy knobs for an Engine. Weights
// and StrategyPreferences have no implicit defaults: silently substituted
// weights would change recommendation quality in a way that is hard to
// detect downstream, so construction fails instead.
type Config struct {
	Weights             models.RecommendationWeights
	StrategyPreferences map[models.PreferenceKey]float64

	// MaxRecommendations caps the output size. Zero means DefaultMaxRecommendations.
	MaxRecommendations int

	// ExtremeCutThreshold discards manual cuts that remove too much of the
	// box's shortest dimension. Required, in (0, 1].
	ExtremeCutThreshold float64

	// PracticallyTightThreshold is carried for store configuration parity;
	// the efficiency flag itself is derived from population statistics.
	PracticallyTightThreshold float64
}

// Engine is a pure, stateless ranking engine over (box, strategy, price,
// score) tuples. Safe for concurrent use: configuration is read-only after
// construction and every call works on freshly built candidates.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine. Weights, strategy
// preferences, and the extreme-cut threshold are all required.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Weights.IsZero() {
		return nil, errors.New("recommend: weights are required")
	}
	if cfg.Weights.Price < 0 || cfg.Weights.Efficiency < 0 || cfg.Weights.Ease < 0 {
		return nil, errors.New("recommend: weights must be non-negative")
	}
	if cfg.StrategyPreferences == nil {
		return nil, errors.New("recommend: strategy preferences are required")
	}
	for key, v := range cfg.StrategyPreferences {
		if v < 0 || v > 10 {
			return nil, fmt.Errorf("recommend: strategy preference %q out of range [0, 10]: %g", key, v)
		}
	}
	if cfg.ExtremeCutThreshold <= 0 || cfg.ExtremeCutThreshold > 1 {
		return nil, fmt.Errorf("recommend: extreme cut threshold out of range (0, 1]: %g", cfg.ExtremeCutThreshold)
	}
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = DefaultMaxRecommendations
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// candidate is one (box, strategy) pairing that fits the item. Candidates
// are rebuilt on every Recommend call and discarded when it returns.
type candidate struct {
	box             Box
	result          models.StrategyResult
	strategyPenalty float64
	normScore       float64
	normPrice       float64
	composite       float64
	efficient       bool
}

// Recommend generates candidates for every box, filters out impractical
// cuts, and ranks the survivors by the weighted combination of normalized
// price, normalized fit score, and strategy ease. Returns an empty list
// (not an error) when nothing fits.
func (e *Engine) Recommend(boxes []Box, item models.Dimensions, level models.PackingLevel) []models.Recommendation {
	candidates := e.generateCandidates(boxes, item, level)
	if len(candidates) == 0 {
		return []models.Recommendation{}
	}

	stats := populationStats(candidates)
	e.normalize(candidates, stats)
	e.rank(candidates)

	top := candidates
	if len(top) > e.cfg.MaxRecommendations {
		top = top[:e.cfg.MaxRecommendations]
	}

	recs := make([]models.Recommendation, len(top))
	for i, c := range top {
		recs[i] = models.Recommendation{
			BoxName:         c.box.Name(),
			BoxDimensions:   c.box.Dimensions(),
			Strategy:        c.result.Strategy,
			Price:           c.result.Price,
			Score:           c.result.Score,
			NormalizedPrice: c.normPrice,
			NormalizedScore: c.normScore,
			CompositeScore:  c.composite,
			IsPreScored:     c.result.IsPreScored,
			CutDepth:        c.result.CutDepth,
			Comment:         c.result.Comment,
			Efficient:       c.efficient,
		}
	}

	// Superlative tags compare against the full filtered population, not
	// just the entries that made the cut.
	applyTags(recs, stats)
	return recs
}

// generateCandidates collects every fitting strategy result across all
// boxes, discarding manual cuts that would remove more than
// 1 - ExtremeCutThreshold of the box's shortest dimension. Pre-scored cuts
// are never filtered: factory-marked depths are always considered valid.
func (e *Engine) generateCandidates(boxes []Box, item models.Dimensions, level models.PackingLevel) []*candidate {
	var candidates []*candidate
	for _, box := range boxes {
		for _, result := range box.StrategyResults(item, level) {
			if result.Level != models.LevelFits {
				continue
			}
			if e.isExtremeCut(box, result) {
				continue
			}
			candidates = append(candidates, &candidate{
				box:             box,
				result:          result,
				strategyPenalty: e.penalty(result),
			})
		}
	}
	return candidates
}

// isExtremeCut reports whether a manual Cut Down result cuts the box down
// below the configured fraction of its shortest dimension.
func (e *Engine) isExtremeCut(box Box, result models.StrategyResult) bool {
	if result.Strategy != models.StrategyCutDown || result.IsPreScored || result.CutDepth == nil {
		return false
	}
	minDim := box.Dimensions().Min()
	if minDim <= 0 {
		return false
	}
	return *result.CutDepth/minDim < e.cfg.ExtremeCutThreshold
}

// penalty maps the strategy's ease preference into [0, 1].
func (e *Engine) penalty(result models.StrategyResult) float64 {
	key := models.PreferenceKeyFor(result.Strategy, result.IsPreScored)
	pref, ok := e.cfg.StrategyPreferences[key]
	if !ok {
		pref = defaultPreference
	}
	return pref / 10
}

// populationStats computes score and price statistics across the full
// filtered candidate set. The results are scoped to this one call: ranking
// is always relative to the current item and packing level, never absolute.
func populationStats(candidates []*candidate) models.PopulationStats {
	scores := make([]float64, len(candidates))
	prices := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = c.result.Score
		prices[i] = c.result.Price
	}

	minScore, maxScore := metrics.MinMax(scores)
	minPrice, maxPrice := metrics.MinMax(prices)
	return models.PopulationStats{
		MeanScore: metrics.Mean(scores),
		StdDev:    metrics.StdDev(scores),
		MinScore:  minScore,
		MaxScore:  maxScore,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
	}
}

// normalize populates each candidate's min-max normalized score and price
// and flags candidates whose raw score stays within one standard deviation
// of the population mean.
func (e *Engine) normalize(candidates []*candidate, stats models.PopulationStats) {
	threshold := stats.MeanScore + stats.StdDev
	for _, c := range candidates {
		c.normScore = metrics.Normalize(c.result.Score, stats.MinScore, stats.MaxScore)
		c.normPrice = metrics.Normalize(c.result.Price, stats.MinPrice, stats.MaxPrice)
		c.efficient = c.result.Score <= threshold
	}
}

// rank computes the composite score and sorts ascending: cheaper, tighter
// fit, easier to execute, in proportion to the configured weights. The sort
// is stable, so ties keep their generation order (boxes in input order,
// strategies in generator output order).
func (e *Engine) rank(candidates []*candidate) {
	w := e.cfg.Weights
	for _, c := range candidates {
		c.composite = w.Price*c.normPrice + w.Efficiency*c.normScore + w.Ease*c.strategyPenalty
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].composite < candidates[b].composite
	})
}
