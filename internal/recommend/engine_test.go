package recommend

import (
	"testing"

	"github.com/packhouse/boxpick/internal/models"
	"github.com/stretchr/testify/require"
)

// stubBox is a fixed-result box for engine tests.
type stubBox struct {
	name    string
	dims    models.Dimensions
	results []models.StrategyResult
}

func (b *stubBox) Name() string                  { return b.name }
func (b *stubBox) Dimensions() models.Dimensions { return b.dims }
func (b *stubBox) StrategyResults(_ models.Dimensions, _ models.PackingLevel) []models.StrategyResult {
	return b.results
}

func fits(strategy models.Strategy, price, score float64) models.StrategyResult {
	return models.StrategyResult{
		Strategy: strategy,
		Level:    models.LevelFits,
		Price:    price,
		Score:    score,
	}
}

func cutDown(price, score, depth float64, preScored bool) models.StrategyResult {
	r := fits(models.StrategyCutDown, price, score)
	r.IsPreScored = preScored
	r.CutDepth = &depth
	return r
}

func testConfig() Config {
	return Config{
		Weights: models.RecommendationWeights{Price: 1, Efficiency: 1, Ease: 1},
		StrategyPreferences: map[models.PreferenceKey]float64{
			models.PrefNormal:      0,
			models.PrefPreScored:   1,
			models.PrefFlattened:   2,
			models.PrefManualCut:   5,
			models.PrefTelescoping: 6,
			models.PrefCheating:    8,
		},
		MaxRecommendations:  10,
		ExtremeCutThreshold: 0.5,
	}
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

var testItem = models.Dimensions{8, 6, 4}

func TestNewEngine_MissingWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = models.RecommendationWeights{}
	if _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for missing weights")
	}
}

func TestNewEngine_MissingPreferences(t *testing.T) {
	cfg := testConfig()
	cfg.StrategyPreferences = nil
	if _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for missing strategy preferences")
	}
}

func TestNewEngine_MissingCutThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.ExtremeCutThreshold = 0
	if _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for missing extreme cut threshold")
	}
}

func TestNewEngine_DefaultsMaxRecommendations(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRecommendations = 0
	engine := mustEngine(t, cfg)
	if got := engine.Config().MaxRecommendations; got != DefaultMaxRecommendations {
		t.Errorf("expected default max recommendations %d, got %d", DefaultMaxRecommendations, got)
	}
}

func TestNewEngine_PreferenceOutOfRange(t *testing.T) {
	cfg := testConfig()
	cfg.StrategyPreferences[models.PrefCheating] = 11
	if _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for preference above 10")
	}
}

// Two boxes with hand-checked composite arithmetic. Box X is Normal
// (price 10, score 2); Box Y is a manual cut (price 8, score 5) above the
// extreme-cut threshold.
func TestRecommend_CompositeArithmetic(t *testing.T) {
	engine := mustEngine(t, testConfig())
	boxX := &stubBox{name: "X", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		fits(models.StrategyNormal, 10, 2),
	}}
	boxY := &stubBox{name: "Y", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		cutDown(8, 5, 9, false), // ratio 0.9, survives filtering
	}}

	recs := engine.Recommend([]Box{boxX, boxY}, testItem, models.PackingStandard)
	require.Len(t, recs, 2)

	// X: normPrice 1, normScore 0, penalty 0   → composite 1.0
	// Y: normPrice 0, normScore 1, penalty 0.5 → composite 1.5
	if recs[0].BoxName != "X" {
		t.Errorf("expected X ranked first, got %s", recs[0].BoxName)
	}
	require.InDelta(t, 1.0, recs[0].CompositeScore, 1e-9)
	require.InDelta(t, 1.5, recs[1].CompositeScore, 1e-9)
	require.InDelta(t, 1.0, recs[0].NormalizedPrice, 1e-9)
	require.InDelta(t, 0.0, recs[0].NormalizedScore, 1e-9)
	require.InDelta(t, 0.0, recs[1].NormalizedPrice, 1e-9)
	require.InDelta(t, 1.0, recs[1].NormalizedScore, 1e-9)
}

// Determinism: repeated calls return identical ordered output.
func TestRecommend_Deterministic(t *testing.T) {
	engine := mustEngine(t, testConfig())
	boxes := []Box{
		&stubBox{name: "A", dims: models.Dimensions{12, 10, 8}, results: []models.StrategyResult{
			fits(models.StrategyNormal, 12, 3),
			fits(models.StrategyFlattened, 9, 6),
		}},
		&stubBox{name: "B", dims: models.Dimensions{14, 12, 10}, results: []models.StrategyResult{
			fits(models.StrategyTelescoping, 15, 2),
			fits(models.StrategyCheating, 7, 8),
		}},
	}

	first := engine.Recommend(boxes, testItem, models.PackingStandard)
	for i := 0; i < 5; i++ {
		again := engine.Recommend(boxes, testItem, models.PackingStandard)
		require.Equal(t, first, again)
	}
}

// Bounded output: never more than MaxRecommendations entries.
func TestRecommend_BoundedOutput(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRecommendations = 2
	engine := mustEngine(t, cfg)

	var boxes []Box
	for _, name := range []string{"A", "B", "C", "D"} {
		boxes = append(boxes, &stubBox{
			name: name, dims: models.Dimensions{10, 10, 10},
			results: []models.StrategyResult{fits(models.StrategyNormal, float64(len(name))+5, 3)},
		})
	}

	recs := engine.Recommend(boxes, testItem, models.PackingStandard)
	if len(recs) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(recs))
	}
}

// Normalization range: every returned candidate stays in [0, 1] and the
// population minimum normalizes to exactly 0.
func TestRecommend_NormalizationRange(t *testing.T) {
	engine := mustEngine(t, testConfig())
	boxes := []Box{
		&stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
			fits(models.StrategyNormal, 5, 1),
			fits(models.StrategyFlattened, 12, 4),
			fits(models.StrategyCheating, 20, 9),
		}},
	}

	recs := engine.Recommend(boxes, testItem, models.PackingStandard)
	require.Len(t, recs, 3)

	sawZeroPrice, sawZeroScore := false, false
	for _, r := range recs {
		if r.NormalizedPrice < 0 || r.NormalizedPrice > 1 {
			t.Errorf("%s: normalized price %f out of range", r.BoxName, r.NormalizedPrice)
		}
		if r.NormalizedScore < 0 || r.NormalizedScore > 1 {
			t.Errorf("%s: normalized score %f out of range", r.BoxName, r.NormalizedScore)
		}
		if r.NormalizedPrice == 0 {
			sawZeroPrice = true
		}
		if r.NormalizedScore == 0 {
			sawZeroScore = true
		}
	}
	if !sawZeroPrice || !sawZeroScore {
		t.Error("expected the cheapest and tightest candidates to normalize to exactly 0")
	}
}

// Monotonic ranking: output sorted by non-decreasing composite score.
func TestRecommend_SortedByComposite(t *testing.T) {
	engine := mustEngine(t, testConfig())
	boxes := []Box{
		&stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
			fits(models.StrategyCheating, 6, 7),
			fits(models.StrategyNormal, 14, 2),
			fits(models.StrategyFlattened, 10, 5),
		}},
	}

	recs := engine.Recommend(boxes, testItem, models.PackingStandard)
	for i := 1; i < len(recs); i++ {
		if recs[i].CompositeScore < recs[i-1].CompositeScore {
			t.Errorf("composite scores not non-decreasing at %d: %f < %f",
				i, recs[i].CompositeScore, recs[i-1].CompositeScore)
		}
	}
}

// A manual cut removing too much material never appears, while the same
// depth on a pre-scored line is always considered valid.
func TestRecommend_ExtremeCutFiltering(t *testing.T) {
	engine := mustEngine(t, testConfig())

	manual := &stubBox{name: "manual", dims: models.Dimensions{10, 12, 14}, results: []models.StrategyResult{
		cutDown(8, 3, 1, false), // ratio 1/10 = 0.1 < 0.5 → extreme
	}}
	preScored := &stubBox{name: "prescored", dims: models.Dimensions{10, 12, 14}, results: []models.StrategyResult{
		cutDown(8, 3, 1, true), // same ratio, factory marked → kept
	}}

	recs := engine.Recommend([]Box{manual, preScored}, testItem, models.PackingStandard)
	require.Len(t, recs, 1)
	if recs[0].BoxName != "prescored" {
		t.Errorf("expected only the pre-scored cut to survive, got %s", recs[0].BoxName)
	}
}

// Nothing fits → empty list, not an error.
func TestRecommend_NothingFits(t *testing.T) {
	engine := mustEngine(t, testConfig())
	box := &stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		{Strategy: models.StrategyNormal, Level: models.LevelDoesNotFit, Price: 10, Score: 2},
		{Strategy: models.StrategyFlattened, Level: models.LevelTooTight, Price: 8, Score: 1},
	}}

	recs := engine.Recommend([]Box{box}, testItem, models.PackingStandard)
	require.NotNil(t, recs)
	if len(recs) != 0 {
		t.Errorf("expected empty result, got %d entries", len(recs))
	}
}

func TestRecommend_NoBoxes(t *testing.T) {
	engine := mustEngine(t, testConfig())
	recs := engine.Recommend(nil, testItem, models.PackingStandard)
	require.NotNil(t, recs)
	require.Empty(t, recs)
}

// Identical price and score across all candidates → every normalized
// value is 0 and ranking falls back to the ease penalty alone.
func TestRecommend_DegenerateNormalization(t *testing.T) {
	engine := mustEngine(t, testConfig())
	box := &stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		fits(models.StrategyCheating, 10, 4),  // penalty 0.8
		fits(models.StrategyNormal, 10, 4),    // penalty 0.0
		fits(models.StrategyFlattened, 10, 4), // penalty 0.2
	}}

	recs := engine.Recommend([]Box{box}, testItem, models.PackingStandard)
	require.Len(t, recs, 3)

	for _, r := range recs {
		require.Zero(t, r.NormalizedPrice)
		require.Zero(t, r.NormalizedScore)
	}
	require.Equal(t, models.StrategyNormal, recs[0].Strategy)
	require.Equal(t, models.StrategyFlattened, recs[1].Strategy)
	require.Equal(t, models.StrategyCheating, recs[2].Strategy)
}

// Ties keep generation order: boxes in input order, strategies in
// generator output order.
func TestRecommend_StableTieBreak(t *testing.T) {
	engine := mustEngine(t, testConfig())
	mk := func(name string) Box {
		return &stubBox{name: name, dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
			fits(models.StrategyNormal, 10, 4),
		}}
	}

	recs := engine.Recommend([]Box{mk("first"), mk("second"), mk("third")}, testItem, models.PackingStandard)
	require.Len(t, recs, 3)
	require.Equal(t, "first", recs[0].BoxName)
	require.Equal(t, "second", recs[1].BoxName)
	require.Equal(t, "third", recs[2].BoxName)
}

// Unknown preference keys fall back to the middle ease value instead of
// failing the whole call.
func TestRecommend_MissingPreferenceDefaults(t *testing.T) {
	cfg := testConfig()
	delete(cfg.StrategyPreferences, models.PrefTelescoping)
	engine := mustEngine(t, cfg)

	box := &stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		fits(models.StrategyTelescoping, 10, 4),
	}}

	recs := engine.Recommend([]Box{box}, testItem, models.PackingStandard)
	require.Len(t, recs, 1)
	// Lone candidate: both normalized values degenerate to 0, so the
	// composite is the ease weight times the fallback penalty 5/10.
	require.InDelta(t, 0.5, recs[0].CompositeScore, 1e-9)
}

// Efficiency flag: candidates within one standard deviation of the mean
// score are flagged; outliers are not.
func TestRecommend_EfficiencyFlag(t *testing.T) {
	engine := mustEngine(t, testConfig())
	box := &stubBox{name: "A", dims: models.Dimensions{10, 10, 10}, results: []models.StrategyResult{
		fits(models.StrategyNormal, 10, 1),
		fits(models.StrategyFlattened, 10, 1),
		fits(models.StrategyCheating, 10, 1),
		fits(models.StrategyTelescoping, 10, 20), // far outlier
	}}

	recs := engine.Recommend([]Box{box}, testItem, models.PackingStandard)
	require.Len(t, recs, 4)
	for _, r := range recs {
		wantEfficient := r.Score < 20
		if r.Efficient != wantEfficient {
			t.Errorf("strategy %s (score %g): efficient = %v, want %v", r.Strategy, r.Score, r.Efficient, wantEfficient)
		}
	}
}
