// Package configstore persists per-store overrides of the recommendation
// engine configuration and packing rules in SQLite. Stores without custom
// rows fall back to the defaults in the rules package.
package configstore

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/recommend"
	"github.com/packhouse/boxpick/internal/rules"
)

const schema = `
CREATE TABLE IF NOT EXISTS store_engine_config (
	store_id                    TEXT PRIMARY KEY,
	weight_price                REAL NOT NULL,
	weight_efficiency           REAL NOT NULL,
	weight_ease                 REAL NOT NULL,
	strategy_normal             REAL NOT NULL,
	strategy_prescored          REAL NOT NULL,
	strategy_flattened          REAL NOT NULL,
	strategy_manual_cut         REAL NOT NULL,
	strategy_telescoping        REAL NOT NULL,
	strategy_cheating           REAL NOT NULL,
	practically_tight_threshold REAL NOT NULL,
	max_recommendations         INTEGER NOT NULL,
	extreme_cut_threshold       REAL NOT NULL,
	updated_at                  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS store_packing_rules (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	store_id           TEXT NOT NULL,
	packing_type       TEXT NOT NULL,
	padding_inches     REAL NOT NULL,
	wizard_description TEXT NOT NULL,
	label_instructions TEXT NOT NULL,
	UNIQUE (store_id, packing_type)
);
`

// Store manages per-store configuration in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StoredEngineConfig is an engine configuration plus whether it came from a
// custom row or the defaults.
type StoredEngineConfig struct {
	recommend.Config
	IsCustom bool
}

// EngineConfig returns the store's custom engine configuration, or the
// defaults when none has been saved.
func (s *Store) EngineConfig(storeID string) (StoredEngineConfig, error) {
	row := s.db.QueryRow(`
		SELECT weight_price, weight_efficiency, weight_ease,
		       strategy_normal, strategy_prescored, strategy_flattened,
		       strategy_manual_cut, strategy_telescoping, strategy_cheating,
		       practically_tight_threshold, max_recommendations, extreme_cut_threshold
		FROM store_engine_config WHERE store_id = ?`, storeID)

	var cfg recommend.Config
	var prefNormal, prefPreScored, prefFlattened, prefManualCut, prefTelescoping, prefCheating float64
	err := row.Scan(
		&cfg.Weights.Price, &cfg.Weights.Efficiency, &cfg.Weights.Ease,
		&prefNormal, &prefPreScored, &prefFlattened,
		&prefManualCut, &prefTelescoping, &prefCheating,
		&cfg.PracticallyTightThreshold, &cfg.MaxRecommendations, &cfg.ExtremeCutThreshold,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredEngineConfig{Config: rules.DefaultEngineConfig()}, nil
	}
	if err != nil {
		return StoredEngineConfig{}, fmt.Errorf("load engine config: %w", err)
	}

	cfg.StrategyPreferences = map[models.PreferenceKey]float64{
		models.PrefNormal:      prefNormal,
		models.PrefPreScored:   prefPreScored,
		models.PrefFlattened:   prefFlattened,
		models.PrefManualCut:   prefManualCut,
		models.PrefTelescoping: prefTelescoping,
		models.PrefCheating:    prefCheating,
	}
	return StoredEngineConfig{Config: cfg, IsCustom: true}, nil
}

// SetEngineConfig validates and upserts a store's engine configuration.
func (s *Store) SetEngineConfig(storeID string, cfg recommend.Config) error {
	if err := ValidateEngineConfig(cfg); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO store_engine_config (
			store_id, weight_price, weight_efficiency, weight_ease,
			strategy_normal, strategy_prescored, strategy_flattened,
			strategy_manual_cut, strategy_telescoping, strategy_cheating,
			practically_tight_threshold, max_recommendations, extreme_cut_threshold,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		storeID,
		cfg.Weights.Price, cfg.Weights.Efficiency, cfg.Weights.Ease,
		cfg.StrategyPreferences[models.PrefNormal],
		cfg.StrategyPreferences[models.PrefPreScored],
		cfg.StrategyPreferences[models.PrefFlattened],
		cfg.StrategyPreferences[models.PrefManualCut],
		cfg.StrategyPreferences[models.PrefTelescoping],
		cfg.StrategyPreferences[models.PrefCheating],
		cfg.PracticallyTightThreshold, cfg.MaxRecommendations, cfg.ExtremeCutThreshold,
	)
	if err != nil {
		return fmt.Errorf("save engine config: %w", err)
	}
	return nil
}

// ResetEngineConfig removes a store's custom engine configuration so it
// falls back to the defaults.
func (s *Store) ResetEngineConfig(storeID string) error {
	if _, err := s.db.Exec(`DELETE FROM store_engine_config WHERE store_id = ?`, storeID); err != nil {
		return fmt.Errorf("reset engine config: %w", err)
	}
	return nil
}

// ValidateEngineConfig applies the admin-API validation rules: weights must
// sum to 1.0, strategy preferences must stay in [0, 10], and the extreme
// cut threshold must be in (0, 1]. Stricter than engine construction, which
// accepts any non-negative weights.
func ValidateEngineConfig(cfg recommend.Config) error {
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0 (current sum: %g)", sum)
	}
	for key, v := range cfg.StrategyPreferences {
		if v < 0 || v > 10 {
			return fmt.Errorf("strategy preference %q must be between 0 and 10", key)
		}
	}
	if cfg.ExtremeCutThreshold <= 0 || cfg.ExtremeCutThreshold > 1 {
		return errors.New("extreme cut threshold must be between 0 and 1")
	}
	if cfg.MaxRecommendations <= 0 {
		return errors.New("max recommendations must be positive")
	}
	return nil
}

// PackingRules returns the store's custom rules plus the effective rule set
// (custom rules override the defaults), sorted in display order.
func (s *Store) PackingRules(storeID string) (custom, effective []rules.Rule, err error) {
	rows, err := s.db.Query(`
		SELECT packing_type, padding_inches, wizard_description, label_instructions
		FROM store_packing_rules WHERE store_id = ? ORDER BY packing_type`, storeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load packing rules: %w", err)
	}
	defer rows.Close()

	custom = []rules.Rule{}
	for rows.Next() {
		r := rules.Rule{IsCustom: true}
		if err := rows.Scan(&r.PackingLevel, &r.PaddingInches, &r.WizardDescription, &r.LabelInstructions); err != nil {
			return nil, nil, fmt.Errorf("scan packing rule: %w", err)
		}
		custom = append(custom, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load packing rules: %w", err)
	}

	used := make(map[models.PackingLevel]bool, len(custom))
	effective = append(effective, custom...)
	for _, r := range custom {
		used[r.PackingLevel] = true
	}
	for _, r := range rules.AllDefaultRules() {
		if !used[r.PackingLevel] {
			effective = append(effective, r)
		}
	}
	sort.SliceStable(effective, func(a, b int) bool {
		return models.PackingLevelOrder(effective[a].PackingLevel) < models.PackingLevelOrder(effective[b].PackingLevel)
	})
	return custom, effective, nil
}

// SetPackingRules replaces all of a store's custom packing rules. Each
// packing type may appear at most once.
func (s *Store) SetPackingRules(storeID string, rs []rules.Rule) error {
	seen := make(map[models.PackingLevel]bool, len(rs))
	for _, r := range rs {
		if seen[r.PackingLevel] {
			return fmt.Errorf("duplicate packing type: %s", r.PackingLevel)
		}
		seen[r.PackingLevel] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM store_packing_rules WHERE store_id = ?`, storeID); err != nil {
		return fmt.Errorf("clear packing rules: %w", err)
	}
	for _, r := range rs {
		_, err := tx.Exec(`
			INSERT INTO store_packing_rules
				(store_id, packing_type, padding_inches, wizard_description, label_instructions)
			VALUES (?, ?, ?, ?, ?)`,
			storeID, r.PackingLevel, r.PaddingInches, r.WizardDescription, r.LabelInstructions)
		if err != nil {
			return fmt.Errorf("insert packing rule %s: %w", r.PackingLevel, err)
		}
	}
	return tx.Commit()
}

// ResetPackingRules removes all of a store's custom packing rules.
func (s *Store) ResetPackingRules(storeID string) error {
	if _, err := s.db.Exec(`DELETE FROM store_packing_rules WHERE store_id = ?`, storeID); err != nil {
		return fmt.Errorf("reset packing rules: %w", err)
	}
	return nil
}

// PackingRequirements returns the effective rule for one packing level:
// the store's custom rule when present, otherwise the default.
func (s *Store) PackingRequirements(storeID string, level models.PackingLevel) (rules.Rule, error) {
	row := s.db.QueryRow(`
		SELECT packing_type, padding_inches, wizard_description, label_instructions
		FROM store_packing_rules WHERE store_id = ? AND packing_type = ?`, storeID, level)

	r := rules.Rule{IsCustom: true}
	err := row.Scan(&r.PackingLevel, &r.PaddingInches, &r.WizardDescription, &r.LabelInstructions)
	if errors.Is(err, sql.ErrNoRows) {
		return rules.DefaultRule(level)
	}
	if err != nil {
		return rules.Rule{}, fmt.Errorf("load packing requirements: %w", err)
	}
	return r, nil
}
