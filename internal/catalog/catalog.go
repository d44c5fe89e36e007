// Package catalog loads box catalog files. A catalog carries the output of
// the external strategy generator as data: every box lists its evaluated
// strategy results per packing level, so the engine can rank them without
// knowing anything about corrugate geometry.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/recommend"
	"github.com/packhouse/boxpick/internal/validation"
)

// Catalog is a named collection of boxes available to a store.
type Catalog struct {
	Name  string `mapstructure:"name"`
	Boxes []*Box `mapstructure:"boxes"`
}

// Box is a catalog entry with precomputed strategy results. It satisfies
// the engine's Box contract.
type Box struct {
	BoxName         string            `mapstructure:"name"`
	Dims            models.Dimensions `mapstructure:"dimensions"`
	PreScoredDepths []float64         `mapstructure:"prescored_depths"`

	Levels map[models.PackingLevel][]models.StrategyResult `mapstructure:"levels"`
}

// Name returns the box's display name.
func (b *Box) Name() string { return b.BoxName }

// Dimensions returns the box's outer dimensions.
func (b *Box) Dimensions() models.Dimensions { return b.Dims }

// StrategyResults returns the precomputed results for a packing level. The
// item dimensions are part of the generator contract but a precomputed
// catalog is already specific to one item, so they are not consulted here.
func (b *Box) StrategyResults(_ models.Dimensions, level models.PackingLevel) []models.StrategyResult {
	return b.Levels[level]
}

// EngineBoxes returns the catalog's boxes as the engine's Box interface.
func (c *Catalog) EngineBoxes() []recommend.Box {
	boxes := make([]recommend.Box, len(c.Boxes))
	for i, b := range c.Boxes {
		boxes[i] = b
	}
	return boxes
}

// Load reads, validates, and decodes a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw YAML catalog bytes against the catalog schema and
// decodes them into a Catalog.
func Parse(data []byte) (*Catalog, error) {
	if errs := validation.ValidateCatalogBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	var c Catalog
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &c, nil
}
