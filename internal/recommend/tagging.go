package recommend

import (
	"fmt"
	"regexp"

	"github.com/packhouse/boxpick/internal/models"
)

// Tag classes consumed by the storefront UI.
const (
	TagClassStandard   = "standard"
	TagClassPreScored  = "pre-scored"
	TagClassManualCut  = "manual-cut"
	TagClassMultiBox   = "multi-box"
	TagClassDiagonal   = "diagonal"
	TagClassFlat       = "flat"
	TagClassLowestCost = "lowest-cost"
	TagClassEfficient  = "efficient"
)

var telescopingBoxCount = regexp.MustCompile(`(\d+) boxes`)

// applyTags attaches the per-strategy base tag plus the population-wide
// superlatives to each returned recommendation. The superlative thresholds
// come from the whole filtered candidate set, so a "Lowest Price" badge
// always reflects the true global minimum for this call.
func applyTags(recs []models.Recommendation, stats models.PopulationStats) {
	for i := range recs {
		rec := &recs[i]
		baseTag(rec)

		if rec.Price == stats.MinPrice {
			appendTag(rec, "Lowest Price")
			rec.TagClass = TagClassLowestCost
		}
		if rec.Score == stats.MinScore {
			appendTag(rec, "Tightest Fit")
			// Lowest Price wins the class slot when both apply.
			if rec.TagClass == "" {
				rec.TagClass = TagClassEfficient
			}
		}
	}
}

// baseTag sets the strategy's display tag, machine-readable class, and
// reason text. Unknown strategies get no base annotation and rely on the
// superlative pass alone.
func baseTag(rec *models.Recommendation) {
	switch rec.Strategy {
	case models.StrategyNormal:
		rec.Tag = "No Modifications"
		rec.TagClass = TagClassStandard
		rec.Reason = "Standard box, no modifications needed"
	case models.StrategyCutDown:
		if rec.IsPreScored {
			rec.Tag = "Pre-Scored Cut"
			rec.TagClass = TagClassPreScored
			if rec.CutDepth != nil {
				rec.Reason = fmt.Sprintf("Pre-marked at %g\" depth", *rec.CutDepth)
			}
		} else {
			rec.Tag = "Manual Cut Required"
			rec.TagClass = TagClassManualCut
			if rec.CutDepth != nil {
				rec.Reason = fmt.Sprintf("Cut to %g\" depth", *rec.CutDepth)
			}
		}
	case models.StrategyTelescoping:
		rec.Tag = "Multiple Boxes"
		rec.TagClass = TagClassMultiBox
		// Box count comes from the generator's comment; no reason when absent.
		if m := telescopingBoxCount.FindStringSubmatch(rec.Comment); m != nil {
			rec.Reason = fmt.Sprintf("Uses %s boxes", m[1])
		}
	case models.StrategyCheating:
		rec.Tag = "Diagonal Pack"
		rec.TagClass = TagClassDiagonal
		rec.Reason = "Item packed diagonally"
	case models.StrategyFlattened:
		rec.Tag = "Flat Pack"
		rec.TagClass = TagClassFlat
		rec.Reason = "Box laid flat"
	}
}

func appendTag(rec *models.Recommendation, text string) {
	if rec.Tag != "" {
		rec.Tag += " • " + text
		return
	}
	rec.Tag = text
}
