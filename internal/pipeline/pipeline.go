package pipeline

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/consolidate"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/pricerange"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

// Pipeline reduces the consolidated buyer population to the contacts
// qualified to receive a property notification. Stages run in a fixed order,
// cheapest first, short-circuiting per candidate on the first failure:
//
//  1. distribution flag
//  2. status exclusion
//  3. zone intersection
//  4. property-type compatibility
//  5. price range
//
// The per-candidate rejection trace is part of the result, not optional
// logging; diagnostic tooling consumes it.
type Pipeline struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Pipeline{logger: logger}
}

// Filter runs every consolidated buyer through the stage chain for one
// property and assembles the match result.
func (p *Pipeline) Filter(property *models.Property, buyers []models.ConsolidatedBuyer) *models.MatchResult {
	result := &models.MatchResult{
		PropertyID:     property.ID,
		PropertyNumber: property.Number,
		ZoneCodes:      property.ZoneCodes,
		StageRejects:   make(map[models.Stage]int),
		GeneratedAt:    time.Now(),
	}

	propertyZones := zone.Decompose(property.ZoneCodes)
	if len(propertyZones) == 0 {
		// Distribution never fires for a property with no resolved zone;
		// every candidate fails the zone stage. Surfaced as a warning so
		// operators see the missing geocoding, not a silent empty result.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("property %s has no resolved zones; the zone stage rejects every candidate", property.Number))
	}

	for i := range buyers {
		buyer := &buyers[i]
		trace := models.CandidateTrace{
			Email:        buyer.Email,
			BuyerNumbers: buyer.BuyerNumbers,
		}

		rejectedAt, unparseable := p.evaluate(property, propertyZones, buyer)
		trace.RejectedAt = rejectedAt
		if unparseable {
			result.UnparseablePrice++
		}

		result.Traces = append(result.Traces, trace)
		if trace.Passed() {
			result.Matched = append(result.Matched, models.MatchedContact{
				Email:        buyer.Email,
				BuyerNumbers: buyer.BuyerNumbers,
			})
		} else {
			result.StageRejects[rejectedAt]++
		}
	}

	sort.Slice(result.Matched, func(i, j int) bool {
		return result.Matched[i].Email < result.Matched[j].Email
	})

	p.logger.WithFields(logrus.Fields{
		"property":          property.Number,
		"zone_codes":        property.ZoneCodes,
		"candidates":        len(buyers),
		"matched":           len(result.Matched),
		"unparseable_price": result.UnparseablePrice,
	}).Info("Completed candidate filtering")

	return result
}

// evaluate runs one candidate through the stage chain. It returns the stage
// that rejected the candidate ("" when all passed) and whether a price-stage
// rejection was caused purely by unparseable text.
func (p *Pipeline) evaluate(property *models.Property, propertyZones zone.SymbolSet, buyer *models.ConsolidatedBuyer) (models.Stage, bool) {
	if !buyer.DistributionEligible {
		return models.StageDistributionFlag, false
	}
	if consolidate.StatusExcluded(buyer.StatusCode) {
		return models.StageStatus, false
	}
	if !zone.Decompose(buyer.DesiredZones).Intersects(propertyZones) {
		return models.StageZone, false
	}
	// No stated type preference skips the stage entirely.
	if len(buyer.DesiredPropertyTypes) > 0 && !typeCompatible(buyer.DesiredPropertyTypes, property.PropertyType) {
		return models.StagePropertyType, false
	}

	texts := buyer.PriceRanges[property.PropertyType]
	if len(texts) == 0 {
		// No price text for this category means no restriction.
		return "", false
	}
	// Conflicting duplicate texts resolve most-permissive: any match wins.
	allUnparseable := true
	for _, text := range texts {
		r := pricerange.Parse(text)
		if r.Kind != pricerange.Unparseable {
			allUnparseable = false
		}
		if r.Matches(property.Price) {
			return "", false
		}
	}
	return models.StagePrice, allUnparseable
}
