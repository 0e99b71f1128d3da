package enrich

import "github.com/AngelCh415/attributely-go/internal/models"

const (
	RecOptimizeCreative = "🎯 Optimize ad creative - conversion rate below 2%"
	RecIncreaseROAS     = "💰 Increase ROAS - target higher value audiences"
	RecScaleBudget      = "🚀 Excellent ROAS - consider scaling budget"
	RecRefineTargeting  = "💡 High CPC detected - refine targeting"
	RecReviewStrategy   = "⚠️ Low attribution score - review campaign strategy"
	RecDuplicate        = "⭐ High-performing campaign - duplicate strategy"
)

const (
	minConversionRate = 2
	lowROAS           = 3
	highROAS          = 8
	maxCPC            = 2
	lowScore          = 40
	highScore         = 70

	MaxRecommendations = 3
)

// Recommendations evalúa las reglas en orden fijo (conversion rate, ROAS, CPC,
// score) y se queda con las primeras tres.
func Recommendations(m models.CalculatedMetrics, score float64) []string {
	recs := make([]string, 0, 4)
	if m.ConversionRate < minConversionRate {
		recs = append(recs, RecOptimizeCreative)
	}
	if m.ReturnOnAdSpend < lowROAS {
		recs = append(recs, RecIncreaseROAS)
	} else if m.ReturnOnAdSpend > highROAS {
		recs = append(recs, RecScaleBudget)
	}
	if m.CostPerClick > maxCPC {
		recs = append(recs, RecRefineTargeting)
	}
	if score < lowScore {
		recs = append(recs, RecReviewStrategy)
	} else if score > highScore {
		recs = append(recs, RecDuplicate)
	}
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
