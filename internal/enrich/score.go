package enrich

import (
	"math"

	"github.com/AngelCh415/attributely-go/internal/models"
)

// Pesos del attribution score. Son parte del modelo, no configuración.
const (
	WeightCTR            = 0.20
	WeightConversionRate = 0.30
	ROASFactor           = 35
	EfficiencyAmplifier  = 1000
	WeightEfficiency     = 0.15

	MinScore = 0
	MaxScore = 100
)

// AttributionScore combina CTR, conversion rate, ROAS y eficiencia en [0,100],
// redondeado a 2 decimales. Un resultado no finito vale 0.
func AttributionScore(ctr float64, m models.CalculatedMetrics) float64 {
	raw := ctr*WeightCTR +
		m.ConversionRate*WeightConversionRate +
		m.ReturnOnAdSpend*ROASFactor +
		m.EfficiencyScore*EfficiencyAmplifier*WeightEfficiency
	if math.IsNaN(raw) {
		return 0
	}
	return round2(math.Min(MaxScore, math.Max(MinScore, raw)))
}

type Grade string

const (
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeF  Grade = "F"
	GradeNA Grade = "N/A"
)

// límites inferiores, evaluados de mayor a menor
const (
	thresholdA = 80
	thresholdB = 65
	thresholdC = 50
	thresholdD = 35
)

func GradeFor(score float64) Grade {
	switch {
	case score >= thresholdA:
		return GradeA
	case score >= thresholdB:
		return GradeB
	case score >= thresholdC:
		return GradeC
	case score >= thresholdD:
		return GradeD
	default:
		return GradeF
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
