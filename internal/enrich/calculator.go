package enrich

import "github.com/AngelCh415/attributely-go/internal/models"

// Inputs son los campos crudos ya convertidos a float.
type Inputs struct {
	Impressions      float64
	Clicks           float64
	Spend            float64
	Conversions      float64
	ConversionValues float64
	Reach            float64
	CTR              float64
}

func InputsFrom(raw models.RawInsight) Inputs {
	return Inputs{
		Impressions:      Float(raw.Impressions),
		Clicks:           Float(raw.Clicks),
		Spend:            Float(raw.Spend),
		Conversions:      Float(raw.Conversions),
		ConversionValues: Float(raw.ConversionValues),
		Reach:            Float(raw.Reach),
		CTR:              Float(raw.CTR),
	}
}

// Calculate deriva las ocho métricas. Cada denominador se revisa por separado;
// sin redondeo en esta etapa.
func Calculate(in Inputs) models.CalculatedMetrics {
	return models.CalculatedMetrics{
		CostPerClick:       safeDivF(in.Spend, in.Clicks),
		ConversionRate:     pct(in.Conversions, in.Clicks),
		CostPerAcquisition: safeDivF(in.Spend, in.Conversions),
		ReturnOnAdSpend:    safeDivF(in.ConversionValues, in.Spend),
		ProfitMargin:       pct(in.ConversionValues-in.Spend, in.ConversionValues),
		EfficiencyScore:    safeDivF(in.Conversions*in.ConversionValues, in.Spend*in.Impressions),
		ReachRate:          pct(in.Reach, in.Impressions),
		CostPerReach:       safeDivF(in.Spend, in.Reach),
	}
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finite(finite(a) / b)
}

func pct(a, b float64) float64 { return finite(safeDivF(a, b) * 100) }
