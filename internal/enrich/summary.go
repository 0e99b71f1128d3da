package enrich

import "math"

// Summary agrega un lote de resultados para los resúmenes de sync.
type Summary struct {
	Count            int     `json:"count"`
	Degraded         int     `json:"degraded"`
	TotalSpend       float64 `json:"total_spend"`
	TotalConversions int     `json:"total_conversions"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgScore         float64 `json:"average_attribution_score"`
	TopScore         float64 `json:"top_attribution_score"`
}

func Summarize(results []Result) Summary {
	var s Summary
	var scores float64
	var conv float64
	for _, r := range results {
		s.Count++
		if r.Degraded() {
			s.Degraded++
		}
		in := InputsFrom(r.Insight.RawInsight)
		s.TotalSpend += in.Spend
		s.TotalRevenue += in.ConversionValues
		conv += in.Conversions
		scores += r.Insight.AttributelyScore
		s.TopScore = math.Max(s.TopScore, r.Insight.AttributelyScore)
	}
	s.TotalConversions = int(conv)
	s.TotalSpend = round2(s.TotalSpend)
	s.TotalRevenue = round2(s.TotalRevenue)
	if s.Count > 0 {
		s.AvgScore = round2(scores / float64(s.Count))
	}
	return s
}
