package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/models"
)

const (
	syncCampaignLimit       = 10
	summaryFetchLimit       = 15
	summaryCampaignLimit    = 8
	comparisonFetchLimit    = 10
	comparisonCampaignLimit = 5

	conversionLiftFactor = 1.15
	revenueLiftFactor    = 1.18
	predictionFactor     = 0.7
	predictedROASFactor  = 1.05
)

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// insightsOrNil devuelve nil si la campaña no tiene insights o si la llamada
// falla; una campaña rota no tumba el sync completo.
func (m *MetaClient) insightsOrNil(ctx context.Context, campaignID, preset string) *models.EnrichedInsight {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil
	}
	ins, err := m.CampaignInsights(ctx, campaignID, preset)
	if err != nil {
		if !errors.Is(err, ErrNoInsights) {
			m.log.Warn("campaign insights skipped",
				slog.String("campaign_id", campaignID),
				slog.String("err", err.Error()))
		}
		return nil
	}
	return ins
}

// present trata como ausentes nil, "" y el cero numérico; un string como
// "0.00" cuenta como informado.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	default:
		return enrich.Float(v) != 0
	}
}

func spendOf(ins *models.EnrichedInsight) float64 {
	if ins.CalculatedMetrics == nil {
		return 0
	}
	return ins.CalculatedMetrics.CostPerClick * enrich.Float(ins.Clicks)
}

// SyncAccount sincroniza las primeras campañas de la cuenta con insights enriquecidos.
func (m *MetaClient) SyncAccount(ctx context.Context, accountID string) (*SyncReport, error) {
	start := m.now()
	campaigns, err := m.Campaigns(ctx, accountID, DefaultCampaignLimit)
	if err != nil {
		return nil, err
	}

	synced := make([]SyncedCampaign, 0, syncCampaignLimit)
	var totalSpend, totalConversions, topScore float64
	for _, c := range firstN(campaigns, syncCampaignLimit) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ins := m.insightsOrNil(ctx, c.ID, DefaultDatePreset)
		synced = append(synced, SyncedCampaign{
			Campaign: c,
			Insights: ins,
			LastSync: m.now().UTC().Format(time.RFC3339),
		})
		if ins == nil {
			continue
		}
		totalSpend += spendOf(ins)
		totalConversions += enrich.Float(ins.Conversions)
		if ins.AttributelyScore > topScore {
			topScore = ins.AttributelyScore
		}
	}

	// el promedio divide el mejor score entre el total de campañas
	var avg float64
	if len(synced) > 0 {
		avg = topScore / float64(len(synced))
	}
	end := m.now()
	m.log.Info("meta account synced",
		slog.String("ad_account_id", accountID),
		slog.Int("campaigns", len(synced)))
	return &SyncReport{
		Status:          "success",
		AdAccountID:     accountID,
		CampaignsSynced: len(synced),
		Campaigns:       synced,
		Summary: SyncSummary{
			TotalSpend:              round2(totalSpend),
			TotalConversions:        int(totalConversions),
			AverageAttributionScore: round2(avg),
			TopAttributionScore:     topScore,
		},
		SyncTimestamp:       end.UTC().Format(time.RFC3339),
		SyncDurationSeconds: round2(end.Sub(start).Seconds()),
	}, nil
}

// PerformanceSummary agrega las campañas con gasto del periodo pedido.
func (m *MetaClient) PerformanceSummary(ctx context.Context, accountID, preset string) (*PerformanceSummary, error) {
	campaigns, err := m.Campaigns(ctx, accountID, summaryFetchLimit)
	if err != nil {
		return nil, err
	}

	var t PerformanceTotals
	out := make([]SyncedCampaign, 0, summaryCampaignLimit)
	var scoreSum float64
	for _, c := range firstN(campaigns, summaryCampaignLimit) {
		ins := m.insightsOrNil(ctx, c.ID, preset)
		if ins == nil || !present(ins.Spend) {
			continue
		}
		out = append(out, SyncedCampaign{Campaign: c, Insights: ins})
		t.TotalSpend += enrich.Float(ins.Spend)
		t.TotalConversions += enrich.Float(ins.Conversions)
		t.TotalRevenue += enrich.Float(ins.ConversionValues)
		t.TotalClicks += enrich.Float(ins.Clicks)
		t.TotalImpressions += enrich.Float(ins.Impressions)
		scoreSum += ins.AttributelyScore
		if ins.AttributelyScore > t.BestAttributionScore {
			t.BestAttributionScore = ins.AttributelyScore
			name := c.Name
			t.TopCampaign = &name
		}
	}

	t.CampaignsAnalyzed = len(out)
	if len(out) > 0 {
		t.AvgAttributionScore = scoreSum / float64(len(out))
	}
	if t.TotalSpend != 0 {
		t.OverallROAS = t.TotalRevenue / t.TotalSpend
	}
	if t.TotalImpressions != 0 {
		t.OverallCTR = t.TotalClicks / t.TotalImpressions * 100
	}
	return &PerformanceSummary{
		Summary:     t,
		Campaigns:   out,
		GeneratedAt: m.now().UTC().Format(time.RFC3339),
	}, nil
}

// AttributionComparison contrasta el modelo last-click de la plataforma con el
// multi-touch de Attributely.
func (m *MetaClient) AttributionComparison(ctx context.Context, accountID string) (*ComparisonReport, error) {
	campaigns, err := m.Campaigns(ctx, accountID, comparisonFetchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]AttributionComparison, 0, comparisonCampaignLimit)
	for _, c := range firstN(campaigns, comparisonCampaignLimit) {
		ins := m.insightsOrNil(ctx, c.ID, DefaultDatePreset)
		if ins == nil {
			continue
		}
		conv := enrich.Float(ins.Conversions)
		rev := enrich.Float(ins.ConversionValues)
		out = append(out, AttributionComparison{
			CampaignID:   c.ID,
			CampaignName: c.Name,
			LastClickModel: ModelAttribution{
				Model:       "Facebook Last-Click",
				Conversions: conv,
				Revenue:     rev,
			},
			MultiTouchModel: ModelAttribution{
				Model:            "Attributely Multi-Touch",
				Conversions:      conv * conversionLiftFactor,
				Revenue:          rev * revenueLiftFactor,
				AttributionScore: ins.AttributelyScore,
				ConfidenceLevel:  attributionConfidence,
			},
			Improvement: Improvement{
				ConversionLift:      lift(conversionLiftFactor),
				RevenueLift:         lift(revenueLiftFactor),
				AttributionAccuracy: "+" + attributionConfidence,
			},
		})
	}
	return &ComparisonReport{
		AdAccountID: accountID,
		Comparisons: out,
		Summary: map[string]string{
			"avg_conversion_lift":  lift(conversionLiftFactor),
			"avg_revenue_lift":     lift(revenueLiftFactor),
			"attribution_accuracy": attributionConfidence,
		},
	}, nil
}

const attributionConfidence = "94%"

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func lift(f float64) string { return fmt.Sprintf("%.0f%%", (f-1)*100) }

// Predictions proyecta los próximos 7 días a partir de los últimos 30.
func (m *MetaClient) Predictions(ctx context.Context, campaignID string) (*Prediction, error) {
	ins, err := m.CampaignInsights(ctx, campaignID, "last_30_days")
	if err != nil {
		return nil, err
	}
	var roas float64
	if ins.CalculatedMetrics != nil {
		roas = ins.CalculatedMetrics.ReturnOnAdSpend
	}
	return &Prediction{
		CampaignID: campaignID,
		Predictions: PredictionSet{
			NextSevenDays: Forecast{
				PredictedSpend:       enrich.Float(ins.Spend) * predictionFactor,
				PredictedConversions: enrich.Float(ins.Conversions) * predictionFactor,
				PredictedROAS:        roas * predictedROASFactor,
				Confidence:           "87%",
			},
			Suggestions: []string{
				"Increase budget by 15% for optimal performance",
				"Target similar audiences for expansion",
				"Test new creative formats",
			},
			RiskFactors: []string{
				"Market saturation in current audience",
				"Seasonal trends may affect performance",
			},
		},
		AttributionScore: ins.AttributelyScore,
		AIModel:          "Attributely Pro ML v1.0",
		Disclaimer:       "Predictions based on historical performance and market analysis",
	}, nil
}
