package ingest

import "github.com/AngelCh415/attributely-go/internal/models"

type AdAccount struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Currency      string         `json:"currency,omitempty"`
	AccountStatus int            `json:"account_status,omitempty"`
	Business      map[string]any `json:"business,omitempty"`
	TimezoneName  string         `json:"timezone_name,omitempty"`
	AmountSpent   string         `json:"amount_spent,omitempty"`
	Balance       string         `json:"balance,omitempty"`
}

type Campaign struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Status              string `json:"status,omitempty"`
	Objective           string `json:"objective,omitempty"`
	CreatedTime         string `json:"created_time,omitempty"`
	UpdatedTime         string `json:"updated_time,omitempty"`
	StartTime           string `json:"start_time,omitempty"`
	StopTime            string `json:"stop_time,omitempty"`
	DailyBudget         string `json:"daily_budget,omitempty"`
	LifetimeBudget      string `json:"lifetime_budget,omitempty"`
	AttributelyEnhanced bool   `json:"attributely_enhanced"`
	SyncTimestamp       string `json:"sync_timestamp,omitempty"`
}

type ConnectionReport struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	User          map[string]any `json:"user,omitempty"`
	AccountsCount int            `json:"accounts_count"`
	SampleAccount *AdAccount     `json:"sample_account"`
	Capabilities  []string       `json:"capabilities,omitempty"`
}

type SyncedCampaign struct {
	Campaign
	Insights *models.EnrichedInsight `json:"insights"`
	LastSync string                  `json:"last_sync,omitempty"`
}

type SyncSummary struct {
	TotalSpend              float64 `json:"total_spend"`
	TotalConversions        int     `json:"total_conversions"`
	AverageAttributionScore float64 `json:"average_attribution_score"`
	TopAttributionScore     float64 `json:"top_attribution_score"`
}

type SyncReport struct {
	Status              string           `json:"status"`
	AdAccountID         string           `json:"ad_account_id"`
	CampaignsSynced     int              `json:"campaigns_synced"`
	Campaigns           []SyncedCampaign `json:"campaigns"`
	Summary             SyncSummary      `json:"summary"`
	SyncTimestamp       string           `json:"sync_timestamp"`
	SyncDurationSeconds float64          `json:"sync_duration_seconds"`
}

type PerformanceTotals struct {
	TotalSpend           float64 `json:"total_spend"`
	TotalConversions     float64 `json:"total_conversions"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalClicks          float64 `json:"total_clicks"`
	TotalImpressions     float64 `json:"total_impressions"`
	CampaignsAnalyzed    int     `json:"campaigns_analyzed"`
	TopCampaign          *string `json:"top_campaign"`
	BestAttributionScore float64 `json:"best_attribution_score"`
	AvgAttributionScore  float64 `json:"avg_attribution_score"`
	OverallROAS          float64 `json:"overall_roas"`
	OverallCTR           float64 `json:"overall_ctr"`
}

type PerformanceSummary struct {
	Summary     PerformanceTotals `json:"summary"`
	Campaigns   []SyncedCampaign  `json:"campaigns"`
	GeneratedAt string            `json:"generated_at"`
}

type ModelAttribution struct {
	Model            string  `json:"model"`
	Conversions      float64 `json:"conversions"`
	Revenue          float64 `json:"revenue"`
	AttributionScore float64 `json:"attribution_score,omitempty"`
	ConfidenceLevel  string  `json:"confidence_level,omitempty"`
}

type Improvement struct {
	ConversionLift      string `json:"conversion_lift"`
	RevenueLift         string `json:"revenue_lift"`
	AttributionAccuracy string `json:"attribution_accuracy"`
}

type AttributionComparison struct {
	CampaignID      string           `json:"campaign_id"`
	CampaignName    string           `json:"campaign_name"`
	LastClickModel  ModelAttribution `json:"facebook_model"`
	MultiTouchModel ModelAttribution `json:"attributely_model"`
	Improvement     Improvement      `json:"improvement"`
}

type ComparisonReport struct {
	AdAccountID string                  `json:"ad_account_id"`
	Comparisons []AttributionComparison `json:"attribution_comparisons"`
	Summary     map[string]string       `json:"summary"`
}

type Forecast struct {
	PredictedSpend       float64 `json:"predicted_spend"`
	PredictedConversions float64 `json:"predicted_conversions"`
	PredictedROAS        float64 `json:"predicted_roas"`
	Confidence           string  `json:"confidence"`
}

type PredictionSet struct {
	NextSevenDays Forecast `json:"next_7_days"`
	Suggestions   []string `json:"optimization_suggestions"`
	RiskFactors   []string `json:"risk_factors"`
}

type Prediction struct {
	CampaignID       string        `json:"campaign_id"`
	Predictions      PredictionSet `json:"predictions"`
	AttributionScore float64       `json:"attribution_score"`
	AIModel          string        `json:"ai_model"`
	Disclaimer       string        `json:"disclaimer"`
}
