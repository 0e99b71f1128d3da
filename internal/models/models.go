package models

import (
	"encoding/json"
	"time"
)

// RawInsight es un registro de insights tal como llega de la plataforma de anuncios.
// Los campos numéricos pueden venir como número, como texto o no venir.
type RawInsight struct {
	CampaignID       string `json:"campaign_id,omitempty"`
	CampaignName     string `json:"campaign_name,omitempty"`
	DateStart        string `json:"date_start,omitempty"`
	DateStop         string `json:"date_stop,omitempty"`
	Impressions      any    `json:"impressions,omitempty"`
	Clicks           any    `json:"clicks,omitempty"`
	Spend            any    `json:"spend,omitempty"`
	Conversions      any    `json:"conversions,omitempty"`
	ConversionValues any    `json:"conversion_values,omitempty"`
	Reach            any    `json:"reach,omitempty"`
	CTR              any    `json:"ctr,omitempty"`
}

type CalculatedMetrics struct {
	CostPerClick       float64 `json:"cost_per_click"`
	ConversionRate     float64 `json:"conversion_rate"`
	CostPerAcquisition float64 `json:"cost_per_acquisition"`
	ReturnOnAdSpend    float64 `json:"return_on_ad_spend"`
	ProfitMargin       float64 `json:"profit_margin"`
	EfficiencyScore    float64 `json:"efficiency_score"`
	ReachRate          float64 `json:"reach_rate"`
	CostPerReach       float64 `json:"cost_per_reach"`
}

// EnrichedInsight = RawInsight + métricas derivadas. CalculatedMetrics es nil
// cuando el enriquecimiento se degradó.
type EnrichedInsight struct {
	RawInsight
	CalculatedMetrics    *CalculatedMetrics `json:"calculated_metrics"`
	AttributelyScore     float64            `json:"attributely_score"`
	PerformanceGrade     string             `json:"performance_grade"`
	AIRecommendations    []string           `json:"ai_recommendations"`
	EnhancedBy           string             `json:"enhanced_by,omitempty"`
	EnhancementTimestamp string             `json:"enhancement_timestamp,omitempty"`
}

// MarshalJSON emite {} y [] en lugar de null para los campos derivados vacíos.
func (e EnrichedInsight) MarshalJSON() ([]byte, error) {
	type plain EnrichedInsight
	var cm any = struct{}{}
	if e.CalculatedMetrics != nil {
		cm = e.CalculatedMetrics
	}
	recs := e.AIRecommendations
	if recs == nil {
		recs = []string{}
	}
	return json.Marshal(struct {
		plain
		CalculatedMetrics any      `json:"calculated_metrics"`
		AIRecommendations []string `json:"ai_recommendations"`
	}{plain(e), cm, recs})
}

// TrackingEvent es una fila de la tabla plana de eventos de atribución.
type TrackingEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"size:36;uniqueIndex;not null" json:"event_id"`
	UserID      string    `gorm:"size:255;not null;index" json:"user_id"`
	SessionID   string    `gorm:"size:255;not null" json:"session_id"`
	EventType   string    `gorm:"size:50;not null" json:"event_type"`
	Platform    string    `gorm:"size:50;not null;index" json:"platform"`
	CampaignID  *string   `gorm:"size:255" json:"campaign_id"`
	EventValue  *float64  `gorm:"type:decimal(12,2)" json:"event_value"`
	PageURL     string    `gorm:"size:2048" json:"page_url,omitempty"`
	Referrer    string    `gorm:"size:2048" json:"referrer,omitempty"`
	UTMSource   *string   `gorm:"size:255" json:"utm_source"`
	UTMMedium   *string   `gorm:"size:255" json:"utm_medium"`
	UTMCampaign *string   `gorm:"size:255" json:"utm_campaign"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	CreatedAt   time.Time `json:"-"`
}

func (TrackingEvent) TableName() string { return "attribution_events" }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CompanyName  string    `gorm:"size:255" json:"company_name"`
	Industry     string    `gorm:"size:255" json:"industry"`
	CreatedAt    time.Time `json:"created_at"`
}

type Campaign struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;not null;index" json:"user_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Platform  string     `gorm:"size:50;not null" json:"platform"` // meta, google, whatsapp
	Budget    float64    `json:"budget"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Targeting string     `gorm:"type:text" json:"-"`
	Status    string     `gorm:"size:20;not null;default:draft" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type DailyAggKey struct {
	Date        time.Time
	Platform    string
	UTMCampaign string
	UTMSource   string
	UTMMedium   string
}

type DailyAgg struct {
	Key         DailyAggKey
	Events      int
	PageViews   int
	Clicks      int
	Conversions int
	Revenue     float64
}

type PlatformMetrics struct {
	Date           string  `json:"date"`
	Platform       string  `json:"platform"`
	UTMCampaign    string  `json:"utm_campaign"`
	UTMSource      string  `json:"utm_source"`
	UTMMedium      string  `json:"utm_medium"`
	Events         int     `json:"events"`
	PageViews      int     `json:"page_views"`
	Clicks         int     `json:"clicks"`
	Conversions    int     `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
	ValuePerClick  float64 `json:"value_per_click"`
}
