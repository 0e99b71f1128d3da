// Package platforms expone los insights "AI" por plataforma publicitaria.
// Meta Advantage+, Google Performance Max y TikTok son respuestas fijas para la
// cuenta configurada; YouTube consulta la Data API cuando hay API key.
package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sort"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/ingest"
)

var ErrUnknownPlatform = errors.New("unknown platform")

const (
	StatusSuccess    = "success"
	StatusConfigured = "configured"
	StatusDemo       = "demo_mode"
)

type Insights struct {
	Status          string            `json:"status"`
	Message         string            `json:"message"`
	Platform        string            `json:"platform"`
	AccountID       string            `json:"account_id,omitempty"`
	Features        map[string]bool   `json:"features,omitempty"`
	Advantages      map[string]string `json:"platform_advantages,omitempty"`
	Recommendations map[string]string `json:"ai_recommendations,omitempty"`
	RealData        json.RawMessage   `json:"real_data,omitempty"`
	Integration     string            `json:"quintuple_ai_integration"`
	APIStatus       string            `json:"api_status,omitempty"`
}

type Provider interface {
	Name() string
	Insights(ctx context.Context, accountID string) (Insights, error)
}

// Registry agrupa los providers por nombre.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(cfg config.Config, c ingest.HTTPClient, log *slog.Logger) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range []Provider{
		MetaAdvantage{AccountID: cfg.MetaAccountID},
		PerformanceMax{CustomerID: cfg.GoogleCustomerID},
		NewYouTube(c, cfg.YouTubeBaseURL, cfg.YouTubeAPIKey, log),
		TikTok{AdvertiserID: cfg.TikTokAdvertiser},
	} {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Insights(ctx context.Context, platform, accountID string) (Insights, error) {
	p, ok := r.providers[platform]
	if !ok {
		return Insights{}, ErrUnknownPlatform
	}
	return p.Insights(ctx, accountID)
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// configured gana sobre el id pedido cuando existe.
func configured(requested, cfg string) string {
	if cfg != "" {
		return cfg
	}
	return requested
}

type MetaAdvantage struct{ AccountID string }

func (MetaAdvantage) Name() string { return "meta" }

func (m MetaAdvantage) Insights(_ context.Context, accountID string) (Insights, error) {
	return Insights{
		Status:    StatusSuccess,
		Message:   "🦄 Meta AI Advantage+ Insights Ready",
		Platform:  m.Name(),
		AccountID: configured(accountID, m.AccountID),
		Features: map[string]bool{
			"advantage_plus_ready": true,
			"creative_ai_enabled":  true,
			"audience_ai_enabled":  true,
			"auto_optimization":    true,
		},
		Recommendations: map[string]string{
			"message":        "✨ Account ready for first campaign",
			"recommendation": "Start with Advantage+ campaign for maximum AI optimization",
			"ai_strategy":    "Your clean account is perfect for AI learning",
		},
		Integration: "1/5 platforms active",
	}, nil
}

type PerformanceMax struct{ CustomerID string }

func (PerformanceMax) Name() string { return "google" }

func (g PerformanceMax) Insights(_ context.Context, customerID string) (Insights, error) {
	return Insights{
		Status:    StatusSuccess,
		Message:   "🚀 Google AI Performance Max Ready",
		Platform:  g.Name(),
		AccountID: configured(customerID, g.CustomerID),
		Features: map[string]bool{
			"performance_max_ready": true,
			"smart_bidding_enabled": true,
			"asset_optimization":    true,
			"audience_signals":      true,
		},
		Recommendations: map[string]string{
			"bid_strategy":      "Target ROAS optimization recommended",
			"asset_groups":      "Create diverse asset groups for better performance",
			"audience_signals":  "Upload customer lists for better targeting",
			"budget_allocation": "Start with $20/day for learning phase",
		},
		Integration: "2/5 platforms active",
	}, nil
}

type TikTok struct{ AdvertiserID string }

func (TikTok) Name() string { return "tiktok" }

func (t TikTok) Insights(_ context.Context, advertiserID string) (Insights, error) {
	return Insights{
		Status:    StatusConfigured,
		Message:   "🎵 TikTok AI Configured - Ready for campaigns",
		Platform:  t.Name(),
		AccountID: configured(advertiserID, t.AdvertiserID),
		Advantages: map[string]string{
			"cost_efficiency": "73% cheaper CPM than Meta for same audience",
			"conversion_rate": "2.3x better for 18-35 demographic",
			"viral_potential": "Algorithm amplifies winning content 10x",
			"trend_detection": "AI predicts trending hashtags 48h early",
		},
		Recommendations: map[string]string{
			"best_posting_times":   "6-9pm weekdays, 2-6pm weekends",
			"optimal_video_length": "15-30 seconds for max engagement",
			"trending_formats":     "User-generated style beats polished ads",
			"hashtag_strategy":     "3-5 trending + 2-3 niche hashtags",
		},
		Integration: "4/5 platforms active",
		APIStatus:   "configured_and_ready",
	}, nil
}

type YouTube struct {
	c       ingest.HTTPClient
	baseURL string
	key     string
	log     *slog.Logger
}

func NewYouTube(c ingest.HTTPClient, baseURL, key string, log *slog.Logger) *YouTube {
	return &YouTube{c: c, baseURL: baseURL, key: key, log: log}
}

func (*YouTube) Name() string { return "youtube" }

// Insights cae a demo_mode si no hay key o si la Data API falla.
func (y *YouTube) Insights(ctx context.Context, channelID string) (Insights, error) {
	demo := Insights{
		Status:      StatusDemo,
		Message:     "📺 YouTube AI Demo Mode",
		Platform:    y.Name(),
		AccountID:   channelID,
		Integration: "3/5 platforms active",
	}
	if y.key == "" || y.c == nil {
		return demo, nil
	}
	q := url.Values{"part": {"snippet,statistics"}, "id": {channelID}, "key": {y.key}}
	var raw json.RawMessage
	if err := ingest.GetJSONWithRetry(ctx, y.c, y.baseURL+"/channels?"+q.Encode(), &raw); err != nil {
		y.log.Warn("youtube data api unavailable", slog.String("channel_id", channelID))
		return demo, nil
	}
	return Insights{
		Status:    StatusSuccess,
		Message:   "📺 YouTube AI Video Insights Active",
		Platform:  y.Name(),
		AccountID: channelID,
		RealData:  raw,
		Advantages: map[string]string{
			"reach_potential":    "2B+ global audience reach",
			"engagement_depth":   "3x longer watch time vs other platforms",
			"conversion_quality": "Higher intent users, 2.4x better LTV",
		},
		Integration: "3/5 platforms active",
		APIStatus:   "real_data_connected",
	}, nil
}
