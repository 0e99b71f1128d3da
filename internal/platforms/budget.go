package platforms

import (
	"fmt"

	"github.com/AngelCh415/attributely-go/internal/config"
)

// Límites de los tramos de micro-presupuesto (USD).
const (
	MicroBudgetMax = 100
	SmallBudgetMax = 500
)

type BudgetPlan struct {
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	BudgetAnalysis BudgetAnalysis    `json:"budget_analysis"`
	Strategy       map[string]string `json:"ai_strategy"`
	Advantage      string            `json:"competitive_advantage"`
}

type BudgetAnalysis struct {
	InputBudget     int    `json:"input_budget"`
	AIMultiplier    string `json:"ai_multiplier"`
	PlatformSavings string `json:"platform_savings"`
	ROIPrediction   string `json:"roi_prediction"`
}

func OptimizeBudget(budget int) BudgetPlan {
	b := float64(budget)
	var strategy map[string]string
	switch {
	case budget <= MicroBudgetMax:
		strategy = map[string]string{
			"platform_recommendation": "TikTok (73% cheaper than Meta for same audience)",
			"audience_strategy":       "2,000-5,000 hyper-targeted users vs 50,000 broad",
			"daily_spend":             fmt.Sprintf("$%.0f/day for maximum AI learning", b/7),
			"ai_advantage":            fmt.Sprintf("Your $%d performs like $%d with traditional methods", budget, budget*8),
			"arbitrage_opportunity":   "TikTok CPM $0.50 vs Meta $8.00 for identical audience",
			"expected_roi":            "4.5x (vs industry average 2.1x)",
			"optimization_schedule":   "AI adjusts bids every 4 hours",
			"creative_strategy":       "1 killer creative vs 5 mediocre (budget concentration)",
			"time_optimization":       "6-9pm when CPM 40% cheaper",
		}
	case budget <= SmallBudgetMax:
		strategy = map[string]string{
			"platform_mix":     "70% TikTok, 20% WhatsApp, 10% Meta retargeting",
			"scaling_approach": "AI-driven progressive scaling",
			"daily_spend":      fmt.Sprintf("$%.0f/day for 2 weeks", b/14),
			"ai_advantage":     fmt.Sprintf("$%d optimized = $%d traditional performance", budget, budget*5),
		}
	default:
		strategy = map[string]string{
			"platform_distribution": "Multi-platform with AI reallocation",
			"enterprise_features":   "Full cross-platform optimization",
			"scaling_strategy":      "Unlimited AI-driven growth",
		}
	}
	return BudgetPlan{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("🎯 $%d Budget Optimized with Micro-Budget AI", budget),
		BudgetAnalysis: BudgetAnalysis{
			InputBudget:     budget,
			AIMultiplier:    "8x performance vs traditional",
			PlatformSavings: "73% cost reduction via platform arbitrage",
			ROIPrediction:   "4.5x vs industry 2.1x",
		},
		Strategy:  strategy,
		Advantage: fmt.Sprintf("$%d + AttributelyPro AI > $5,000 without AI", budget),
	}
}

type Account struct {
	ID           string   `json:"id,omitempty"`
	Status       string   `json:"status"`
	Name         string   `json:"name,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Capabilities []string `json:"capabilities"`
}

type AccountsReport struct {
	Accounts        map[string]Account `json:"accounts"`
	TotalPlatforms  int                `json:"total_platforms"`
	ActivePlatforms int                `json:"active_platforms"`
}

// AccountsStatus informa qué cuentas están configuradas; una plataforma sin id
// aparece como not_configured.
func AccountsStatus(cfg config.Config) AccountsReport {
	state := func(id, ok string) string {
		if id == "" {
			return "not_configured"
		}
		return ok
	}
	youtube := "demo_mode"
	if cfg.YouTubeAPIKey != "" {
		youtube = "active"
	}
	accounts := map[string]Account{
		"meta_ads": {
			ID: cfg.MetaAccountID, Status: state(cfg.MetaAccountID, "connected"), Currency: "USD",
			Capabilities: []string{"campaigns", "insights", "advantage_plus"},
		},
		"google_ads": {
			ID: cfg.GoogleCustomerID, Status: state(cfg.GoogleCustomerID, "connected"), Currency: "USD",
			Capabilities: []string{"performance_max", "smart_bidding"},
		},
		"tiktok_ads": {
			ID: cfg.TikTokAdvertiser, Status: state(cfg.TikTokAdvertiser, "configured"), Currency: "USD",
			Capabilities: []string{"campaigns", "algorithm_insights"},
		},
		"youtube_data": {
			Status:       youtube,
			Capabilities: []string{"analytics", "creative_insights"},
		},
		"micro_budget_ai": {
			Status:       "active",
			Capabilities: []string{"optimization", "arbitrage_detection"},
		},
	}
	active := 0
	for _, a := range accounts {
		if a.Status != "not_configured" && a.Status != "demo_mode" {
			active++
		}
	}
	return AccountsReport{Accounts: accounts, TotalPlatforms: len(accounts), ActivePlatforms: active}
}
