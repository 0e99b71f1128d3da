package platforms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/attributely-go/internal/config"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRegistryStubs(t *testing.T) {
	r := NewRegistry(config.Config{MetaAccountID: "act_9", GoogleCustomerID: "123-456"}, http.DefaultClient, quiet)
	assert.Equal(t, []string{"google", "meta", "tiktok", "youtube"}, r.Names())

	ins, err := r.Insights(context.Background(), "meta", "act_other")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, ins.Status)
	assert.Equal(t, "act_9", ins.AccountID)

	ins, err = r.Insights(context.Background(), "google", "x")
	require.NoError(t, err)
	assert.Equal(t, "123-456", ins.AccountID)
	assert.Contains(t, ins.Recommendations, "bid_strategy")

	// sin id configurado se respeta el pedido
	ins, err = r.Insights(context.Background(), "tiktok", "adv-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfigured, ins.Status)
	assert.Equal(t, "adv-1", ins.AccountID)

	_, err = r.Insights(context.Background(), "snapchat", "x")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestYouTubeRealData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "UC1", r.URL.Query().Get("id"))
		io.WriteString(w, `{"items":[{"id":"UC1"}]}`)
	}))
	defer srv.Close()

	ins, err := NewYouTube(srv.Client(), srv.URL, "k", quiet).Insights(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, ins.Status)
	assert.JSONEq(t, `{"items":[{"id":"UC1"}]}`, string(ins.RealData))
	assert.Equal(t, "real_data_connected", ins.APIStatus)
}

func TestYouTubeDemoMode(t *testing.T) {
	ins, err := NewYouTube(http.DefaultClient, "http://unused", "", quiet).Insights(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, StatusDemo, ins.Status)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	ins, err = NewYouTube(srv.Client(), srv.URL, "bad", quiet).Insights(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, StatusDemo, ins.Status)
	assert.Nil(t, ins.RealData)
}

func TestOptimizeBudgetTiers(t *testing.T) {
	p := OptimizeBudget(70)
	assert.Equal(t, "$10/day for maximum AI learning", p.Strategy["daily_spend"])
	assert.Equal(t, "Your $70 performs like $560 with traditional methods", p.Strategy["ai_advantage"])
	assert.Equal(t, 70, p.BudgetAnalysis.InputBudget)

	p = OptimizeBudget(100)
	assert.Contains(t, p.Strategy, "platform_recommendation")

	p = OptimizeBudget(280)
	assert.Equal(t, "$20/day for 2 weeks", p.Strategy["daily_spend"])
	assert.Equal(t, "$280 optimized = $1400 traditional performance", p.Strategy["ai_advantage"])

	p = OptimizeBudget(501)
	assert.Equal(t, "Unlimited AI-driven growth", p.Strategy["scaling_strategy"])
	assert.Equal(t, "🎯 $501 Budget Optimized with Micro-Budget AI", p.Message)
}

func TestAccountsStatus(t *testing.T) {
	rep := AccountsStatus(config.Config{MetaAccountID: "act_1", YouTubeAPIKey: "k"})
	assert.Equal(t, 5, rep.TotalPlatforms)
	assert.Equal(t, 3, rep.ActivePlatforms)
	assert.Equal(t, "connected", rep.Accounts["meta_ads"].Status)
	assert.Equal(t, "not_configured", rep.Accounts["google_ads"].Status)
	assert.Equal(t, "active", rep.Accounts["youtube_data"].Status)
}
