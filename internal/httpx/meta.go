package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/attributely-go/internal/ingest"
	"github.com/AngelCh415/attributely-go/internal/platforms"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

func (a *api) requireMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Meta == nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "Meta Ads API not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// upstream traduce errores del cliente de Meta a códigos HTTP.
func upstream(w http.ResponseWriter, err error) {
	if errors.Is(err, ingest.ErrNoInsights) {
		utils.WriteError(w, http.StatusNotFound, "No historical data for predictions")
		return
	}
	utils.WriteError(w, http.StatusBadGateway, err.Error())
}

func (a *api) metaRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"service":      "Meta Ads API",
		"api_version":  a.Cfg.MetaAPIVersion,
		"date_presets": ingest.DatePresets,
		"endpoints": []string{
			"/meta-ads/test-connection",
			"/meta-ads/accounts",
			"/meta-ads/accounts/{ad_account_id}/campaigns",
			"/meta-ads/campaigns/{campaign_id}/insights",
			"/meta-ads/sync",
			"/meta-ads/performance-summary/{ad_account_id}",
			"/meta-ads/attribution-comparison/{ad_account_id}",
			"/meta-ads/predictions/{campaign_id}",
		},
	})
}

func (a *api) metaHealth(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"service":         "Meta Ads API",
		"status":          "unhealthy",
		"connection_test": "error",
	}
	if a.Meta != nil {
		rep := a.Meta.TestConnection(r.Context())
		out["status"] = "healthy"
		out["connection_test"] = rep.Status
	}
	out["ready_for_production"] = out["status"] == "healthy"
	writeJSON(w, out)
}

func (a *api) metaTestConnection(w http.ResponseWriter, r *http.Request) {
	rep := a.Meta.TestConnection(r.Context())
	if rep.Status != "success" {
		utils.WriteJSON(w, http.StatusBadGateway, rep)
		return
	}
	writeJSON(w, rep)
}

func (a *api) metaAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.Meta.AdAccounts(r.Context())
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, map[string]any{"total_accounts": len(accounts), "accounts": accounts})
}

func (a *api) metaCampaigns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	limit := ingest.DefaultCampaignLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > ingest.MaxCampaignLimit {
			utils.WriteError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}
	campaigns, err := a.Meta.Campaigns(r.Context(), id, limit)
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"ad_account_id":   id,
		"total_campaigns": len(campaigns),
		"campaigns":       campaigns,
	})
}

func (a *api) metaInsights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campaignID")
	preset := r.URL.Query().Get("date_preset")
	if preset == "" {
		preset = ingest.DefaultDatePreset
	}
	if !ingest.ValidDatePreset(preset) {
		utils.WriteError(w, http.StatusBadRequest, "invalid date_preset; valid values: "+strings.Join(ingest.DatePresets, ", "))
		return
	}
	ins, err := a.Meta.CampaignInsights(r.Context(), id, preset)
	if errors.Is(err, ingest.ErrNoInsights) {
		writeJSON(w, map[string]any{
			"campaign_id": id,
			"message":     "No insights available for this campaign and date range",
			"date_preset": preset,
			"suggestions": []string{
				"Try a different date range",
				"Check if campaign has spend data",
				"Verify campaign is active",
			},
		})
		return
	}
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"campaign_id": id,
		"date_preset": preset,
		"insights":    ins,
	})
}

func (a *api) metaSync(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("ad_account_id")
	if id == "" && r.ContentLength != 0 {
		var body struct {
			AdAccountID string `json:"ad_account_id"`
		}
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body)
		if err != nil && !errors.Is(err, io.EOF) {
			utils.WriteError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		id = body.AdAccountID
	}
	if strings.TrimSpace(id) == "" {
		utils.WriteError(w, http.StatusBadRequest, "ad_account_id is required")
		return
	}
	rep, err := a.Meta.SyncAccount(r.Context(), id)
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"status":  "sync_completed",
		"message": "Successfully synced " + strconv.Itoa(rep.CampaignsSynced) + " campaigns",
		"data":    rep,
	})
}

func (a *api) metaPerformanceSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	preset := r.URL.Query().Get("date_preset")
	if preset == "" {
		preset = ingest.DefaultDatePreset
	}
	if !ingest.ValidDatePreset(preset) {
		utils.WriteError(w, http.StatusBadRequest, "invalid date_preset")
		return
	}
	sum, err := a.Meta.PerformanceSummary(r.Context(), id, preset)
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, struct {
		AdAccountID string `json:"ad_account_id"`
		*ingest.PerformanceSummary
	}{id, sum})
}

func (a *api) metaAttributionComparison(w http.ResponseWriter, r *http.Request) {
	rep, err := a.Meta.AttributionComparison(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, rep)
}

func (a *api) metaPredictions(w http.ResponseWriter, r *http.Request) {
	p, err := a.Meta.Predictions(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		upstream(w, err)
		return
	}
	writeJSON(w, p)
}

func (a *api) platformInsights(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ins, err := a.Platforms.Insights(r.Context(), name, chi.URLParam(r, "id"))
		if err != nil {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, ins)
	}
}

func (a *api) optimizeBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := strconv.Atoi(chi.URLParam(r, "budget"))
	if err != nil || budget < 0 {
		utils.WriteError(w, http.StatusBadRequest, "budget must be a non-negative integer")
		return
	}
	writeJSON(w, platforms.OptimizeBudget(budget))
}

func (a *api) accountsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, platforms.AccountsStatus(a.Cfg))
}
