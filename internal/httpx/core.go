package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

const (
	apiVersion   = "2.0.0"
	maxBodyBytes = 1 << 20
)

func (a *api) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"message":   "Attributely Pro API",
		"version":   apiVersion,
		"status":    "running",
		"platforms": a.Platforms.Names(),
		"features": []string{
			"Attribution scoring",
			"Performance grading",
			"AI recommendations",
			"Event tracking",
			"Cross-platform analytics",
		},
	})
}

func (a *api) ready(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Ping(r.Context()); err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(200)
	w.Write([]byte("ready"))
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	status, db := "healthy", "connected"
	if err := a.Store.Ping(r.Context()); err != nil {
		status, db = "degraded", "disconnected"
	}
	writeJSON(w, map[string]any{
		"status":    status,
		"timestamp": a.now().UTC().Format(time.RFC3339),
		"database":  db,
		"integrations": map[string]bool{
			"meta_ads":    a.Meta != nil,
			"youtube":     a.Cfg.YouTubeAPIKey != "",
			"redis_queue": a.Cfg.RedisURL != "",
			"export_sink": a.Cfg.SinkURL != "" && a.Cfg.SinkSecret != "",
		},
	})
}

// enrich acepta un RawInsight o un arreglo de ellos.
func (a *api) enrich(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var raws []models.RawInsight
		if err := json.Unmarshal(body, &raws); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid insight array")
			return
		}
		results := a.Enricher.EnrichAll(raws)
		out := make([]models.EnrichedInsight, len(results))
		for i, res := range results {
			metrics.EnrichmentResults.WithLabelValues(string(res.Outcome)).Inc()
			out[i] = res.Insight
		}
		writeJSON(w, map[string]any{
			"insights": out,
			"summary":  enrich.Summarize(results),
		})
		return
	}
	var raw models.RawInsight
	if err := json.Unmarshal(body, &raw); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid insight")
		return
	}
	res := a.Enricher.Enrich(raw)
	metrics.EnrichmentResults.WithLabelValues(string(res.Outcome)).Inc()
	writeJSON(w, res.Insight)
}
