package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/ingest"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/store"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

type trackRequest struct {
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	SessionID   string     `json:"session_id"`
	EventType   string     `json:"event_type"`
	Platform    string     `json:"platform"`
	CampaignID  *string    `json:"campaign_id"`
	EventValue  any        `json:"event_value"`
	Value       any        `json:"value"`
	PageURL     string     `json:"page_url"`
	Referrer    string     `json:"referrer"`
	UTMSource   *string    `json:"utm_source"`
	UTMMedium   *string    `json:"utm_medium"`
	UTMCampaign *string    `json:"utm_campaign"`
	Timestamp   *time.Time `json:"timestamp"`
}

func (t trackRequest) event() models.TrackingEvent {
	e := models.TrackingEvent{
		EventID:     strings.TrimSpace(t.EventID),
		UserID:      t.UserID,
		SessionID:   t.SessionID,
		EventType:   t.EventType,
		Platform:    t.Platform,
		CampaignID:  t.CampaignID,
		PageURL:     t.PageURL,
		Referrer:    t.Referrer,
		UTMSource:   t.UTMSource,
		UTMMedium:   t.UTMMedium,
		UTMCampaign: t.UTMCampaign,
	}
	raw := t.EventValue
	if raw == nil {
		raw = t.Value
	}
	// un valor ausente o cero se guarda como NULL
	if v := enrich.Float(raw); v != 0 {
		v = math.Round(v*100) / 100
		e.EventValue = &v
	}
	if t.Timestamp != nil {
		e.Timestamp = *t.Timestamp
	}
	return e
}

func (a *api) trackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	e := req.event()
	store.PrepareEvent(&e, a.now())
	if err := a.Store.CreateEvent(r.Context(), &e); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.WriteError(w, http.StatusConflict, "event already tracked")
			return
		}
		a.Log.Error("track event failed", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
		utils.WriteError(w, http.StatusInternalServerError, "could not store event")
		return
	}
	metrics.TrackingEvents.WithLabelValues(e.Platform).Inc()
	if err := a.Queue.Publish(r.Context(), e); err != nil {
		a.Log.Warn("event queue publish failed", slog.String("event_id", e.EventID), slog.String("err", err.Error()))
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":     "success",
		"event_id":   e.EventID,
		"user_id":    e.UserID,
		"session_id": e.SessionID,
		"platform":   e.Platform,
		"event_type": e.EventType,
		"timestamp":  e.Timestamp.Format(time.RFC3339),
	})
}

func (a *api) listEvents(w http.ResponseWriter, r *http.Request) {
	f := store.EventFilter{Platform: strings.TrimSpace(r.URL.Query().Get("platform"))}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			utils.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}
	events, err := a.Store.ListEvents(r.Context(), f)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"status":       "success",
		"events_count": len(events),
		"events":       events,
	})
}

func (a *api) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.Metrics.Dashboard(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, struct {
		*metrics.Dashboard
		MetaAdsIntegration bool `json:"meta_ads_integration"`
	}{d, a.Meta != nil})
}

func (a *api) platformMetrics(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Metrics.QueryPlatform(r.Context(), r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, rows)
}

func (a *api) exportRun(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("date")
	if q == "" {
		utils.WriteError(w, http.StatusBadRequest, "date required (YYYY-MM-DD)")
		return
	}
	t, err := time.Parse("2006-01-02", q)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "bad date")
		return
	}
	n, err := a.Exporter.ExportDay(r.Context(), t)
	switch {
	case errors.Is(err, ingest.ErrSinkNotConfigured):
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, map[string]any{"exported": n})
}

var (
	pixelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	hostPattern    = regexp.MustCompile(`^(\[[0-9A-Fa-f:.]+\]|[A-Za-z0-9.-]+)(:[0-9]{1,5})?$`)
)

var pixelJS = template.Must(template.New("pixel").Parse(`(function() {
    const ATTRIBUTELY_PIXEL_ID = '{{js .PixelID}}';
    const API_ENDPOINT = '{{js .Endpoint}}';
    let sessionId = sessionStorage.getItem('attr_session_id');
    if (!sessionId) {
        sessionId = 'sess_' + Math.random().toString(36).substr(2, 9);
        sessionStorage.setItem('attr_session_id', sessionId);
    }
    function trackEvent(eventType, properties = {}) {
        const params = new URLSearchParams(window.location.search);
        fetch(API_ENDPOINT, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify({
                event_type: eventType,
                session_id: sessionId,
                platform: 'web',
                page_url: window.location.href,
                referrer: document.referrer,
                utm_source: params.get('utm_source'),
                utm_medium: params.get('utm_medium'),
                utm_campaign: params.get('utm_campaign'),
                value: properties.value
            })
        }).catch(err => console.log('Attribution tracking error:', err));
    }
    trackEvent('page_view');
    window.attributely = { track: trackEvent };
})();
`))

// publicBase usa PUBLIC_BASE_URL y, si falta, el Host del request cuando es
// un host[:puerto] válido.
func (a *api) publicBase(r *http.Request) (string, bool) {
	if a.Cfg.PublicBaseURL != "" {
		return a.Cfg.PublicBaseURL, true
	}
	if !hostPattern.MatchString(r.Host) {
		return "", false
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host, true
}

// pixel devuelve el snippet JS de tracking para un pixel id.
func (a *api) pixel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pixelID")
	if !pixelIDPattern.MatchString(id) {
		utils.WriteError(w, http.StatusBadRequest, "invalid pixel id")
		return
	}
	base, ok := a.publicBase(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid host")
		return
	}
	var js strings.Builder
	if err := pixelJS.Execute(&js, map[string]string{"PixelID": id, "Endpoint": base + "/track/event"}); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{
		"pixel_id":     id,
		"javascript":   js.String(),
		"installation": `<script src="` + base + "/pixel/" + id + `"></script>`,
	})
}
