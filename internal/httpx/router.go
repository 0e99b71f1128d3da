package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/attributely-go/internal/auth"
	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/ingest"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/platforms"
	"github.com/AngelCh415/attributely-go/internal/queue"
	"github.com/AngelCh415/attributely-go/internal/store"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

// Deps son las dependencias del router. Meta es nil cuando la integración no
// está configurada.
type Deps struct {
	Log       *slog.Logger
	Cfg       config.Config
	Store     store.Store
	Enricher  *enrich.Pipeline
	Meta      *ingest.MetaClient
	Exporter  *ingest.Exporter
	Metrics   *metrics.Service
	Platforms *platforms.Registry
	Queue     queue.Publisher
	JWT       *auth.JWTManager
}

type api struct {
	Deps
	now func() time.Time
}

func NewRouter(d Deps) http.Handler {
	if d.Queue == nil {
		d.Queue = queue.NopPublisher{}
	}
	if d.Enricher == nil {
		d.Enricher = enrich.New(d.Log)
	}
	a := &api{Deps: d, now: time.Now}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(utils.Instrument)
	mux.Use(utils.Recoverer(d.Log))
	mux.Use(utils.CORS(d.Cfg.AllowedOrigins))

	mux.Get("/", a.root)
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", a.ready)
	mux.Get("/health", a.health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/enrich", a.enrich)

	mux.Post("/track/event", a.trackEvent)
	mux.Get("/pixel/{pixelID}", a.pixel)
	mux.Get("/analytics/events", a.listEvents)
	mux.Get("/analytics/dashboard", a.dashboard)
	mux.Get("/analytics/platform", a.platformMetrics)
	mux.Post("/export/run", a.exportRun)

	mux.Post("/auth/register", a.register)
	mux.Post("/auth/login", a.login)
	mux.Group(func(r chi.Router) {
		r.Use(utils.JWTAuth(d.JWT))
		r.Post("/campaigns", a.createCampaign)
		r.Get("/campaigns", a.listCampaigns)
	})

	mux.Route("/meta-ads", func(r chi.Router) {
		r.Get("/health", a.metaHealth)
		r.Group(func(r chi.Router) {
			r.Use(a.requireMeta)
			r.Get("/", a.metaRoot)
			r.Get("/test-connection", a.metaTestConnection)
			r.Get("/accounts", a.metaAccounts)
			r.Get("/accounts/{accountID}/campaigns", a.metaCampaigns)
			r.Get("/campaigns/{campaignID}/insights", a.metaInsights)
			r.Post("/sync", a.metaSync)
			r.Get("/performance-summary/{accountID}", a.metaPerformanceSummary)
			r.Get("/attribution-comparison/{accountID}", a.metaAttributionComparison)
			r.Get("/predictions/{campaignID}", a.metaPredictions)
		})
	})

	mux.Get("/meta-ai/advantage-plus-insights/{id}", a.platformInsights("meta"))
	mux.Get("/google-ai/performance-max-insights/{id}", a.platformInsights("google"))
	mux.Get("/youtube-ai/video-insights/{id}", a.platformInsights("youtube"))
	mux.Get("/tiktok-ai/algorithm-insights/{id}", a.platformInsights("tiktok"))
	mux.Get("/micro-budget-ai/optimize/{budget}", a.optimizeBudget)
	mux.Get("/accounts/status", a.accountsStatus)

	return mux
}

func writeJSON(w http.ResponseWriter, v any) { utils.WriteJSON(w, http.StatusOK, v) }
