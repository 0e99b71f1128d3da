package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

var (
	ErrNotConfigured = errors.New("meta ads api not configured")
	ErrNoInsights    = errors.New("no insights available")
)

const (
	DefaultDatePreset    = "last_7_days"
	DefaultCampaignLimit = 25
	MaxCampaignLimit     = 100
)

var DatePresets = []string{
	"today", "yesterday", "this_week", "last_week",
	"this_month", "last_month", "last_7_days", "last_14_days",
	"last_30_days", "last_90_days",
}

func ValidDatePreset(p string) bool {
	for _, v := range DatePresets {
		if v == p {
			return true
		}
	}
	return false
}

var insightFields = []string{
	"campaign_id", "campaign_name", "date_start", "date_stop",
	"impressions", "clicks", "ctr", "cpc", "spend",
	"conversions", "conversion_values", "cost_per_conversion",
	"reach", "frequency", "cpp", "actions", "action_values",
}

// GraphError es el cuerpo de error de la Graph API.
type GraphError struct {
	Status  int
	Message string
	Type    string
	Code    int
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api %d: %s (%s code=%d)", e.Status, e.Message, e.Type, e.Code)
}

type MetaClient struct {
	c        HTTPClient
	baseURL  string
	token    string
	log      *slog.Logger
	enricher *enrich.Pipeline
	limiter  *rate.Limiter
	backoff  utils.Backoff
	now      func() time.Time
}

func NewMetaClient(c HTTPClient, cfg config.Config, log *slog.Logger, p *enrich.Pipeline) (*MetaClient, error) {
	if !cfg.MetaConfigured() {
		return nil, ErrNotConfigured
	}
	if p == nil {
		p = enrich.New(log)
	}
	return &MetaClient{
		c:        c,
		baseURL:  cfg.MetaBaseURL + "/" + cfg.MetaAPIVersion,
		token:    cfg.MetaAccessToken,
		log:      log,
		enricher: p,
		limiter:  rate.NewLimiter(rate.Limit(cfg.MetaRatePerSec), 1),
		backoff:  defaultBackoff,
		now:      time.Now,
	}, nil
}

func (m *MetaClient) request(ctx context.Context, kind, endpoint string, params url.Values, dst any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("access_token", m.token)
	u := m.baseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + q.Encode()

	err := getJSONWithBackoff(ctx, m.c, m.backoff, u, dst)
	status := "ok"
	var se *StatusError
	switch {
	case errors.As(err, &se):
		status = strconv.Itoa(se.Status)
		err = graphError(se)
	case err != nil:
		status = "error"
		err = errors.New(strings.ReplaceAll(err.Error(), m.token, "***"))
	}
	metrics.MetaAPIRequests.WithLabelValues(kind, status).Inc()
	if err != nil {
		m.log.Error("meta api request failed", slog.String("endpoint", kind), slog.String("err", err.Error()))
	}
	return err
}

func graphError(se *StatusError) error {
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	ge := &GraphError{Status: se.Status}
	if json.Unmarshal(se.Body, &body) == nil && body.Error.Message != "" {
		ge.Message, ge.Type, ge.Code = body.Error.Message, body.Error.Type, body.Error.Code
	} else {
		ge.Message = strings.TrimSpace(string(se.Body))
	}
	return ge
}

func (m *MetaClient) Me(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := m.request(ctx, "me", "me", url.Values{"fields": {"id,name,email"}}, &out)
	return out, err
}

func (m *MetaClient) AdAccounts(ctx context.Context) ([]AdAccount, error) {
	var resp struct {
		Data []AdAccount `json:"data"`
	}
	params := url.Values{"fields": {"id,name,currency,account_status,business,timezone_name,amount_spent,balance"}}
	if err := m.request(ctx, "adaccounts", "me/adaccounts", params, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []AdAccount{}
	}
	return resp.Data, nil
}

// AccountID normaliza el id de cuenta con el prefijo act_.
func AccountID(id string) string {
	if strings.HasPrefix(id, "act_") {
		return id
	}
	return "act_" + id
}

func (m *MetaClient) Campaigns(ctx context.Context, accountID string, limit int) ([]Campaign, error) {
	if limit <= 0 {
		limit = DefaultCampaignLimit
	}
	var resp struct {
		Data []Campaign `json:"data"`
	}
	params := url.Values{
		"fields": {"id,name,status,objective,created_time,updated_time,start_time,stop_time,daily_budget,lifetime_budget"},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := m.request(ctx, "campaigns", AccountID(accountID)+"/campaigns", params, &resp); err != nil {
		return nil, err
	}
	ts := m.now().UTC().Format(time.RFC3339)
	out := make([]Campaign, 0, len(resp.Data))
	for _, c := range resp.Data {
		c.AttributelyEnhanced = true
		c.SyncTimestamp = ts
		out = append(out, c)
	}
	return out, nil
}

// CampaignInsights trae los insights de la campaña y enriquece la primera fila.
func (m *MetaClient) CampaignInsights(ctx context.Context, campaignID, datePreset string) (*models.EnrichedInsight, error) {
	if datePreset == "" {
		datePreset = DefaultDatePreset
	}
	var resp struct {
		Data []models.RawInsight `json:"data"`
	}
	params := url.Values{
		"fields":         {strings.Join(insightFields, ",")},
		"date_preset":    {datePreset},
		"time_increment": {"1"},
	}
	if err := m.request(ctx, "insights", campaignID+"/insights", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoInsights
	}
	res := m.enricher.Enrich(resp.Data[0])
	metrics.EnrichmentResults.WithLabelValues(string(res.Outcome)).Inc()
	return &res.Insight, nil
}

var capabilities = []string{
	"Real-time campaign data",
	"Attribution scoring",
	"Advanced metrics calculation",
	"Cross-device tracking ready",
}

func (m *MetaClient) TestConnection(ctx context.Context) ConnectionReport {
	user, err := m.Me(ctx)
	if err != nil {
		return ConnectionReport{Status: "error", Message: "Connection failed: " + err.Error()}
	}
	accounts, err := m.AdAccounts(ctx)
	if err != nil {
		return ConnectionReport{Status: "error", Message: "Connection failed: " + err.Error()}
	}
	rep := ConnectionReport{
		Status:        "success",
		Message:       "Meta Ads API connection working",
		User:          user,
		AccountsCount: len(accounts),
		Capabilities:  capabilities,
	}
	if len(accounts) > 0 {
		rep.SampleAccount = &accounts[0]
	}
	return rep
}
