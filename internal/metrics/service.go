package metrics

import (
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/store"
)

const (
	topSourcesLimit   = 5
	recentEventsLimit = 10
)

type Service struct{ st store.EventStore }

func NewService(st store.EventStore) *Service { return &Service{st: st} }
func norm(s string) string                    { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

type SourceTotals = store.SourceStats

type Dashboard struct {
	TotalEvents      int                    `json:"total_events"`
	TotalConversions int                    `json:"total_conversions"`
	ConversionRate   float64                `json:"conversion_rate"`
	TotalRevenue     float64                `json:"total_revenue"`
	TopSources       []SourceTotals         `json:"top_sources"`
	RecentEvents     []models.TrackingEvent `json:"recent_events"`
}

// Dashboard resume todos los eventos; solo recent_events va limitado.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.st.Stats(ctx, store.EventFilter{})
	if err != nil {
		return nil, err
	}
	recent, err := s.st.ListEvents(ctx, store.EventFilter{Limit: recentEventsLimit})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.TrackingEvent{}
	}

	d := &Dashboard{
		TotalEvents:      stats.Events,
		TotalConversions: stats.Conversions,
		TotalRevenue:     round2(stats.Revenue),
		RecentEvents:     recent,
	}
	if stats.PageViews > 0 {
		d.ConversionRate = round2(float64(stats.Conversions) / float64(stats.PageViews) * 100)
	}

	d.TopSources = make([]SourceTotals, 0, len(stats.Sources))
	for _, st := range stats.Sources {
		st.Revenue = round2(st.Revenue)
		d.TopSources = append(d.TopSources, st)
	}
	// orden determinista
	sort.Slice(d.TopSources, func(i, j int) bool {
		a, b := d.TopSources[i], d.TopSources[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Source < b.Source
	})
	d.TopSources = paginate(d.TopSources, topSourcesLimit, 0)
	return d, nil
}

// QueryPlatform devuelve filas diarias por plataforma/UTM. from y to son
// fechas YYYY-MM-DD inclusivas.
func (s *Service) QueryPlatform(ctx context.Context, v url.Values) ([]models.PlatformMetrics, error) {
	var f store.EventFilter
	if from, err := time.Parse("2006-01-02", v.Get("from")); err == nil {
		f.From = from
	}
	if to, err := time.Parse("2006-01-02", v.Get("to")); err == nil {
		f.To = to.AddDate(0, 0, 1)
	}
	pSet := csvSet(v.Get("platform"))
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	events, err := store.AllEvents(ctx, s.st, f)
	if err != nil {
		return nil, err
	}
	aggs := store.Aggregate(events)
	if len(pSet) > 0 {
		kept := aggs[:0]
		for _, a := range aggs {
			if _, ok := pSet[norm(a.Key.Platform)]; ok {
				kept = append(kept, a)
			}
		}
		aggs = kept
	}

	// orden determinista
	sort.Slice(aggs, func(i, j int) bool {
		ki, kj := aggs[i].Key, aggs[j].Key
		if !ki.Date.Equal(kj.Date) {
			return ki.Date.Before(kj.Date)
		}
		if ki.Platform != kj.Platform {
			return ki.Platform < kj.Platform
		}
		if ki.UTMCampaign != kj.UTMCampaign {
			return ki.UTMCampaign < kj.UTMCampaign
		}
		if ki.UTMSource != kj.UTMSource {
			return ki.UTMSource < kj.UTMSource
		}
		return ki.UTMMedium < kj.UTMMedium
	})

	rows := Rows(aggs)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset), nil
}

// Rows convierte agregados diarios en filas con métricas derivadas.
func Rows(aggs []models.DailyAgg) []models.PlatformMetrics {
	rows := make([]models.PlatformMetrics, 0, len(aggs))
	for _, a := range aggs {
		m := models.PlatformMetrics{
			Date:        a.Key.Date.Format("2006-01-02"),
			Platform:    a.Key.Platform,
			UTMCampaign: a.Key.UTMCampaign,
			UTMSource:   a.Key.UTMSource,
			UTMMedium:   a.Key.UTMMedium,
			Events:      a.Events,
			PageViews:   a.PageViews,
			Clicks:      a.Clicks,
			Conversions: a.Conversions,
			Revenue:     round2(a.Revenue),
		}
		if a.PageViews > 0 {
			m.ConversionRate = round3(float64(a.Conversions) / float64(a.PageViews))
		}
		if a.Clicks > 0 {
			m.ValuePerClick = round2(a.Revenue / float64(a.Clicks))
		}
		rows = append(rows, m)
	}
	return rows
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
