package store

import (
	"time"

	"github.com/AngelCh415/attributely-go/internal/models"
)

// Aggregate agrupa eventos por día (UTC), plataforma y UTMs.
func Aggregate(events []models.TrackingEvent) []models.DailyAgg {
	agg := make(map[models.DailyAggKey]*models.DailyAgg)
	order := make([]models.DailyAggKey, 0)
	for _, e := range events {
		k := models.DailyAggKey{
			Date:        day(e.Timestamp),
			Platform:    e.Platform,
			UTMCampaign: deref(e.UTMCampaign, "unknown"),
			UTMSource:   deref(e.UTMSource, "unknown"),
			UTMMedium:   deref(e.UTMMedium, "unknown"),
		}
		a, ok := agg[k]
		if !ok {
			a = &models.DailyAgg{Key: k}
			agg[k] = a
			order = append(order, k)
		}
		a.Events++
		switch {
		case e.EventType == EventPageView:
			a.PageViews++
		case e.EventType == EventClick:
			a.Clicks++
		case IsConversion(e.EventType):
			a.Conversions++
			if e.EventValue != nil {
				a.Revenue += maxf(*e.EventValue)
			}
		}
	}
	out := make([]models.DailyAgg, 0, len(order))
	for _, k := range order {
		out = append(out, *agg[k])
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deref(s *string, def string) string {
	if s == nil {
		return def
	}
	return coalesce(*s, def)
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
