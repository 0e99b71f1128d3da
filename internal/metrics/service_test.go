package metrics

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/store"
)

func strp(s string) *string     { return &s }
func floatp(f float64) *float64 { return &f }

func seeded(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	d1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	for i, e := range []models.TrackingEvent{
		{EventType: "page_view", Platform: "meta", UTMSource: strp("facebook"), Timestamp: d1},
		{EventType: "page_view", Platform: "meta", UTMSource: strp("facebook"), Timestamp: d1},
		{EventType: "click", Platform: "meta", UTMSource: strp("facebook"), Timestamp: d1},
		{EventType: "purchase", Platform: "meta", UTMSource: strp("facebook"), EventValue: floatp(100), Timestamp: d1},
		{EventType: "page_view", Platform: "google", Timestamp: d2},
		{EventType: "conversion", Platform: "google", EventValue: floatp(250.5), Timestamp: d2},
		{EventType: "conversion", Platform: "tiktok", UTMSource: strp("tiktok_ads"), Timestamp: d2},
	} {
		e := e
		e.Timestamp = e.Timestamp.Add(time.Duration(i) * time.Minute)
		store.PrepareEvent(&e, d1)
		require.NoError(t, st.CreateEvent(context.Background(), &e))
	}
	return st
}

func TestDashboard(t *testing.T) {
	d, err := NewService(seeded(t)).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, d.TotalEvents)
	assert.Equal(t, 3, d.TotalConversions)
	assert.Equal(t, 100.0, d.ConversionRate) // 3 conversiones / 3 page views
	assert.Equal(t, 350.5, d.TotalRevenue)

	require.Len(t, d.TopSources, 3)
	assert.Equal(t, SourceTotals{Source: "google", Conversions: 1, Revenue: 250.5}, d.TopSources[0])
	assert.Equal(t, "facebook", d.TopSources[1].Source)
	assert.Equal(t, "tiktok_ads", d.TopSources[2].Source)

	require.Len(t, d.RecentEvents, 7)
	assert.Equal(t, "tiktok", d.RecentEvents[0].Platform)
}

func TestDashboardEmpty(t *testing.T) {
	d, err := NewService(store.NewMemoryStore()).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d.ConversionRate)
	assert.Empty(t, d.TopSources)
	assert.NotNil(t, d.RecentEvents)
}

func TestDashboardCountsBeyondListLimit(t *testing.T) {
	st := store.NewMemoryStore()
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	const n = store.MaxLimit + 500
	for i := 0; i < n; i++ {
		e := models.TrackingEvent{EventType: "page_view", Platform: "meta", Timestamp: day.Add(time.Duration(i) * time.Second)}
		if i%100 == 0 {
			e.EventType = "purchase"
			e.EventValue = floatp(10)
		}
		store.PrepareEvent(&e, day)
		require.NoError(t, st.CreateEvent(context.Background(), &e))
	}
	svc := NewService(st)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n, d.TotalEvents)
	assert.Equal(t, 15, d.TotalConversions)
	assert.Equal(t, 150.0, d.TotalRevenue)
	assert.Equal(t, 1.01, d.ConversionRate) // 15 / 1485 page views
	assert.Len(t, d.RecentEvents, recentEventsLimit)

	rows, err := svc.QueryPlatform(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n, rows[0].Events)
	assert.Equal(t, n-15, rows[0].PageViews)
}

func TestQueryPlatform(t *testing.T) {
	svc := NewService(seeded(t))

	rows, err := svc.QueryPlatform(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-08-01", rows[0].Date)
	assert.Equal(t, "meta", rows[0].Platform)
	assert.Equal(t, 4, rows[0].Events)
	assert.Equal(t, 2, rows[0].PageViews)
	assert.Equal(t, 0.5, rows[0].ConversionRate)
	assert.Equal(t, 100.0, rows[0].ValuePerClick)
	assert.Equal(t, "google", rows[1].Platform)
	assert.Equal(t, "tiktok", rows[2].Platform)

	rows, err = svc.QueryPlatform(context.Background(), url.Values{"platform": {" Google ,tiktok"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = svc.QueryPlatform(context.Background(), url.Values{"from": {"2025-08-02"}, "to": {"2025-08-02"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = svc.QueryPlatform(context.Background(), url.Values{"limit": {"1"}, "offset": {"1"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "google", rows[0].Platform)

	rows, err = svc.QueryPlatform(context.Background(), url.Values{"offset": {"99"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClampLimitOffset(t *testing.T) {
	l, o := clampLimitOffset(0, -3, 7)
	assert.Equal(t, 7, l)
	assert.Equal(t, 0, o)
	l, o = clampLimitOffset(5000, 10, 7)
	assert.Equal(t, 1000, l)
	assert.Equal(t, 7, o)
}
