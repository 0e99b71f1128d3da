package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/models"
)

var base = time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

func strp(s string) *string     { return &s }
func floatp(f float64) *float64 { return &f }

func openSQLite(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(config.Config{
		Env:            "test",
		DatabaseDriver: "sqlite",
		DatabaseURL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		DBMaxConns:     1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewGormStore(db)
}

// ambas implementaciones deben comportarse igual
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   openSQLite(t),
	}
}

func seedEvents(t *testing.T, s EventStore) {
	t.Helper()
	ctx := context.Background()
	for i, e := range []models.TrackingEvent{
		{EventType: "page_view", Platform: "meta", UTMSource: strp("facebook")},
		{EventType: "click", Platform: "meta", UTMSource: strp("facebook")},
		{EventType: "purchase", Platform: "google", EventValue: floatp(299.99), UTMSource: strp("google")},
		{EventType: "conversion", Platform: "meta", EventValue: floatp(50), UTMSource: strp("facebook")},
	} {
		e := e
		e.Timestamp = base.Add(time.Duration(i) * time.Hour)
		PrepareEvent(&e, base)
		require.NoError(t, s.CreateEvent(ctx, &e))
		require.NotZero(t, e.ID)
	}
}

func TestPrepareEventDefaults(t *testing.T) {
	e := models.TrackingEvent{EventType: "  ", Platform: "Meta"}
	PrepareEvent(&e, base)
	assert.Len(t, e.EventID, 36)
	assert.True(t, strings.HasPrefix(e.UserID, "user_"))
	assert.Len(t, e.UserID, len("user_")+8)
	assert.True(t, strings.HasPrefix(e.SessionID, "session_"))
	assert.Equal(t, "page_view", e.EventType)
	assert.Equal(t, "meta", e.Platform)
	assert.Equal(t, base, e.Timestamp)

	e = models.TrackingEvent{UserID: "u-1", SessionID: "s-1"}
	PrepareEvent(&e, base)
	assert.Equal(t, "u-1", e.UserID)
	assert.Equal(t, "s-1", e.SessionID)
	assert.Equal(t, "unknown", e.Platform)
}

func TestListEvents(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seedEvents(t, s)
			ctx := context.Background()

			all, err := s.ListEvents(ctx, EventFilter{})
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "conversion", all[0].EventType)
			assert.Equal(t, "page_view", all[3].EventType)

			meta, err := s.ListEvents(ctx, EventFilter{Platform: "meta", Limit: 2})
			require.NoError(t, err)
			require.Len(t, meta, 2)
			for _, e := range meta {
				assert.Equal(t, "meta", e.Platform)
			}

			window, err := s.ListEvents(ctx, EventFilter{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
			require.NoError(t, err)
			require.Len(t, window, 2)
			assert.Equal(t, "purchase", window[0].EventType)
			require.NotNil(t, window[0].EventValue)
			assert.InDelta(t, 299.99, *window[0].EventValue, 1e-9)
		})
	}
}

func TestListEventsOffset(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seedEvents(t, s)
			page, err := s.ListEvents(context.Background(), EventFilter{Limit: 10, Offset: 2})
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "click", page[0].EventType)

			past, err := s.ListEvents(context.Background(), EventFilter{Offset: 10})
			require.NoError(t, err)
			assert.Empty(t, past)
		})
	}
}

func TestStats(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seedEvents(t, s)
			ctx := context.Background()

			st, err := s.Stats(ctx, EventFilter{})
			require.NoError(t, err)
			assert.Equal(t, 4, st.Events)
			assert.Equal(t, 1, st.PageViews)
			assert.Equal(t, 2, st.Conversions)
			assert.InDelta(t, 349.99, st.Revenue, 1e-6)

			bySource := map[string]SourceStats{}
			for _, ss := range st.Sources {
				bySource[ss.Source] = ss
			}
			require.Len(t, bySource, 2)
			assert.Equal(t, 1, bySource["facebook"].Conversions)
			assert.InDelta(t, 50.0, bySource["facebook"].Revenue, 1e-6)
			assert.InDelta(t, 299.99, bySource["google"].Revenue, 1e-6)

			meta, err := s.Stats(ctx, EventFilter{Platform: "meta"})
			require.NoError(t, err)
			assert.Equal(t, 3, meta.Events)
			assert.Equal(t, 1, meta.Conversions)

			empty, err := s.Stats(ctx, EventFilter{Platform: "tiktok"})
			require.NoError(t, err)
			assert.Zero(t, empty.Events)
			assert.Zero(t, empty.Revenue)
			assert.Empty(t, empty.Sources)
		})
	}
}

func TestAllEventsPagesPastMaxLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const n = MaxLimit + 500
	for i := 0; i < n; i++ {
		e := models.TrackingEvent{EventType: "page_view", Platform: "meta", Timestamp: base.Add(time.Duration(i) * time.Second)}
		PrepareEvent(&e, base)
		require.NoError(t, s.CreateEvent(ctx, &e))
	}

	all, err := AllEvents(ctx, s, EventFilter{Limit: 5})
	require.NoError(t, err)
	require.Len(t, all, n)
	seen := map[string]bool{}
	for _, e := range all {
		seen[e.EventID] = true
	}
	assert.Len(t, seen, n)

	st, err := s.Stats(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, n, st.Events)
}

func TestCreateEventDuplicate(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			e := models.TrackingEvent{EventID: "2f3c6a4e-0000-4000-8000-000000000001"}
			PrepareEvent(&e, base)
			require.NoError(t, s.CreateEvent(context.Background(), &e))

			dup := e
			dup.ID = 0
			assert.ErrorIs(t, s.CreateEvent(context.Background(), &dup), ErrDuplicate)
		})
	}
}

func TestUsersAndCampaigns(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := &models.User{ID: "u-1", Email: "ana@example.com", PasswordHash: "x", CompanyName: "Acme"}
			require.NoError(t, s.CreateUser(ctx, u))
			assert.ErrorIs(t, s.CreateUser(ctx, &models.User{ID: "u-2", Email: "ana@example.com", PasswordHash: "y"}), ErrDuplicate)

			got, err := s.UserByEmail(ctx, "ANA@example.com")
			require.NoError(t, err)
			assert.Equal(t, "u-1", got.ID)

			_, err = s.UserByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.CreateCampaign(ctx, &models.Campaign{ID: "c-1", UserID: "u-1", Name: "first", Platform: "meta", Status: "draft", StartDate: base, CreatedAt: base}))
			require.NoError(t, s.CreateCampaign(ctx, &models.Campaign{ID: "c-2", UserID: "u-1", Name: "second", Platform: "google", Status: "draft", StartDate: base, CreatedAt: base.Add(time.Minute)}))
			require.NoError(t, s.CreateCampaign(ctx, &models.Campaign{ID: "c-3", UserID: "u-9", Name: "other", Platform: "meta", Status: "draft", StartDate: base, CreatedAt: base}))

			list, err := s.CampaignsByUser(ctx, "u-1")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "c-2", list[0].ID)
		})
	}
}

func TestPing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestAggregate(t *testing.T) {
	s := NewMemoryStore()
	seedEvents(t, s)
	e := models.TrackingEvent{EventType: "purchase", Platform: "meta", EventValue: floatp(-10), UTMSource: strp("facebook"), Timestamp: base.Add(2 * time.Hour)}
	PrepareEvent(&e, base)
	require.NoError(t, s.CreateEvent(context.Background(), &e))

	events, err := s.ListEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	aggs := Aggregate(events)
	require.Len(t, aggs, 2)

	var meta, google models.DailyAgg
	for _, a := range aggs {
		switch a.Key.Platform {
		case "meta":
			meta = a
		case "google":
			google = a
		}
	}
	assert.Equal(t, 4, meta.Events)
	assert.Equal(t, 1, meta.PageViews)
	assert.Equal(t, 1, meta.Clicks)
	assert.Equal(t, 2, meta.Conversions)
	assert.Equal(t, 50.0, meta.Revenue) // valores negativos no suman
	assert.Equal(t, "unknown", meta.Key.UTMCampaign)
	assert.Equal(t, base.Truncate(24*time.Hour), meta.Key.Date)

	assert.Equal(t, 1, google.Conversions)
	assert.InDelta(t, 299.99, google.Revenue, 1e-9)
}
