package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/store"
)

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	day := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	src := "facebook"
	v := 120.5
	for _, e := range []models.TrackingEvent{
		{EventType: store.EventPageView, Platform: "meta", UTMSource: &src, Timestamp: day},
		{EventType: store.EventClick, Platform: "meta", UTMSource: &src, Timestamp: day.Add(time.Minute)},
		{EventType: store.EventPurchase, Platform: "meta", UTMSource: &src, EventValue: &v, Timestamp: day.Add(2 * time.Minute)},
		{EventType: store.EventPageView, Platform: "google", Timestamp: day.AddDate(0, 0, 1)},
	} {
		e := e
		store.PrepareEvent(&e, day)
		require.NoError(t, st.CreateEvent(context.Background(), &e))
	}
	return st
}

func TestExportDaySignsPayload(t *testing.T) {
	var gotSig string
	var gotBody []byte
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	ex := NewExporter(sink.Client(), seedStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.Config{SinkURL: sink.URL, SinkSecret: "shh"})

	n, err := ex.ExportDay(context.Background(), time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, Sign("shh", gotBody), gotSig)

	var rows []models.PlatformMetrics
	require.NoError(t, json.Unmarshal(gotBody, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "meta", rows[0].Platform)
	assert.Equal(t, "facebook", rows[0].UTMSource)
	assert.Equal(t, 3, rows[0].Events)
	assert.Equal(t, 1, rows[0].Conversions)
	assert.Equal(t, 120.5, rows[0].Revenue)
}

func TestExportDayNoRows(t *testing.T) {
	ex := NewExporter(http.DefaultClient, store.NewMemoryStore(), slog.Default(),
		config.Config{SinkURL: "http://127.0.0.1:1", SinkSecret: "shh"})
	n, err := ex.ExportDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExportDayRequiresSink(t *testing.T) {
	ex := NewExporter(http.DefaultClient, store.NewMemoryStore(), slog.Default(), config.Config{})
	_, err := ex.ExportDay(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrSinkNotConfigured)
}

func TestExportDaySinkFailure(t *testing.T) {
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sink.Close()
	ex := NewExporter(sink.Client(), seedStore(t), slog.Default(),
		config.Config{SinkURL: sink.URL, SinkSecret: "shh"})
	_, err := ex.ExportDay(context.Background(), time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestExportDayIncludesWholeDay(t *testing.T) {
	st := store.NewMemoryStore()
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	const n = store.MaxLimit + 500
	for i := 0; i < n; i++ {
		e := models.TrackingEvent{EventType: store.EventPageView, Platform: "meta", Timestamp: day.Add(time.Duration(i) * time.Second)}
		store.PrepareEvent(&e, day)
		require.NoError(t, st.CreateEvent(context.Background(), &e))
	}

	var rows []models.PlatformMetrics
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&rows)
		w.WriteHeader(http.StatusOK)
	}))
	defer sink.Close()

	ex := NewExporter(sink.Client(), st, slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.Config{SinkURL: sink.URL, SinkSecret: "shh"})
	_, err := ex.ExportDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n, rows[0].Events)
	assert.Equal(t, n, rows[0].PageViews)
}
