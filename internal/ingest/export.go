package ingest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/store"
)

var ErrSinkNotConfigured = errors.New("sink not configured")

// Exporter envía las filas diarias de eventos a un sink externo firmado con HMAC.
type Exporter struct {
	c   HTTPClient
	st  store.EventStore
	log *slog.Logger
	cfg config.Config
}

func NewExporter(c HTTPClient, st store.EventStore, log *slog.Logger, cfg config.Config) *Exporter {
	return &Exporter{c: c, st: st, log: log, cfg: cfg}
}

// Sign devuelve el HMAC-SHA256 hex de body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (e *Exporter) ExportDay(ctx context.Context, date time.Time) (int, error) {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return 0, ErrSinkNotConfigured
	}
	from := dayUTC(date)
	events, err := store.AllEvents(ctx, e.st, store.EventFilter{
		From: from,
		To:   from.AddDate(0, 0, 1),
	})
	if err != nil {
		return 0, err
	}
	rows := metrics.Rows(store.Aggregate(events))
	if len(rows) == 0 {
		return 0, nil
	}
	b, err := json.Marshal(rows) // exportamos arreglo
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(e.cfg.SinkSecret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{Status: resp.StatusCode}
	}
	e.log.Info("export complete",
		slog.String("date", from.Format("2006-01-02")),
		slog.Int("rows", len(rows)))
	return len(rows), nil
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
