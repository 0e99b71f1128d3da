package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/attributely-go/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type EventFilter struct {
	Platform string
	Limit    int
	Offset   int
	From     time.Time // inclusive, zero = sin límite
	To       time.Time // exclusive, zero = sin límite
}

func (f EventFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	if f.Limit > MaxLimit {
		return MaxLimit
	}
	return f.Limit
}

func (f EventFilter) match(e models.TrackingEvent) bool {
	if f.Platform != "" && e.Platform != f.Platform {
		return false
	}
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.Timestamp.Before(f.To) {
		return false
	}
	return true
}

// SourceStats son las conversiones e ingresos de una fuente (utm_source o,
// si falta, la plataforma).
type SourceStats struct {
	Source      string  `json:"source"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// EventStats son totales sobre todos los eventos del filtro; Limit y Offset
// se ignoran.
type EventStats struct {
	Events      int
	PageViews   int
	Conversions int
	Revenue     float64
	Sources     []SourceStats
}

type EventStore interface {
	CreateEvent(ctx context.Context, e *models.TrackingEvent) error
	// ListEvents devuelve los eventos más recientes primero.
	ListEvents(ctx context.Context, f EventFilter) ([]models.TrackingEvent, error)
	Stats(ctx context.Context, f EventFilter) (EventStats, error)
	Ping(ctx context.Context) error
}

// AllEvents recorre ListEvents página a página hasta agotar la ventana.
func AllEvents(ctx context.Context, st EventStore, f EventFilter) ([]models.TrackingEvent, error) {
	f.Limit, f.Offset = MaxLimit, 0
	var out []models.TrackingEvent
	for {
		page, err := st.ListEvents(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < MaxLimit {
			return out, nil
		}
		f.Offset += len(page)
	}
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	CampaignsByUser(ctx context.Context, userID string) ([]models.Campaign, error)
}

type Store interface {
	EventStore
	UserStore
	CampaignStore
}

const (
	EventPageView   = "page_view"
	EventClick      = "click"
	EventConversion = "conversion"
	EventPurchase   = "purchase"
)

// PrepareEvent completa los valores por defecto de un evento entrante.
func PrepareEvent(e *models.TrackingEvent, now time.Time) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if strings.TrimSpace(e.UserID) == "" {
		e.UserID = "user_" + shortHex()
	}
	if strings.TrimSpace(e.SessionID) == "" {
		e.SessionID = "session_" + shortHex()
	}
	e.EventType = coalesce(strings.ToLower(e.EventType), EventPageView)
	e.Platform = coalesce(strings.ToLower(e.Platform), "unknown")
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	e.Timestamp = e.Timestamp.UTC()
}

var conversionTypes = []string{EventConversion, EventPurchase}

func IsConversion(eventType string) bool {
	return eventType == EventConversion || eventType == EventPurchase
}

// SourceOf es utm_source cuando viene informado y la plataforma si no.
func SourceOf(e models.TrackingEvent) string {
	if e.UTMSource != nil && strings.TrimSpace(*e.UTMSource) != "" {
		return strings.TrimSpace(*e.UTMSource)
	}
	return e.Platform
}

func shortHex() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] }

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
