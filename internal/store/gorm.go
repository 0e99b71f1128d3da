package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/models"
)

// Open abre la base según DATABASE_DRIVER y migra el esquema.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	logLevel := logger.Error
	if cfg.Development() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TrackingEvent{},
		&models.User{},
		&models.Campaign{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) CreateEvent(ctx context.Context, e *models.TrackingEvent) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.TrackingEvent{}).Where("event_id = ?", e.EventID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicate
	}
	err := s.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) events(ctx context.Context, f EventFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.TrackingEvent{})
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	if !f.From.IsZero() {
		q = q.Where("timestamp >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("timestamp < ?", f.To.UTC())
	}
	return q
}

func (s *GormStore) ListEvents(ctx context.Context, f EventFilter) ([]models.TrackingEvent, error) {
	var out []models.TrackingEvent
	err := s.events(ctx, f).
		Order("timestamp DESC").Order("id DESC").
		Limit(f.limit()).Offset(f.Offset).
		Find(&out).Error
	return out, err
}

// Stats agrega en la base: COUNT/SUM sobre la ventana y GROUP BY por fuente.
func (s *GormStore) Stats(ctx context.Context, f EventFilter) (EventStats, error) {
	var totals struct {
		Events      int64
		PageViews   int64
		Conversions int64
		Revenue     float64
	}
	err := s.events(ctx, f).Select(
		"COUNT(*) AS events, "+
			"COALESCE(SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END), 0) AS page_views, "+
			"COALESCE(SUM(CASE WHEN event_type IN ? THEN 1 ELSE 0 END), 0) AS conversions, "+
			"COALESCE(SUM(CASE WHEN event_type IN ? AND event_value > 0 THEN event_value ELSE 0 END), 0) AS revenue",
		EventPageView, conversionTypes, conversionTypes,
	).Scan(&totals).Error
	if err != nil {
		return EventStats{}, err
	}

	var sources []SourceStats
	err = s.events(ctx, f).Select(
		"COALESCE(NULLIF(TRIM(utm_source), ''), platform) AS source, "+
			"COUNT(*) AS conversions, "+
			"COALESCE(SUM(CASE WHEN event_value > 0 THEN event_value ELSE 0 END), 0) AS revenue",
	).Where("event_type IN ?", conversionTypes).Group("source").Scan(&sources).Error
	if err != nil {
		return EventStats{}, err
	}
	if sources == nil {
		sources = []SourceStats{}
	}
	return EventStats{
		Events:      int(totals.Events),
		PageViews:   int(totals.PageViews),
		Conversions: int(totals.Conversions),
		Revenue:     totals.Revenue,
		Sources:     sources,
	}, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.UserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) CampaignsByUser(ctx context.Context, userID string) ([]models.Campaign, error) {
	var out []models.Campaign
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}
