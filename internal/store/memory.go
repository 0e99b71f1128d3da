package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/AngelCh415/attributely-go/internal/models"
)

// MemoryStore implementa Store en memoria. Lo usan los tests y el CLI.
type MemoryStore struct {
	mu        sync.RWMutex
	events    []models.TrackingEvent
	seen      map[string]struct{} // idempotencia por event_id
	users     map[string]models.User
	campaigns []models.Campaign
	nextID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:  make(map[string]struct{}),
		users: make(map[string]models.User),
	}
}

func (s *MemoryStore) markSeenLocked(key string) bool {
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *MemoryStore) CreateEvent(_ context.Context, e *models.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.markSeenLocked(e.EventID) {
		return ErrDuplicate
	}
	s.nextID++
	e.ID = s.nextID
	s.events = append(s.events, *e)
	return nil
}

func (s *MemoryStore) ListEvents(_ context.Context, f EventFilter) ([]models.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TrackingEvent, 0)
	for _, e := range s.events {
		if f.match(e) {
			out = append(out, e)
		}
	}
	// más recientes primero, desempate por id
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if f.Offset >= len(out) {
		return []models.TrackingEvent{}, nil
	}
	out = out[f.Offset:]
	if n := f.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Stats(_ context.Context, f EventFilter) (EventStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st EventStats
	bySource := map[string]*SourceStats{}
	for _, e := range s.events {
		if !f.match(e) {
			continue
		}
		st.Events++
		if e.EventType == EventPageView {
			st.PageViews++
		}
		if !IsConversion(e.EventType) {
			continue
		}
		st.Conversions++
		src := SourceOf(e)
		ss, ok := bySource[src]
		if !ok {
			ss = &SourceStats{Source: src}
			bySource[src] = ss
		}
		ss.Conversions++
		if e.EventValue != nil && *e.EventValue > 0 {
			st.Revenue += *e.EventValue
			ss.Revenue += *e.EventValue
		}
	}
	st.Sources = make([]SourceStats, 0, len(bySource))
	for _, ss := range bySource {
		st.Sources = append(st.Sources, *ss)
	}
	return st, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := strings.ToLower(u.Email)
	if _, ok := s.users[k]; ok {
		return ErrDuplicate
	}
	s.users[k] = *u
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateCampaign(_ context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, *c)
	return nil
}

func (s *MemoryStore) CampaignsByUser(_ context.Context, userID string) ([]models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Campaign, 0)
	for i := len(s.campaigns) - 1; i >= 0; i-- {
		if s.campaigns[i].UserID == userID {
			out = append(out, s.campaigns[i])
		}
	}
	return out, nil
}
