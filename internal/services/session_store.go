package services

import (
	"sync"
	"time"

	"fleetops/dashboard/internal/analytics"
	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/models"

	"github.com/google/uuid"
)

// SessionState is everything one browser session keeps between requests.
// Callers hold Lock while reading or mutating it.
type SessionState struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	Dataset *models.Dataset
	Filter  models.Filter
	Routes  *RouteCache
	// RouteKey is the routing provider key typed into the HTML form. It lives
	// only in memory and is dropped with the session.
	RouteKey string
}

func (s *SessionState) Lock()   { s.mu.Lock() }
func (s *SessionState) Unlock() { s.mu.Unlock() }

// Attach replaces the session dataset and resets the filter and route memory.
func (s *SessionState) Attach(ds *models.Dataset) {
	s.Dataset = ds
	s.Filter = analytics.DefaultFilter(ds.Trips)
	s.Routes = NewRouteCache()
}

// Detach forgets the dataset.
func (s *SessionState) Detach() {
	s.Dataset = nil
	s.Filter = models.Filter{}
	s.Routes = NewRouteCache()
}

// SessionStore keeps sessions in memory with a sliding expiry.
type SessionStore struct {
	cache   *common.CacheService
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewSessionStore(ttl time.Duration, m *metrics.MetricsRegistry) *SessionStore {
	s := &SessionStore{
		cache:   common.NewCacheService(ttl, ttl/2),
		ttl:     ttl,
		metrics: m,
	}
	s.cache.OnEvicted(func(key string, _ interface{}) {
		logging.Debug("Session expired", "session_id", key)
		s.metrics.SetSessions(s.cache.ItemCount())
	})
	return s
}

func sessionKey(id string) string {
	return string(constants.CachePrefixSession) + id
}

// Get returns a live session and extends its lifetime.
func (s *SessionStore) Get(id string) (*SessionState, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.cache.Get(sessionKey(id))
	if !ok {
		return nil, false
	}
	state, ok := v.(*SessionState)
	if !ok {
		return nil, false
	}
	s.cache.Set(sessionKey(id), state, s.ttl)
	return state, true
}

// Create starts an empty session.
func (s *SessionStore) Create() *SessionState {
	state := &SessionState{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Routes:    NewRouteCache(),
	}
	s.cache.Set(sessionKey(state.ID), state, s.ttl)
	s.metrics.SetSessions(s.cache.ItemCount())
	logging.Debug("Session created", "session_id", state.ID)
	return state
}

// GetOrCreate resolves id, starting a new session when it is unknown or expired.
func (s *SessionStore) GetOrCreate(id string) (*SessionState, bool) {
	if state, ok := s.Get(id); ok {
		return state, false
	}
	return s.Create(), true
}

func (s *SessionStore) Delete(id string) {
	s.cache.Delete(sessionKey(id))
}

// Count includes expired sessions not yet swept.
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
