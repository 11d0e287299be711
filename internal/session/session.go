// Package session keeps per-browser table state.
//
// Each browser gets a session id cookie. A session owns one open
// core.Table (engine plus definition) per table key, so sort, page,
// search and edit state survive between requests. Sessions live in an
// expiring LRU; an evicted or idle session loses all of that state and
// the next request starts from defaults.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

// ErrNoSession is returned when a request carries no session.
var ErrNoSession = errors.New("session expired")

// Config controls the session cache and cookie.
type Config struct {
	MaxSessions  int
	IdleTimeout  time.Duration
	CookieName   string
	SecureCookie bool
}

// Session is the table state of one browser.
type Session struct {
	ID      string
	Created time.Time

	mu     sync.Mutex
	tables map[string]*core.Table
}

// Opener opens a fresh table for a session.
type Opener interface {
	OpenTable(ctx context.Context, key string) (*core.Table, error)
}

// With runs fn on the session's table for key, opening it on first use.
// Calls on one session are serialized.
func (s *Session) With(ctx context.Context, svc Opener, key string, fn func(*core.Table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[key]
	if !ok {
		var err error
		t, err = svc.OpenTable(ctx, key)
		if err != nil {
			return err
		}
		s.tables[key] = t
	}
	return fn(t)
}

// Forget drops the state of one table; the next With starts from defaults.
func (s *Session) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, key)
}

// Tables returns the keys of the tables open in this session.
func (s *Session) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.tables))
	for k := range s.tables {
		keys = append(keys, k)
	}
	return keys
}

// Manager creates, finds and expires sessions.
type Manager struct {
	cfg   Config
	cache *expirable.LRU[string, *Session]
	now   func() time.Time
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "bo_session"
	}
	onEvict := func(id string, s *Session) {
		slog.Debug("session evicted", "session_id", id, "age", time.Since(s.Created).Round(time.Second))
	}
	return &Manager{
		cfg:   cfg,
		cache: expirable.NewLRU[string, *Session](cfg.MaxSessions, onEvict, cfg.IdleTimeout),
		now:   time.Now,
	}
}

// New creates and stores an empty session.
func (m *Manager) New() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Created: m.now(),
		tables:  make(map[string]*core.Table),
	}
	m.cache.Add(s.ID, s)
	return s
}

// Get returns a live session and extends its idle deadline.
func (m *Manager) Get(id string) (*Session, bool) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	m.cache.Add(id, s)
	return s, true
}

// Remove ends a session.
func (m *Manager) Remove(id string) {
	m.cache.Remove(id)
}

// Purge ends every session. Open tables are reloaded on next use.
func (m *Manager) Purge() {
	m.cache.Purge()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}

type ctxKey struct{}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// NewContext attaches s to ctx together with its audit and log correlation ids.
func NewContext(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, s)
	ctx = core.ContextWithSession(ctx, s.ID)
	return logging.WithSession(ctx, s.ID)
}

// Middleware resumes the session named by the cookie, or starts a new one
// and sets the cookie.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s *Session
		if c, err := r.Cookie(m.cfg.CookieName); err == nil {
			s, _ = m.Get(c.Value)
		}
		if s == nil {
			s = m.New()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cfg.CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
	})
}
