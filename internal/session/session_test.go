package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

type fakeOpener struct {
	opened map[string]int
	err    error
}

func (f *fakeOpener) OpenTable(_ context.Context, key string) (*core.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.opened == nil {
		f.opened = map[string]int{}
	}
	f.opened[key]++
	return &core.Table{Def: core.TableDefinition{Info: core.TableInfo{Key: key}}}, nil
}

func TestSessionWithOpensOnce(t *testing.T) {
	m := NewManager(Config{MaxSessions: 4, IdleTimeout: time.Minute})
	s := m.New()
	op := &fakeOpener{}

	for i := 0; i < 3; i++ {
		err := s.With(context.Background(), op, "banks", func(tbl *core.Table) error {
			assert.Equal(t, "banks", tbl.Def.Info.Key)
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, op.opened["banks"])
	assert.Equal(t, []string{"banks"}, s.Tables())

	s.Forget("banks")
	require.NoError(t, s.With(context.Background(), op, "banks", func(*core.Table) error { return nil }))
	assert.Equal(t, 2, op.opened["banks"])
}

func TestSessionWithErrors(t *testing.T) {
	s := NewManager(Config{MaxSessions: 1, IdleTimeout: time.Minute}).New()

	openErr := errors.New("boom")
	err := s.With(context.Background(), &fakeOpener{err: openErr}, "banks", func(*core.Table) error { return nil })
	assert.ErrorIs(t, err, openErr)
	assert.Empty(t, s.Tables())

	fnErr := errors.New("fn")
	err = s.With(context.Background(), &fakeOpener{}, "banks", func(*core.Table) error { return fnErr })
	assert.ErrorIs(t, err, fnErr)
}

func TestManagerEvictsOldest(t *testing.T) {
	m := NewManager(Config{MaxSessions: 2, IdleTimeout: time.Hour})
	a, b := m.New(), m.New()
	_, _ = m.Get(a.ID)
	c := m.New()

	_, okA := m.Get(a.ID)
	_, okB := m.Get(b.ID)
	_, okC := m.Get(c.ID)
	assert.True(t, okA)
	assert.False(t, okB, "least recently used session should be evicted")
	assert.True(t, okC)
	assert.Equal(t, 2, m.Len())

	m.Remove(a.ID)
	_, okA = m.Get(a.ID)
	assert.False(t, okA)
}

func TestManagerIdleExpiry(t *testing.T) {
	m := NewManager(Config{MaxSessions: 2, IdleTimeout: 20 * time.Millisecond})
	s := m.New()
	time.Sleep(60 * time.Millisecond)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	m := NewManager(Config{MaxSessions: 4, IdleTimeout: time.Minute, CookieName: "sid"})

	var seen []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := FromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, s.ID, core.GetSessionFromContext(r.Context()))
		assert.Equal(t, s.ID, logging.SessionID(r.Context()))
		seen = append(seen, s.ID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies(), "known session should not be reissued")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, rec.Result().Cookies(), 1, "unknown session gets a new cookie")

	require.Len(t, seen, 3)
	assert.Equal(t, seen[0], seen[1])
	assert.NotEqual(t, seen[0], seen[2])
}

func TestFromContextMissing(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
