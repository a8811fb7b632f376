package memory

import (
	"context"
	"time"

	"ai-admissions-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// sessionEntry pairs a session with its own lock. The lock is a one-slot
// channel so waiting callers can give up when their context ends.
type sessionEntry struct {
	lock    chan struct{}
	session *store.Session
}

type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionRepository keeps sessions for the process lifetime when ttl is 0,
// otherwise evicts sessions idle for longer than ttl.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *SessionRepository) entry(sessionID string) *sessionEntry {
	var e *sessionEntry
	for {
		if x, found := r.cache.Get(sessionID); found {
			return x.(*sessionEntry)
		}
		if e == nil {
			e = &sessionEntry{
				lock:    make(chan struct{}, 1),
				session: store.NewSession(sessionID, r.now()),
			}
		}
		// Add fails when another caller stored the id first. The winner may
		// be evicted before the next Get, so go around again.
		if err := r.cache.Add(sessionID, e, cache.DefaultExpiration); err == nil {
			return e
		}
	}
}

func (r *SessionRepository) touch(sessionID string, e *sessionEntry) {
	if r.ttl > 0 {
		r.cache.Set(sessionID, e, cache.DefaultExpiration)
	}
}

// WithSession runs fn with exclusive access to the session, creating it on
// first reference. Do not call other repository methods for the same id
// from inside fn.
func (r *SessionRepository) WithSession(ctx context.Context, sessionID string, fn func(*store.Session) error) error {
	e := r.entry(sessionID)

	select {
	case e.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.lock }()

	err := fn(e.session)
	e.session.UpdatedAt = r.now()
	r.touch(sessionID, e)
	return err
}

func (r *SessionRepository) mutate(sessionID string, fn func(*store.Session)) {
	_ = r.WithSession(context.Background(), sessionID, func(s *store.Session) error {
		fn(s)
		return nil
	})
}

// GetOrCreate never fails. The returned pointer is the stored instance.
func (r *SessionRepository) GetOrCreate(sessionID string) *store.Session {
	e := r.entry(sessionID)
	r.touch(sessionID, e)
	return e.session
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*sessionEntry).session, true
	}
	return nil, false
}

func (r *SessionRepository) UpdateField(sessionID string, field store.Field, value string) {
	r.mutate(sessionID, func(s *store.Session) { s.SetValue(field, value) })
}

func (r *SessionRepository) AppendTurn(sessionID, role, content string) {
	r.mutate(sessionID, func(s *store.Session) { s.Append(role, content, r.now()) })
}

func (r *SessionRepository) ResetContact(sessionID string) {
	r.mutate(sessionID, func(s *store.Session) { s.ClearContact() })
}

func (r *SessionRepository) SetForm(sessionID string, state store.FormState) {
	r.mutate(sessionID, func(s *store.Session) { s.Form = state })
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
