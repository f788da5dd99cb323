package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
)

const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 256
)

// Session is the dashboard state of one browser.
type Session struct {
	ID    string
	Shell *shell.Shell

	// ctx outlives the requests; views mounted through Switch use it.
	ctx context.Context

	mu       sync.Mutex
	lastSeen time.Time
}

// Switch mounts tab with views bound to the session rather than the request.
func (s *Session) Switch(tab shell.Tab) {
	s.Shell.Switch(s.ctx, tab)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry keeps one shell per browser and closes the ones left idle
// for longer than the TTL. At most maxSessions shells are open; creating
// one more evicts the least recently seen.
type Registry struct {
	ctx         context.Context
	factory     shell.Factory
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Registry)

// WithMaxSessions caps the number of open sessions. Values below one keep the default.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// NewRegistry builds sessions whose views live as long as ctx.
func NewRegistry(ctx context.Context, factory shell.Factory, ttl time.Duration, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		ctx:         ctx,
		factory:     factory,
		ttl:         ttl,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session with id, or a new one when id is unknown.
// The boolean reports whether the session was created.
func (r *Registry) Get(id string) (*Session, bool) {
	now := r.now()

	r.mu.Lock()
	if s, ok := r.sessions[id]; ok && id != "" {
		r.mu.Unlock()
		s.touch(now)
		return s, false
	}

	var evicted []*Session
	for len(r.sessions) >= r.maxSessions {
		oldest := r.oldestLocked()
		delete(r.sessions, oldest.ID)
		evicted = append(evicted, oldest)
	}

	s := &Session{
		ID:       uuid.NewString(),
		Shell:    shell.New(r.ctx, r.factory),
		ctx:      r.ctx,
		lastSeen: now,
	}
	r.sessions[s.ID] = s
	r.mu.Unlock()

	logger := zerolog.Ctx(r.ctx)
	for _, e := range evicted {
		e.Shell.Close()
		logger.Debug().Str("session", e.ID).Msg("session evicted")
	}
	logger.Debug().Str("session", s.ID).Msg("session created")
	return s, true
}

func (r *Registry) oldestLocked() *Session {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.idleSince().Before(oldest.idleSince()) {
			oldest = s
		}
	}
	return oldest
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many were closed.
func (r *Registry) Reap() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Shell.Close()
		zerolog.Ctx(r.ctx).Debug().Str("session", s.ID).Msg("session expired")
	}
	return len(expired)
}

// Run reaps expired sessions every interval until ctx is done, then closes
// every remaining session.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-ticker.C:
			r.Reap()
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Shell.Close()
	}
}
