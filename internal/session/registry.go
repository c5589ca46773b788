// Package session maps authenticated subjects to their kit controllers.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"kitportal/internal/kit/service"
	"kitportal/platform/logger"
	"kitportal/platform/metrics"
)

// Factory builds the controller of a new session.
type Factory func(id uuid.UUID) *service.Controller

type entry struct {
	ctrl     *service.Controller
	lastSeen time.Time
}

// Registry holds one controller per subject, created on first use.
type Registry struct {
	factory Factory
	metrics *metrics.Metrics
	log     *logger.Logger
	onClose func(uuid.UUID)
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates a registry. onClose, if set, is called with the id of
// every session that is closed or evicted.
func NewRegistry(factory Factory, m *metrics.Metrics, log *logger.Logger, onClose func(uuid.UUID)) *Registry {
	return &Registry{
		factory:  factory,
		metrics:  m,
		log:      log,
		onClose:  onClose,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Acquire returns the controller of subject and pushes the current token into
// it. A new token on an existing session makes the controller refetch.
func (r *Registry) Acquire(ctx context.Context, subject, token string) *service.Controller {
	r.mu.Lock()
	e, ok := r.sessions[subject]
	if !ok {
		id := uuid.New()
		e = &entry{ctrl: r.factory(id)}
		r.sessions[subject] = e
		r.metrics.SessionOpened()
		r.log.Info("session: opened", "subject", subject, "session_id", id.String())
	}
	e.lastSeen = r.now()
	ctrl := e.ctrl
	r.mu.Unlock()

	ctrl.SetAuth(ctx, token, true)
	return ctrl
}

// Lookup returns the controller of subject without touching it.
func (r *Registry) Lookup(subject string) (*service.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[subject]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

// Close logs a subject out and forgets its session.
func (r *Registry) Close(ctx context.Context, subject string) bool {
	r.mu.Lock()
	e, ok := r.sessions[subject]
	if ok {
		delete(r.sessions, subject)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}

	r.shutdown(ctx, subject, e.ctrl)
	return true
}

// EvictIdle closes every session not acquired within maxIdle and returns how
// many were closed.
func (r *Registry) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	idle := make(map[string]*service.Controller)
	for subject, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle[subject] = e.ctrl
			delete(r.sessions, subject)
		}
	}
	r.mu.Unlock()

	for subject, ctrl := range idle {
		r.shutdown(ctx, subject, ctrl)
	}
	return len(idle)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) shutdown(ctx context.Context, subject string, ctrl *service.Controller) {
	ctrl.SetAuth(ctx, "", true)
	r.metrics.SessionClosed()
	if r.onClose != nil {
		r.onClose(ctrl.ID())
	}
	r.log.Info("session: closed", "subject", subject, "session_id", ctrl.ID().String())
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ctx, maxIdle); n > 0 {
				r.log.Info("session: evicted idle sessions", "count", n)
			}
		}
	}
}
