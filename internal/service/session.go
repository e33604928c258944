package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iliaxp/LiberaryApplication/internal/cart"
	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/flow"
	apperrors "github.com/iliaxp/LiberaryApplication/pkg/errors"
)

// session is one device's storefront: its own view filter, cart, screen flow
// and carousel. All fields behind mu are only touched with mu held.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	carouselEvery time.Duration
	stopCarousel  context.CancelFunc
	evicted       bool
	catalog       *catalog.Store
	cart          *cart.Store
	flow          *flow.Controller
	carousel      *flow.Carousel
	lastSeen      time.Time
	cartChanged   bool
}

func (s *Storefront) newSession(id string, onboarded bool) *session {
	books := catalog.NewStore(s.books)
	c := cart.NewStore()
	sess := &session{
		id:       id,
		catalog:  books,
		cart:     c,
		flow:     flow.NewController(books, c, onboarded),
		carousel: flow.NewCarousel(flow.BannerURLs),
		lastSeen: s.now(),
	}
	// Cart events are published once the mutating call has released the lock.
	c.Observable().Subscribe(func([]domain.CartLine) { sess.cartChanged = true })
	return sess
}

// start launches the splash and carousel timers; they stop when the session
// is evicted or the service closes.
func (sess *session) start(parent context.Context, splash, carousel time.Duration) {
	ctx, cancel := context.WithCancel(parent)
	sess.ctx = ctx
	sess.cancel = cancel
	sess.carouselEvery = carousel

	flow.After(ctx, splash, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.flow.FinishSplash()
	})
	sess.restartCarousel()
}

// restartCarousel begins a fresh carousel interval from now. Callers hold mu
// once the session is shared.
func (sess *session) restartCarousel() {
	if sess.ctx == nil {
		return
	}
	if sess.stopCarousel != nil {
		sess.stopCarousel()
	}
	ctx, cancel := context.WithCancel(sess.ctx)
	sess.stopCarousel = cancel

	flow.Every(ctx, sess.carouselEvery, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		// A tick that raced a restart belongs to the old interval.
		if ctx.Err() != nil {
			return
		}
		sess.carousel.Next()
	})
}

func (sess *session) stop() {
	if sess.cancel != nil {
		sess.cancel()
	}
}

// session returns the live session for id, creating it on first use. The
// onboarding flag is read from the repository only at creation.
//
// The session may be evicted before the caller locks it; see lockSession.
func (s *Storefront) session(ctx context.Context, id string) (*session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	onboarded, err := s.repo.Completed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read onboarding flag: %w", err)
	}
	created := s.newSession(id, onboarded)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("storefront is shutting down")
	}
	if existing, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[id] = created
	created.start(s.rootCtx, s.opts.SplashDuration, s.opts.CarouselInterval)
	s.mu.Unlock()

	sessionsActive.Inc()
	s.logger.InfoContext(ctx, "session started",
		slog.String("session_id", id),
		slog.Bool("onboarded", onboarded),
	)
	return created, nil
}

// lockSession returns the live session for id with its mutex held. A session
// evicted between lookup and lock is skipped and looked up again.
func (s *Storefront) lockSession(ctx context.Context, id string) (*session, error) {
	for {
		sess, err := s.session(ctx, id)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if !sess.evicted {
			return sess, nil
		}
		sess.mu.Unlock()
	}
}

// SessionCount returns the number of live sessions.
func (s *Storefront) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictIdle drops sessions not used since before now minus the idle TTL and
// returns how many were removed.
func (s *Storefront) evictIdle(now time.Time) int {
	cutoff := now.Add(-s.opts.SessionIdleTTL)

	s.mu.Lock()
	var idle []*session
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.lastSeen.Before(cutoff)
		if stale {
			sess.evicted = true
		}
		sess.mu.Unlock()
		if stale {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.stop()
		sessionsActive.Dec()
		sessionsEvicted.Inc()
		s.logger.Debug("session evicted", slog.String("session_id", sess.id))
	}
	return len(idle)
}

func (s *Storefront) runJanitor(ctx context.Context) {
	defer close(s.janitorDone)

	interval := s.opts.SessionIdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(s.now()); n > 0 {
				s.logger.Info("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}
