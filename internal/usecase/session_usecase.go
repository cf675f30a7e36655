package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/internal/store"
)

var tracer = otel.Tracer("github.com/eslsoft/lingolive/internal/usecase")

// SessionRegistry owns the live progress store of every active learner.
type SessionRegistry interface {
	// Open returns the user's store, loading it from persistence on first use.
	Open(ctx context.Context, userID string) (*store.Store, error)
	// Save persists the user's store and syncs the profile row.
	Save(ctx context.Context, userID string) error
	// Flush saves every store that changed since it was last saved.
	Flush(ctx context.Context) error
	// Evict saves and forgets a user's store.
	Evict(ctx context.Context, userID string) error
	// EvictIdle saves and forgets every store not opened within the idle
	// timeout and reports how many were dropped.
	EvictIdle(ctx context.Context) (int, error)
}

// DefaultSessionIdleTimeout is how long an unused store stays in memory.
const DefaultSessionIdleTimeout = 30 * time.Minute

// SessionOptions configures a SessionRegistry.
type SessionOptions struct {
	MessagesLimit int
	IdleTimeout   time.Duration
	Clock         func() time.Time
}

type session struct {
	store       *store.Store
	dirty       atomic.Bool
	unsubscribe func()
	saveMu      sync.Mutex

	lastUsed atomic.Int64  // unix nanos of the latest Open
	uses     atomic.Uint64 // bumped on every Open
}

func (s *session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
	s.uses.Add(1)
}

type sessionRegistry struct {
	states   repository.StateRepository
	profiles repository.ProfileRepository
	sync     ProfileSync
	logger   *logrus.Logger
	opts     SessionOptions

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionRegistry wires the state blob store and the profile sync.
func NewSessionRegistry(
	states repository.StateRepository,
	profiles repository.ProfileRepository,
	profileSync ProfileSync,
	logger *logrus.Logger,
	opts SessionOptions,
) SessionRegistry {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MessagesLimit <= 0 {
		opts.MessagesLimit = entity.DefaultMessagesLimit
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultSessionIdleTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &sessionRegistry{
		states:   states,
		profiles: profiles,
		sync:     profileSync,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*session),
	}
}

func (r *sessionRegistry) Open(ctx context.Context, userID string) (*store.Store, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}

	// Touched under the read lock so EvictIdle cannot drop a store that
	// was just handed out.
	r.mu.RLock()
	sess, ok := r.sessions[userID]
	if ok {
		sess.touch(r.opts.Clock())
	}
	r.mu.RUnlock()
	if ok {
		return sess.store, nil
	}

	ctx, span := tracer.Start(ctx, "SessionRegistry.Open")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	st, err := r.load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[userID]; ok {
		existing.touch(r.opts.Clock())
		return existing.store, nil
	}
	sess = &session{store: st}
	sess.touch(r.opts.Clock())
	sess.unsubscribe = st.Subscribe(func(ev store.Event) {
		if ev.Persistent() {
			sess.dirty.Store(true)
		}
	})
	r.sessions[userID] = sess
	return st, nil
}

// load restores the persisted snapshot and then reconciles the counters
// with the durable profile row, which wins for xp, level, streak, quota and
// premium.
func (r *sessionRegistry) load(ctx context.Context, userID string) (*store.Store, error) {
	st := store.New(store.WithClock(r.opts.Clock), store.WithMessagesLimit(r.opts.MessagesLimit))

	data, err := r.states.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	if len(data) > 0 {
		snap, err := store.Decode(data)
		if err != nil {
			r.logger.WithError(err).WithField("user_id", userID).Warn("discarding unreadable session state")
		} else {
			st.Restore(snap)
		}
	}

	profile, err := r.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, entity.ErrProfileNotFound):
		return st, nil
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	rehydrate(st, profile)
	return st, nil
}

func rehydrate(st *store.Store, profile *entity.Profile) {
	limit := st.Progress().MessagesLimit
	used := limit - profile.MessagesRemaining
	if used < 0 {
		used = 0
	}
	if used > limit {
		used = limit
	}
	st.ApplyOverride(store.ProgressOverride{
		XP:            &profile.XP,
		Level:         &profile.Level,
		XPToNextLevel: &profile.XPToNextLevel,
		TotalXP:       &profile.TotalXP,
		Streak:        &profile.Streak,
		MessagesUsed:  &used,
		IsPremium:     &profile.IsPremium,
	})
	if _, ok := st.TargetLanguage(); !ok && profile.TargetLanguage != "" {
		if lang, ok := entity.LookupLanguage(profile.TargetLanguage); ok {
			st.SetTargetLanguage(lang)
		}
	}
}

func (r *sessionRegistry) Save(ctx context.Context, userID string) error {
	r.mu.RLock()
	sess, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return r.save(ctx, userID, sess)
}

func (r *sessionRegistry) save(ctx context.Context, userID string, sess *session) error {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	ctx, span := tracer.Start(ctx, "SessionRegistry.Save")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if r.sync != nil {
		if _, err := r.sync.Sync(ctx, userID, sess.store); err != nil {
			span.RecordError(err)
			return fmt.Errorf("sync profile: %w", err)
		}
	}
	// Cleared after the sync so that its own streak write-back does not
	// mark the session dirty again.
	sess.dirty.Store(false)

	data, err := store.Encode(sess.store.Snapshot())
	if err != nil {
		sess.dirty.Store(true)
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := r.states.Save(ctx, userID, data); err != nil {
		sess.dirty.Store(true)
		span.RecordError(err)
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (r *sessionRegistry) Flush(ctx context.Context) error {
	r.mu.RLock()
	pending := make(map[string]*session)
	for id, sess := range r.sessions {
		if sess.dirty.Load() {
			pending[id] = sess
		}
	}
	r.mu.RUnlock()

	var errs []error
	for id, sess := range pending {
		if err := r.save(ctx, id, sess); err != nil {
			r.logger.WithError(err).WithField("user_id", id).Error("flush session failed")
			errs = append(errs, err)
		}
	}
	if len(pending) > 0 {
		r.logger.WithField("sessions", len(pending)).Debug("flushed sessions")
	}
	return errors.Join(errs...)
}

func (r *sessionRegistry) Evict(ctx context.Context, userID string) error {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	defer sess.unsubscribe()
	return r.save(ctx, userID, sess)
}

func (r *sessionRegistry) EvictIdle(ctx context.Context) (int, error) {
	cutoff := r.opts.Clock().Add(-r.opts.IdleTimeout).UnixNano()

	r.mu.RLock()
	idle := make(map[string]*session)
	for id, sess := range r.sessions {
		if sess.lastUsed.Load() < cutoff {
			idle[id] = sess
		}
	}
	r.mu.RUnlock()

	var (
		errs    []error
		evicted int
	)
	for id, sess := range idle {
		uses := sess.uses.Load()
		if err := r.save(ctx, id, sess); err != nil {
			r.logger.WithError(err).WithField("user_id", id).Error("save idle session failed")
			errs = append(errs, err)
			continue
		}
		r.mu.Lock()
		// Skip sessions opened or changed while they were being saved.
		drop := r.sessions[id] == sess && sess.uses.Load() == uses && !sess.dirty.Load()
		if drop {
			delete(r.sessions, id)
		}
		r.mu.Unlock()
		if drop {
			sess.unsubscribe()
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.WithField("sessions", evicted).Debug("evicted idle sessions")
	}
	return evicted, errors.Join(errs...)
}
