package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"learnleap/internal/metrics"
	"learnleap/internal/redis"
)

const (
	DefaultQueueSize    = 16
	DefaultIdleTTL      = 30 * time.Minute
	DefaultReapInterval = 5 * time.Minute
)

// ManagerConfig tunes the per-session workers.
type ManagerConfig struct {
	QueueSize int
	IdleTTL   time.Duration
}

// Command runs against one store on that session's worker.
type Command func(ctx context.Context, s *Store) error

type task struct {
	ctx      context.Context
	cmd      Command
	resultCh chan error
}

// Manager hosts many conversations. Each session gets a worker goroutine
// that runs its commands one at a time in submission order.
type Manager struct {
	opts     Options
	cfg      ManagerConfig
	sessions *sessionTable
	cache    *stateRedis
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	stopped  bool
	cancel   context.CancelFunc
	bgDone   []<-chan struct{}
	workerWG sync.WaitGroup
}

// NewManager builds a manager. cacheClient may be nil.
func NewManager(opts Options, cfg ManagerConfig, cacheClient *redis.Client) *Manager {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	log := opts.Logger.With().Str("component", "conversation_manager").Logger()
	return &Manager{
		opts:     opts,
		cfg:      cfg,
		sessions: newSessionTable(),
		cache:    newStateCache(cacheClient, cfg.IdleTTL, log),
		log:      log,
		now:      time.Now,
	}
}

// Start launches the idle reaper and, with redis, the close signal
// listener. Both stop on Shutdown.
func (m *Manager) Start(ctx context.Context, reapInterval time.Duration) error {
	if reapInterval <= 0 {
		reapInterval = DefaultReapInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	listenerDone, err := m.cache.startListener(ctx, func(msg closeMessage) {
		if s := m.sessions.get(msg.SessionID); s != nil {
			s.store.Close()
			m.cache.cacheSnapshot(ctx, s.id, s.store.Snapshot())
			m.log.Info().Str("session_id", msg.SessionID).Msg("applied close signal")
		}
	})
	if err != nil {
		cancel()
		return err
	}

	reaperDone := make(chan struct{})
	go m.reapLoop(ctx, reapInterval, reaperDone)

	m.mu.Lock()
	m.cancel = cancel
	m.bgDone = append(m.bgDone, listenerDone, reaperDone)
	m.mu.Unlock()
	return nil
}

// Mount creates a conversation holding the greeting and returns its id.
func (m *Manager) Mount() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return "", ErrManagerStopped
	}

	s := &session{
		id:       uuid.NewString(),
		store:    NewStore(m.opts),
		taskCh:   make(chan task, m.cfg.QueueSize),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		lastUsed: m.now(),
	}
	m.sessions.set(s)
	m.workerWG.Add(1)
	go m.runWorker(s)

	metrics.SessionsActive.Inc()
	m.cache.cacheSnapshot(context.Background(), s.id, s.store.Snapshot())
	m.log.Debug().Str("session_id", s.id).Msg("session mounted")
	return s.id, nil
}

// Unmount destroys a conversation. It reports whether the session existed.
func (m *Manager) Unmount(id string) bool {
	s := m.sessions.remove(id)
	if s == nil {
		return false
	}
	s.stop()
	<-s.done
	metrics.SessionsActive.Dec()
	m.cache.invalidate(context.Background(), id)
	m.log.Debug().Str("session_id", id).Msg("session unmounted")
	return true
}

// Get returns the live store for id.
func (m *Manager) Get(id string) (*Store, error) {
	s := m.sessions.get(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s.store, nil
}

// Snapshot returns the state of id. Sessions hosted by another replica are
// served from the redis mirror when one is configured.
func (m *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	if s := m.sessions.get(id); s != nil {
		s.touch(m.now())
		return s.store.Snapshot(), nil
	}
	if snap, ok := m.cache.loadSnapshot(ctx, id); ok {
		return snap, nil
	}
	return Snapshot{}, ErrSessionNotFound
}

// Do queues cmd on the session's worker and waits for it. A full queue
// fails fast with ErrQueueFull. If ctx ends first Do returns ctx.Err(); the
// command still runs to completion.
func (m *Manager) Do(ctx context.Context, id string, cmd Command) error {
	s := m.sessions.get(id)
	if s == nil {
		return ErrSessionNotFound
	}
	s.touch(m.now())

	select {
	case <-s.stopCh:
		return ErrSessionNotFound
	default:
	}

	resultCh := make(chan error, 1)
	select {
	case s.taskCh <- task{ctx: ctx, cmd: cmd, resultCh: resultCh}:
	default:
		return ErrQueueFull
	}

	select {
	case err := <-resultCh:
		return err
	case <-s.done:
		select {
		case err := <-resultCh:
			return err
		default:
			return ErrSessionNotFound
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishClose applies a parent-imposed close. With redis the signal is
// broadcast so whichever replica hosts the session closes it. Unknown ids
// fail with ErrSessionNotFound either way.
func (m *Manager) PublishClose(ctx context.Context, id string) error {
	s := m.sessions.get(id)
	if m.cache != nil {
		if s == nil {
			if _, ok := m.cache.loadSnapshot(ctx, id); !ok {
				return ErrSessionNotFound
			}
		}
		return m.cache.publishClose(ctx, id)
	}
	if s == nil {
		return ErrSessionNotFound
	}
	s.store.Close()
	m.cache.cacheSnapshot(ctx, id, s.store.Snapshot())
	return nil
}

// Len reports how many sessions are mounted.
func (m *Manager) Len() int {
	return m.sessions.len()
}

// Reap unmounts sessions idle for longer than the configured TTL and
// returns how many were removed.
func (m *Manager) Reap() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)
	n := 0
	for _, id := range m.sessions.idle(cutoff) {
		if m.Unmount(id) {
			n++
		}
	}
	if n > 0 {
		m.log.Info().Int("count", n).Msg("reaped idle sessions")
	}
	return n
}

// Shutdown stops every worker and background loop.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cancel := m.cancel
	bgDone := m.bgDone
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, done := range bgDone {
		<-done
	}
	for _, s := range m.sessions.drain() {
		s.stop()
		metrics.SessionsActive.Dec()
	}
	m.workerWG.Wait()
}

func (m *Manager) reapLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}

func (m *Manager) runWorker(s *session) {
	defer m.workerWG.Done()
	defer close(s.done)

	for {
		select {
		case <-s.stopCh:
			m.drainTasks(s)
			return
		case t := <-s.taskCh:
			m.handleTask(s, t)
		}
	}
}

func (m *Manager) handleTask(s *session, t task) {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	err := t.cmd(ctx, s.store)
	s.touch(m.now())
	m.cache.cacheSnapshot(context.WithoutCancel(ctx), s.id, s.store.Snapshot())
	t.resultCh <- err
}

func (m *Manager) drainTasks(s *session) {
	for {
		select {
		case t := <-s.taskCh:
			t.resultCh <- ErrSessionNotFound
		default:
			return
		}
	}
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
