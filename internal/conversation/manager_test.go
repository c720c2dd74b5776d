package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"learnleap/internal/config"
	"learnleap/internal/models"
	"learnleap/internal/redis"
	"learnleap/internal/service/ai"
)

func newTestManager(t *testing.T, provider ai.Provider, cfg ManagerConfig) *Manager {
	t.Helper()
	m := NewManager(Options{
		Provider: provider,
		Upload:   config.Default().Upload,
		Logger:   zerolog.Nop(),
	}, cfg, nil)
	t.Cleanup(m.Shutdown)
	return m
}

func TestManagerMountAndSnapshot(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{})
	id, err := m.Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	other, _ := m.Mount()
	if id == other {
		t.Fatalf("session ids must be unique")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}

	snap, err := m.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.State.Messages) != 1 || snap.State.Messages[0].Content != Greeting {
		t.Fatalf("unexpected snapshot: %+v", snap.State)
	}

	if _, err := m.Snapshot(context.Background(), "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestManagerDoRunsInOrder(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{QueueSize: 32})
	id, _ := m.Mount()

	for i := 0; i < 10; i++ {
		text := fmt.Sprintf("message %d", i)
		if err := m.Do(context.Background(), id, func(ctx context.Context, s *Store) error {
			s.SendUserMessage(ctx, text, home)
			return nil
		}); err != nil {
			t.Fatalf("do: %v", err)
		}
	}

	st, _ := m.Snapshot(context.Background(), id)
	if len(st.State.Messages) != 21 {
		t.Fatalf("expected 21 messages, got %d", len(st.State.Messages))
	}
	for i := 0; i < 10; i++ {
		user := st.State.Messages[1+2*i]
		reply := st.State.Messages[2+2*i]
		if user.Content != fmt.Sprintf("message %d", i) || user.Role != models.RoleUser {
			t.Fatalf("message %d out of order: %#v", i, user)
		}
		if reply.Role != models.RoleAssistant {
			t.Fatalf("reply %d has role %s", i, reply.Role)
		}
	}
}

func TestManagerConcurrentSendsStayPaired(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{QueueSize: 64})
	id, _ := m.Mount()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Do(context.Background(), id, func(ctx context.Context, s *Store) error {
				s.SendUserMessage(ctx, fmt.Sprintf("hello %d", i), home)
				return nil
			})
		}(i)
	}
	wg.Wait()

	st, _ := m.Snapshot(context.Background(), id)
	msgs := st.State.Messages
	if len(msgs) != 41 {
		t.Fatalf("expected 41 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i += 2 {
		if msgs[i].Role != models.RoleUser || msgs[i+1].Role != models.RoleAssistant {
			t.Fatalf("messages interleaved at %d", i)
		}
	}
}

func TestManagerQueueFull(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{QueueSize: 1})
	id, _ := m.Mount()

	release := make(chan struct{})
	started := make(chan struct{})
	firstErr := make(chan error, 1)
	go func() {
		firstErr <- m.Do(context.Background(), id, func(context.Context, *Store) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// the worker is busy, so this one waits in the only queue slot
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := make(chan struct{})
	err := m.Do(ctx, id, func(context.Context, *Store) error {
		close(ran)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while queued, got %v", err)
	}

	err = m.Do(context.Background(), id, func(context.Context, *Store) error { return nil })
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full, got %v", err)
	}

	close(release)
	if err := <-firstErr; err != nil {
		t.Fatalf("first task: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("queued task should still run after its caller gave up")
	}
}

func TestManagerDoCompletesAfterCallerLeaves(t *testing.T) {
	slow := ai.ProviderFunc(func(ctx context.Context, msg string, _ []models.Message, _ models.PageContext) (string, error) {
		if err := ai.Sleep(ctx, 100*time.Millisecond); err != nil {
			return "", err
		}
		return "reply to " + msg, nil
	})
	m := newTestManager(t, slow, ManagerConfig{})
	id, _ := m.Mount()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.Do(ctx, id, func(ctx context.Context, s *Store) error {
		s.SendUserMessage(ctx, "hello", models.NewPageContext("/"))
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the caller to time out, got %v", err)
	}

	// runs after the send on the same worker
	if err := m.Do(context.Background(), id, func(context.Context, *Store) error { return nil }); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	snap, _ := m.Snapshot(context.Background(), id)
	msgs := snap.State.Messages
	if len(msgs) != 3 || msgs[2].Content != "reply to hello" {
		t.Fatalf("expected the real reply, got %#v", msgs)
	}
}

func TestManagerDoPropagatesErrors(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{})
	id, _ := m.Mount()

	want := errors.New("nope")
	if err := m.Do(context.Background(), id, func(context.Context, *Store) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected command error, got %v", err)
	}
	if err := m.Do(context.Background(), "missing", func(context.Context, *Store) error { return nil }); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestManagerUnmount(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{})
	id, _ := m.Mount()

	if !m.Unmount(id) {
		t.Fatalf("unmount should report the session existed")
	}
	if m.Unmount(id) {
		t.Fatalf("second unmount should be a no-op")
	}
	if _, err := m.Get(id); !IsNotFound(err) {
		t.Fatalf("expected not found after unmount, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", m.Len())
	}
}

func TestManagerReapIdle(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{IdleTTL: time.Minute})
	now := time.Now()
	m.now = func() time.Time { return now }

	stale, _ := m.Mount()
	now = now.Add(50 * time.Second)
	fresh, _ := m.Mount()
	now = now.Add(20 * time.Second)

	if n := m.Reap(); n != 1 {
		t.Fatalf("expected 1 reaped session, got %d", n)
	}
	if _, err := m.Get(stale); !IsNotFound(err) {
		t.Fatalf("stale session should be gone")
	}
	if _, err := m.Get(fresh); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}

func TestManagerPublishCloseWithoutRedis(t *testing.T) {
	m := newTestManager(t, mockProvider(), ManagerConfig{})
	id, _ := m.Mount()
	store, _ := m.Get(id)
	store.Open()

	if err := m.PublishClose(context.Background(), id); err != nil {
		t.Fatalf("publish close: %v", err)
	}
	if store.State().IsOpen {
		t.Fatalf("close signal should close the widget")
	}
	if err := m.PublishClose(context.Background(), "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestManagerStartAndShutdown(t *testing.T) {
	m := NewManager(Options{Logger: zerolog.Nop()}, ManagerConfig{}, nil)
	if err := m.Start(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}
	id, _ := m.Mount()
	m.Shutdown()
	m.Shutdown()

	if _, err := m.Mount(); !errors.Is(err, ErrManagerStopped) {
		t.Fatalf("mount after shutdown: %v", err)
	}
	if err := m.Do(context.Background(), id, func(context.Context, *Store) error { return nil }); !IsNotFound(err) {
		t.Fatalf("do after shutdown: %v", err)
	}
}

func TestManagerRedisCloseSignal(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := redis.Dial(&goredis.Options{Addr: addr})
	if err != nil {
		t.Fatalf("dial redis: %v", err)
	}
	defer client.Close()

	m := NewManager(Options{Logger: zerolog.Nop()}, ManagerConfig{}, client)
	defer m.Shutdown()
	if err := m.Start(context.Background(), time.Minute); err != nil {
		t.Fatalf("start: %v", err)
	}

	id, _ := m.Mount()
	store, _ := m.Get(id)
	if err := m.Do(context.Background(), id, func(_ context.Context, s *Store) error {
		s.Open()
		return nil
	}); err != nil {
		t.Fatalf("open: %v", err)
	}

	ttl, err := client.TTL(context.Background(), fmt.Sprintf(redisSessionKey, id))
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > DefaultIdleTTL {
		t.Fatalf("snapshot ttl %v outside (0, %v]", ttl, DefaultIdleTTL)
	}

	if err := m.PublishClose(context.Background(), "missing"); !IsNotFound(err) {
		t.Fatalf("publish to unknown session: %v", err)
	}
	if err := m.PublishClose(context.Background(), id); err != nil {
		t.Fatalf("publish: %v", err)
	}
	reader := NewManager(Options{Logger: zerolog.Nop()}, ManagerConfig{}, client)
	defer reader.Shutdown()
	mirroredOpen := func() bool {
		snap, err := reader.Snapshot(context.Background(), id)
		return err != nil || snap.State.IsOpen
	}
	deadline := time.Now().Add(2 * time.Second)
	for (store.State().IsOpen || mirroredOpen()) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.State().IsOpen {
		t.Fatalf("close signal was not applied")
	}
	if mirroredOpen() {
		t.Fatalf("mirror still shows the widget open")
	}

	// snapshots are mirrored for other replicas
	if err := m.Do(context.Background(), id, func(ctx context.Context, s *Store) error {
		s.SendUserMessage(ctx, "hello", home)
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
	other := NewManager(Options{Logger: zerolog.Nop()}, ManagerConfig{}, client)
	defer other.Shutdown()
	snap, err := other.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("mirrored snapshot: %v", err)
	}
	if len(snap.State.Messages) != 3 {
		t.Fatalf("expected mirrored messages, got %d", len(snap.State.Messages))
	}
	m.Unmount(id)
	if _, err := other.Snapshot(context.Background(), id); !IsNotFound(err) {
		t.Fatalf("unmount should invalidate the mirror, got %v", err)
	}
}
