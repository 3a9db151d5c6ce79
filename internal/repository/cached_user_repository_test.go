package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

type stubUsers struct {
	users          map[string]domain.User
	accountManager *domain.User
	calls          int
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (domain.User, bool, error) {
	s.calls++
	user, ok := s.users[username]
	return user, ok, nil
}

func (s *stubUsers) GetAccountManager(context.Context) (domain.User, bool, error) {
	s.calls++
	if s.accountManager == nil {
		return domain.User{}, false, nil
	}
	return *s.accountManager, true, nil
}

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewCachedUserRepositoryDisabled(t *testing.T) {
	base := &stubUsers{}
	if got := NewCachedUserRepository(base, nil, time.Minute, nil); got != UserRepository(base) {
		t.Fatal("nil client should return the wrapped repository")
	}
	if got := NewCachedUserRepository(base, unreachableRedis(t), 0, nil); got != UserRepository(base) {
		t.Fatal("zero ttl should return the wrapped repository")
	}
}

func TestCachedUserRepositoryFallsBackWhenRedisDown(t *testing.T) {
	manager := domain.User{Username: "manager", IsAccountManager: true}
	base := &stubUsers{
		users:          map[string]domain.User{"alice": {Username: "alice"}},
		accountManager: &manager,
	}
	repo := NewCachedUserRepository(base, unreachableRedis(t), time.Minute, nil)
	ctx := context.Background()

	user, found, err := repo.GetByUsername(ctx, "alice")
	if err != nil || !found || user.Username != "alice" {
		t.Fatalf("GetByUsername(alice) = %+v, %v, %v", user, found, err)
	}

	_, found, err = repo.GetByUsername(ctx, "bob")
	if err != nil || found {
		t.Fatalf("GetByUsername(bob) found=%v err=%v, expected absent", found, err)
	}

	got, found, err := repo.GetAccountManager(ctx)
	if err != nil || !found || got.Username != "manager" {
		t.Fatalf("GetAccountManager() = %+v, %v, %v", got, found, err)
	}
	if base.calls != 3 {
		t.Fatalf("base calls = %d, expected 3", base.calls)
	}
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestCachedUserRepositoryWithRedis(t *testing.T) {
	manager := domain.User{Username: "manager", IsAccountManager: true}

	tests := []struct {
		name      string
		seed      map[string]string
		manager   *domain.User
		lookup    func(context.Context, UserRepository) (domain.User, bool, error)
		repeat    int
		wantFound bool
		wantName  string
		wantCalls int
		cachedKey string
	}{
		{
			name: "found user served from cache after first lookup",
			lookup: func(ctx context.Context, r UserRepository) (domain.User, bool, error) {
				return r.GetByUsername(ctx, "alice")
			},
			repeat:    3,
			wantFound: true,
			wantName:  "alice",
			wantCalls: 1,
			cachedKey: userKeyPrefix + "alice",
		},
		{
			name: "missing user is never cached",
			lookup: func(ctx context.Context, r UserRepository) (domain.User, bool, error) {
				return r.GetByUsername(ctx, "ghost")
			},
			repeat:    2,
			wantCalls: 2,
		},
		{
			name: "missing account manager is never cached",
			lookup: func(ctx context.Context, r UserRepository) (domain.User, bool, error) {
				return r.GetAccountManager(ctx)
			},
			repeat:    2,
			wantCalls: 2,
		},
		{
			name:    "account manager cached",
			manager: &manager,
			lookup: func(ctx context.Context, r UserRepository) (domain.User, bool, error) {
				return r.GetAccountManager(ctx)
			},
			repeat:    2,
			wantFound: true,
			wantName:  "manager",
			wantCalls: 1,
			cachedKey: accountManagerKey,
		},
		{
			name: "corrupt cached value is reloaded and replaced",
			seed: map[string]string{userKeyPrefix + "alice": "{not json"},
			lookup: func(ctx context.Context, r UserRepository) (domain.User, bool, error) {
				return r.GetByUsername(ctx, "alice")
			},
			repeat:    2,
			wantFound: true,
			wantName:  "alice",
			wantCalls: 1,
			cachedKey: userKeyPrefix + "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := newMiniredisClient(t)
			for k, v := range tt.seed {
				if err := server.Set(k, v); err != nil {
					t.Fatalf("seed %s: %v", k, err)
				}
			}
			base := &stubUsers{
				users:          map[string]domain.User{"alice": {Username: "alice", Email: "alice@example.com"}},
				accountManager: tt.manager,
			}
			repo := NewCachedUserRepository(base, client, time.Minute, nil)
			ctx := context.Background()

			for i := 0; i < tt.repeat; i++ {
				user, found, err := tt.lookup(ctx, repo)
				if err != nil {
					t.Fatalf("lookup %d unexpected error: %v", i, err)
				}
				if found != tt.wantFound || user.Username != tt.wantName {
					t.Fatalf("lookup %d = %+v, %v; expected %q, %v", i, user, found, tt.wantName, tt.wantFound)
				}
			}
			if base.calls != tt.wantCalls {
				t.Fatalf("wrapped repository calls = %d, expected %d", base.calls, tt.wantCalls)
			}

			if tt.cachedKey == "" {
				if keys := server.Keys(); len(keys) != 0 {
					t.Fatalf("cache keys = %v, expected none", keys)
				}
				return
			}
			raw, err := server.Get(tt.cachedKey)
			if err != nil {
				t.Fatalf("cached key %s missing: %v", tt.cachedKey, err)
			}
			if raw == "{not json" {
				t.Fatal("corrupt value was not replaced")
			}
			if ttl := server.TTL(tt.cachedKey); ttl != time.Minute {
				t.Fatalf("ttl = %v, expected %v", ttl, time.Minute)
			}
		})
	}
}
