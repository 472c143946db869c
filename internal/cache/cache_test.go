package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"craftwiz/internal/config"
)

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Fatalf("absent key: err=%v want ErrMiss", err)
	}

	before := time.Now().Add(-time.Second)
	if err := s.Set(ctx, "player:abc", []byte(`{"profiles":[1,2]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	e, err := s.Get(ctx, "player:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(e.Data) != `{"profiles":[1,2]}` {
		t.Fatalf("data=%s", e.Data)
	}
	if e.StoredAt.Before(before) || e.StoredAt.After(time.Now().Add(time.Second)) {
		t.Fatalf("stored_at=%s out of range", e.StoredAt)
	}

	if err := s.Set(ctx, "player:abc", []byte(`{"profiles":[]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	e, _ = s.Get(ctx, "player:abc")
	if string(e.Data) != `{"profiles":[]}` {
		t.Fatalf("overwrite data=%s", e.Data)
	}
}

func TestFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := Entry{StoredAt: now.Add(-5 * time.Minute)}
	if !Fresh(e, 10*time.Minute, now) {
		t.Fatalf("5m old entry should be fresh for 10m")
	}
	if Fresh(e, 5*time.Minute, now) {
		t.Fatalf("boundary is exclusive")
	}
	if Fresh(e, 0, now) || Fresh(Entry{}, time.Hour, now) {
		t.Fatalf("zero duration or zero timestamp is never fresh")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "player_data"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestFileStore_LayoutAndNonJSON(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := s.Set(ctx, "0123abcd", []byte("not json")); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "0123abcd.json"))
	if err != nil {
		t.Fatalf("expected one file per key: %v", err)
	}
	if !strings.Contains(string(raw), `"timestamp"`) || !strings.Contains(string(raw), `"data":"not json","text":true`) {
		t.Fatalf("file=%s", raw)
	}
	e, err := s.Get(ctx, "0123abcd")
	if err != nil || string(e.Data) != "not json" {
		t.Fatalf("e=%q err=%v", e.Data, err)
	}

	if err := s.Set(ctx, "../escape", []byte(`1`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatalf("key escaped the cache dir")
	}
}

func TestFileStore_ReadsHandWrittenDocument(t *testing.T) {
	dir := t.TempDir()
	doc := `{"timestamp": 1700000000.5, "data": {"success": true, "profiles": []}}`
	os.WriteFile(filepath.Join(dir, "hand.json"), []byte(doc), 0o644)

	s, _ := NewFileStore(dir)
	e, err := s.Get(context.Background(), "hand")
	if err != nil {
		t.Fatal(err)
	}
	if e.StoredAt.Unix() != 1700000000 || string(e.Data) != `{"success": true, "profiles": []}` {
		t.Fatalf("e=%+v data=%s", e.StoredAt, e.Data)
	}
}

func TestFileStore_RoundTripsExactBytes(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()
	payloads := []string{
		`"v"`,
		`"quoted \"inner\""`,
		`  {"a": 1}  `,
		"not json",
		`"unterminated`,
		`{"name":"<b>&co</b>"}`,
		"",
	}
	for i, p := range payloads {
		key := fmt.Sprintf("k%d", i)
		if err := s.Set(ctx, key, []byte(p)); err != nil {
			t.Fatalf("set %q: %v", p, err)
		}
		e, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %q: %v", p, err)
		}
		if string(e.Data) != p {
			t.Fatalf("round trip %q came back %q", p, e.Data)
		}
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	ctx := context.Background()
	client.Del(ctx, redisKeyPrefix+"player:abc", redisKeyPrefix+"absent")

	s := NewRedisStore(client, time.Minute)
	defer s.Close()
	exerciseStore(t, s)

	ttl, err := client.TTL(ctx, redisKeyPrefix+"player:abc").Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("ttl=%s err=%v", ttl, err)
	}
}

type countingStore struct {
	Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, key string) (Entry, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func TestTiered_PromotesAndShortCircuits(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())
	back := &countingStore{Store: fs}
	ctx := context.Background()
	back.Set(ctx, "k", []byte(`"v"`))

	tier := NewTiered(back, time.Minute)
	for i := 0; i < 3; i++ {
		e, err := tier.Get(ctx, "k")
		if err != nil || string(e.Data) != `"v"` {
			t.Fatalf("get: %q %v", e.Data, err)
		}
	}
	if back.gets != 1 {
		t.Fatalf("backing gets=%d want 1", back.gets)
	}

	if _, err := tier.Get(ctx, "nope"); !IsMiss(err) {
		t.Fatalf("err=%v want miss", err)
	}
}

func TestTiered_MemoryOnly(t *testing.T) {
	tier := NewTiered(nil, time.Minute)
	defer tier.Close()
	exerciseStore(t, tier)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		cfg := config.Default()
		cfg.Cache.Backend = backend
		cfg.PlayerDataDir = filepath.Join(dir, backend)
		cfg.Cache.SQLitePath = filepath.Join(dir, backend, "cache.db")

		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		exerciseStore(t, s)
		s.Close()
	}

	cfg := config.Default()
	cfg.Cache.Backend = "etcd"
	if _, err := Open(ctx, cfg); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
