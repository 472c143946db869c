package hypixel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"craftwiz/internal/cache"
	"craftwiz/internal/fetch"
)

var player = uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

const member = "069a79f444e94726a5befca90e38aaf5"

const profilesBody = `{
  "success": true,
  "profiles": [
    {
      "profile_id": "p-apple",
      "cute_name": "Apple",
      "members": {
        "069a79f444e94726a5befca90e38aaf5": {
          "inv_contents": {"type": 0, "data": "H4sIAAAAAAAAAA=="}
        }
      }
    },
    {
      "profile_id": "p-v2",
      "selected": true,
      "members": {
        "069a79f444e94726a5befca90e38aaf5": {
          "inventory": {"inv_contents": {"type": 0, "data": "V2BLOB"}}
        }
      }
    },
    {
      "profile_id": "p-private",
      "cute_name": "Kiwi",
      "members": {"069a79f444e94726a5befca90e38aaf5": {}}
    }
  ]
}`

func newServer(t *testing.T, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.URL.Path != profilesPath || r.URL.Query().Get("uuid") != member {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("API-Key") != "key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetcher() *fetch.Client {
	return fetch.New(fetch.Options{MaxRetries: 1, BackoffBase: time.Millisecond})
}

func TestProfiles_ParsesInOrder(t *testing.T) {
	srv := newServer(t, profilesBody, nil)
	c := NewClient(fetcher(), srv.URL, "key", nil, 0)

	profiles, err := c.Profiles(context.Background(), player)
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("profiles=%d", len(profiles))
	}
	if profiles[0].ID != "p-apple" || profiles[0].CuteName != "Apple" {
		t.Fatalf("first=%+v", profiles[0])
	}
	if profiles[1].CuteName != "Unnamed" || !profiles[1].Selected {
		t.Fatalf("second=%+v", profiles[1])
	}

	if got := profiles[0].InventoryBlob(member); got != "H4sIAAAAAAAAAA==" {
		t.Fatalf("v1 path blob=%q", got)
	}
	if got := profiles[1].InventoryBlob(member); got != "V2BLOB" {
		t.Fatalf("v2 path blob=%q", got)
	}
	if got := profiles[2].InventoryBlob(member); got != "" {
		t.Fatalf("missing inventory blob=%q", got)
	}
	if got := profiles[0].InventoryBlob("someone-else"); got != "" {
		t.Fatalf("other member blob=%q", got)
	}
}

func TestProfiles_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
		want func(error) bool
	}{
		{"unsuccessful", `{"success": false, "cause": "nope"}`, "key", func(err error) bool { return errors.Is(err, ErrUnsuccessful) }},
		{"no profiles", `{"success": true, "profiles": null}`, "key", func(err error) bool { return errors.Is(err, ErrNoProfiles) }},
		{"profiles missing", `{"success": true}`, "key", func(err error) bool { return errors.Is(err, ErrNoProfiles) }},
		{"only junk entries", `{"success": true, "profiles": [null, 3, {"cute_name": "NoID"}]}`, "key", func(err error) bool { return errors.Is(err, ErrNoProfiles) }},
		{"bad key", profilesBody, "wrong", func(err error) bool { return fetch.IsStatus(err, http.StatusForbidden) }},
		{"garbage", `<html>`, "key", func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.body, nil)
			c := NewClient(fetcher(), srv.URL, tt.key, nil, 0)
			if _, err := c.Profiles(context.Background(), player); !tt.want(err) {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestProfiles_CachedWhileFresh(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, profilesBody, &calls)
	store := cache.NewTiered(nil, time.Hour)
	c := NewClient(fetcher(), srv.URL, "key", store, 10*time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Profiles(context.Background(), player); err != nil {
			t.Fatalf("profiles: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls=%d want 1", calls.Load())
	}

	c.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	if _, err := c.Profiles(context.Background(), player); err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("stale entry should refetch, calls=%d", calls.Load())
	}
}

func TestProfiles_FailuresNotCached(t *testing.T) {
	srv := newServer(t, `{"success": false}`, nil)
	store := cache.NewTiered(nil, time.Hour)
	c := NewClient(fetcher(), srv.URL, "key", store, time.Hour)

	c.Profiles(context.Background(), player)
	if _, err := store.Get(context.Background(), member); !cache.IsMiss(err) {
		t.Fatalf("failed response was cached: %v", err)
	}
}

func TestGjsonEscape(t *testing.T) {
	p := Profile{Raw: `{"members":{"a.b":{"inv_contents":{"data":"X"}}}}`}
	if got := p.InventoryBlob("a.b"); got != "X" {
		t.Fatalf("blob=%q", got)
	}
}

func TestParseProfiles_NullAndJunk(t *testing.T) {
	profiles, err := ParseProfiles([]byte(`{"success": true, "profiles": null}`))
	if err != nil || len(profiles) != 0 {
		t.Fatalf("null profiles: %+v err=%v", profiles, err)
	}

	profiles, err = ParseProfiles([]byte(`{"success": true, "profiles": [
		"oops",
		{"cute_name": "Orphan"},
		{"profile_id": "p-real", "cute_name": "Lime"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 || profiles[0].ID != "p-real" || profiles[0].CuteName != "Lime" {
		t.Fatalf("profiles=%+v", profiles)
	}
}
