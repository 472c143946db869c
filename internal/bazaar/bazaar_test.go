package bazaar

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"craftwiz/internal/fetch"
)

const sampleResponse = `{
  "success": true,
  "lastUpdated": 1700000000000,
  "products": {
    "ENCHANTED_DIAMOND": {
      "product_id": "ENCHANTED_DIAMOND",
      "sell_summary": [{"amount": 10, "pricePerUnit": 1200.5, "orders": 1}],
      "buy_summary": [],
      "quick_status": {"productId": "ENCHANTED_DIAMOND", "sellPrice": 1190.1, "buyPrice": 1250.7, "sellMovingWeek": 1000, "buyMovingWeek": 900}
    },
    "DIAMOND": {
      "product_id": "DIAMOND",
      "quick_status": {"sellPrice": 7.5, "buyPrice": 8.1}
    }
  }
}`

func newServer(t *testing.T, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/skyblock/bazaar" {
			http.NotFound(w, r)
			return
		}
		if calls != nil {
			calls.Add(1)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQuotes_ParsesQuickStatus(t *testing.T) {
	srv := newServer(t, sampleResponse, nil)
	c := NewClient(fetch.New(fetch.Options{MaxRetries: 1}), srv.URL, time.Minute)

	snap, err := c.Quotes(context.Background())
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("products=%d want 2", len(snap))
	}
	if got := snap.BuyPrice("ENCHANTED_DIAMOND"); got != 1250.7 {
		t.Fatalf("buy=%v", got)
	}
	if got := snap.SellPrice("DIAMOND"); got != 7.5 {
		t.Fatalf("sell=%v", got)
	}
	if snap.BuyPrice("NOT_ON_BAZAAR") != 0 || snap.SellPrice("NOT_ON_BAZAAR") != 0 {
		t.Fatalf("missing products must price at zero")
	}
}

func TestQuotes_CachedInMemory(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, sampleResponse, &calls)
	c := NewClient(fetch.New(fetch.Options{MaxRetries: 1}), srv.URL, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Quotes(context.Background()); err != nil {
			t.Fatalf("quotes: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls=%d want 1", calls.Load())
	}
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("refresh should refetch, calls=%d", calls.Load())
	}
}

func TestQuotes_Unsuccessful(t *testing.T) {
	srv := newServer(t, `{"success": false}`, nil)
	c := NewClient(fetch.New(fetch.Options{MaxRetries: 1}), srv.URL, time.Minute)
	if _, err := c.Quotes(context.Background()); !errors.Is(err, ErrUnsuccessful) {
		t.Fatalf("err=%v want ErrUnsuccessful", err)
	}
}

func TestSnapshotFrom_Sanitizes(t *testing.T) {
	snap := SnapshotFrom(Response{Products: map[string]Product{
		"A": {QuickStatus: QuickStatus{BuyPrice: -1, SellPrice: math.Inf(1)}},
		"B": {QuickStatus: QuickStatus{BuyPrice: math.NaN(), SellPrice: 3}},
	}})
	if snap["A"] != (Quote{}) {
		t.Fatalf("A=%+v", snap["A"])
	}
	if snap["B"] != (Quote{SellPrice: 3}) {
		t.Fatalf("B=%+v", snap["B"])
	}
}
