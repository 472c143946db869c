// Package bazaar fetches instant buy/sell prices from the Hypixel SkyBlock
// bazaar.
package bazaar

import (
	"context"
	"errors"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"craftwiz/internal/fetch"
	"craftwiz/internal/logging"
)

const (
	DefaultBaseURL = "https://api.hypixel.net"
	bazaarPath     = "/v2/skyblock/bazaar"
	snapshotKey    = "bazaar"
)

var ErrUnsuccessful = errors.New("bazaar: API success field reported false")

// --- API structs ---

type OrderSummary struct {
	Amount       int     `json:"amount"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Orders       int     `json:"orders"`
}

type QuickStatus struct {
	ProductID      string  `json:"productId"`
	SellPrice      float64 `json:"sellPrice"`
	SellVolume     float64 `json:"sellVolume"`
	SellMovingWeek float64 `json:"sellMovingWeek"`
	SellOrders     float64 `json:"sellOrders"`
	BuyPrice       float64 `json:"buyPrice"`
	BuyVolume      float64 `json:"buyVolume"`
	BuyMovingWeek  float64 `json:"buyMovingWeek"`
	BuyOrders      float64 `json:"buyOrders"`
}

type Product struct {
	ProductID   string         `json:"product_id"`
	SellSummary []OrderSummary `json:"sell_summary"`
	BuySummary  []OrderSummary `json:"buy_summary"`
	QuickStatus QuickStatus    `json:"quick_status"`
}

type Response struct {
	Success     bool               `json:"success"`
	LastUpdated int64              `json:"lastUpdated"`
	Products    map[string]Product `json:"products"`
}

// Quote is the instant price pair for one product. BuyPrice is what it costs
// to buy one unit right now, SellPrice what selling one unit right now pays.
type Quote struct {
	BuyPrice  float64 `json:"buyPrice"`
	SellPrice float64 `json:"sellPrice"`
}

// Snapshot maps product id to quote. Missing products price at zero.
type Snapshot map[string]Quote

func (s Snapshot) BuyPrice(id string) float64 {
	return s[id].BuyPrice
}

func (s Snapshot) SellPrice(id string) float64 {
	return s[id].SellPrice
}

// SnapshotFrom converts an API response, clamping negative or non-finite
// prices to zero.
func SnapshotFrom(resp Response) Snapshot {
	snap := make(Snapshot, len(resp.Products))
	for id, p := range resp.Products {
		if p.ProductID != "" && p.ProductID != id {
			logging.Debugf("bazaar: product id mismatch for key %q: product_id is %q", id, p.ProductID)
		}
		snap[id] = Quote{
			BuyPrice:  sanitize(p.QuickStatus.BuyPrice),
			SellPrice: sanitize(p.QuickStatus.SellPrice),
		}
	}
	return snap
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Client fetches snapshots and keeps the last one for TTL so repeated calls
// within a run share one request.
type Client struct {
	fetch   *fetch.Client
	baseURL string
	mem     *gocache.Cache
}

func NewClient(f *fetch.Client, baseURL string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Client{
		fetch:   f,
		baseURL: baseURL,
		mem:     gocache.New(ttl, 2*ttl),
	}
}

// Quotes returns the current snapshot, from memory when still fresh.
func (c *Client) Quotes(ctx context.Context) (Snapshot, error) {
	if v, ok := c.mem.Get(snapshotKey); ok {
		logging.Debugf("bazaar: using in-memory snapshot")
		return v.(Snapshot), nil
	}
	snap, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Refresh always fetches and replaces the in-memory snapshot.
func (c *Client) Refresh(ctx context.Context) (Snapshot, error) {
	logging.Debugf("Fetching live Hypixel Bazaar data...")
	var resp Response
	if err := c.fetch.GetJSON(ctx, c.baseURL+bazaarPath, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrUnsuccessful
	}
	snap := SnapshotFrom(resp)
	c.mem.SetDefault(snapshotKey, snap)
	logging.Debugf("bazaar: %d products fetched", len(snap))
	return snap, nil
}
