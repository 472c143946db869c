// Package hypixel reads SkyBlock profiles for a player.
package hypixel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"craftwiz/internal/cache"
	"craftwiz/internal/fetch"
	"craftwiz/internal/logging"
	"craftwiz/internal/mojang"
)

const (
	DefaultBaseURL = "https://api.hypixel.net"
	profilesPath   = "/v2/skyblock/profiles"
	unnamed        = "Unnamed"
)

var (
	ErrUnsuccessful = errors.New("hypixel: API success field reported false")
	ErrNoProfiles   = errors.New("hypixel: player has no SkyBlock profiles")
)

// Profile is one SkyBlock profile. Raw is the profile's JSON object as
// returned by the API.
type Profile struct {
	ID       string
	CuteName string
	Selected bool
	Raw      string
}

// inventoryPaths are tried in order; the v2 API nests inv_contents under
// "inventory".
var inventoryPaths = []string{
	"members.%s.inventory.inv_contents.data",
	"members.%s.inv_contents.data",
}

// InventoryBlob returns the encoded main inventory for member (an undashed
// uuid), or "" when the profile has none, typically because the player has
// the inventory API disabled.
func (p Profile) InventoryBlob(member string) string {
	member = gjsonEscape(member)
	for _, path := range inventoryPaths {
		if v := gjson.Get(p.Raw, fmt.Sprintf(path, member)); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

func gjsonEscape(s string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(s)
}

// ParseProfiles reads a profiles response body.
func ParseProfiles(body []byte) ([]Profile, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("hypixel: invalid JSON in profiles response")
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return nil, ErrUnsuccessful
	}
	list := gjson.GetBytes(body, "profiles")
	if !list.IsArray() {
		// players who never joined SkyBlock get "profiles": null
		return nil, nil
	}
	var profiles []Profile
	list.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() || v.Get("profile_id").String() == "" {
			logging.Debugf("hypixel: skipping profile entry without profile_id: %.80s", v.Raw)
			return true
		}
		name := v.Get("cute_name").String()
		if name == "" {
			name = unnamed
		}
		profiles = append(profiles, Profile{
			ID:       v.Get("profile_id").String(),
			CuteName: name,
			Selected: v.Get("selected").Bool(),
			Raw:      v.Raw,
		})
		return true
	})
	return profiles, nil
}

type Client struct {
	fetch   *fetch.Client
	baseURL string
	apiKey  string
	store   cache.Store
	maxAge  time.Duration
	now     func() time.Time
}

// NewClient builds a profiles client. store may be nil to disable caching.
func NewClient(f *fetch.Client, baseURL, apiKey string, store cache.Store, maxAge time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetch:   f,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		store:   store,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// cacheKey is the undashed uuid, so the file backend writes <uuid>.json.
func cacheKey(player uuid.UUID) string {
	return mojang.Undashed(player)
}

// Profiles returns the player's profiles in API order, from the cache while
// it is fresh. Failed fetches are not cached.
func (c *Client) Profiles(ctx context.Context, player uuid.UUID) ([]Profile, error) {
	key := cacheKey(player)
	if c.store != nil {
		e, err := c.store.Get(ctx, key)
		switch {
		case err == nil && cache.Fresh(e, c.maxAge, c.now()):
			logging.Info("Using cached player data", zap.String("uuid", mojang.Undashed(player)))
			if profiles, perr := ParseProfiles(e.Data); perr == nil {
				return nonEmpty(profiles)
			}
			logging.Warn("discarding unreadable cached profiles", zap.String("key", key))
		case err != nil && !cache.IsMiss(err):
			logging.Warn("player cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	body, err := c.fetchProfiles(ctx, player)
	if err != nil {
		return nil, err
	}
	profiles, err := ParseProfiles(body)
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		if err := c.store.Set(ctx, key, body); err != nil {
			logging.Warn("player cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nonEmpty(profiles)
}

func (c *Client) fetchProfiles(ctx context.Context, player uuid.UUID) ([]byte, error) {
	q := url.Values{"uuid": {mojang.Undashed(player)}}
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("API-Key", c.apiKey)
	}
	return c.fetch.Get(ctx, c.baseURL+profilesPath+"?"+q.Encode(), header)
}

func nonEmpty(profiles []Profile) ([]Profile, error) {
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}
	return profiles, nil
}
