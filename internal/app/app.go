// Package app runs the craftwiz pipeline: resolve the player, pick a
// profile, decode its inventory, and rank affordable crafts against live
// bazaar prices.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"craftwiz/internal/bazaar"
	"craftwiz/internal/cache"
	"craftwiz/internal/config"
	"craftwiz/internal/craft"
	"craftwiz/internal/fetch"
	"craftwiz/internal/hypixel"
	"craftwiz/internal/inventory"
	"craftwiz/internal/logging"
	"craftwiz/internal/mojang"
	"craftwiz/internal/recipes"
	"craftwiz/internal/selector"
)

// App holds the clients for one run.
type App struct {
	cfg     *config.Config
	cache   cache.Store
	mojang  *mojang.Client
	hypixel *hypixel.Client
	bazaar  *bazaar.Client

	// In and Out carry the interactive profile prompt and advisories.
	In  io.Reader
	Out io.Writer
}

func New(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	store, err := cache.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	f := fetch.New(fetch.Options{
		Timeout:     cfg.HTTP.Timeout,
		MaxRetries:  cfg.HTTP.MaxRetries,
		BackoffBase: cfg.HTTP.BackoffBase,
	})
	return &App{
		cfg:     cfg,
		cache:   store,
		mojang:  mojang.NewClient(f, cfg.API.MojangBaseURL),
		hypixel: hypixel.NewClient(f, cfg.API.HypixelBaseURL, cfg.APIKey, store, cfg.PlayerCacheDuration),
		bazaar:  bazaar.NewClient(f, cfg.API.HypixelBaseURL, cfg.Cache.MemoryTTL),
		In:      in,
		Out:     out,
	}, nil
}

func (a *App) Close() error {
	return a.cache.Close()
}

// Target names whose inventory to read. An empty Profile prompts when there
// is more than one profile and Interactive is set, otherwise it takes the
// player's selected profile.
type Target struct {
	Username    string
	Profile     string
	Interactive bool
}

// Profile resolves the target to a member key and one profile.
func (a *App) Profile(ctx context.Context, t Target) (string, hypixel.Profile, error) {
	id, err := a.mojang.UUID(ctx, t.Username)
	if err != nil {
		return "", hypixel.Profile{}, err
	}
	profiles, err := a.hypixel.Profiles(ctx, id)
	if err != nil {
		return "", hypixel.Profile{}, err
	}

	var p hypixel.Profile
	if t.Profile == "" && t.Interactive && len(profiles) > 1 {
		p, err = selector.Prompt(a.In, a.Out, profiles)
	} else {
		p, err = selector.ByName(profiles, t.Profile)
	}
	if err != nil {
		return "", hypixel.Profile{}, err
	}
	logging.Debug("profile selected", zap.String("profile", p.CuteName), zap.String("id", p.ID))
	return mojang.Undashed(id), p, nil
}

// Inventory decodes the target's main inventory. A profile without inventory
// data yields an empty inventory.
func (a *App) Inventory(ctx context.Context, t Target, opts inventory.ExtractOptions) (inventory.Inventory, error) {
	member, p, err := a.Profile(ctx, t)
	if err != nil {
		return nil, err
	}
	blob := p.InventoryBlob(member)
	if blob == "" {
		logging.Warn("profile has no inventory data; is the inventory API enabled?",
			zap.String("profile", p.CuteName))
	}
	return inventory.ExtractWith(inventory.DecodeBlob(blob), opts), nil
}

// Recipes loads the configured items folder.
func (a *App) Recipes() (*recipes.Store, recipes.LoadReport) {
	return recipes.LoadDir(a.cfg.ItemsFolder)
}

// Rank runs the full pipeline. A bazaar failure is logged and ranks against
// an empty snapshot, which produces no results.
func (a *App) Rank(ctx context.Context, t Target, top int, extract inventory.ExtractOptions) ([]craft.Result, error) {
	inv, err := a.Inventory(ctx, t, extract)
	if err != nil {
		return nil, err
	}
	store, _ := a.Recipes()

	quotes, err := a.bazaar.Quotes(ctx)
	if err != nil {
		logging.Warn("bazaar unavailable, no prices", zap.Error(err))
		quotes = bazaar.Snapshot{}
	}

	return craft.Rank(store, inv, quotes, craft.Options{
		Limit:  top,
		Advise: a.advise,
	}), nil
}

func (a *App) advise(r recipes.Recipe) {
	if a.Out == nil {
		return
	}
	fmt.Fprintf(a.Out, "⚠ %s requires %s.\n", r.DisplayName, r.CraftText)
}
