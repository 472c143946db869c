// Package craft decides which recipes a player can afford and ranks them by
// bazaar profit.
package craft

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"craftwiz/internal/bazaar"
	"craftwiz/internal/inventory"
	"craftwiz/internal/logging"
	"craftwiz/internal/recipes"
)

// DefaultLimit is how many results Rank keeps.
const DefaultLimit = 5

var hundred = decimal.NewFromInt(100)

// --- Affordability ---

// AdviseFunc receives recipes whose craft text names an unlock requirement.
type AdviseFunc func(r recipes.Recipe)

// CanCraft reports whether inv holds every ingredient of r, checking cells in
// grid order and stopping at the first shortfall. If r names a prerequisite,
// advise is called first; a nil advise logs it instead. The advisory never
// changes the result.
func CanCraft(r recipes.Recipe, inv inventory.Inventory, advise AdviseFunc) bool {
	if r.HasPrerequisite() {
		if advise != nil {
			advise(r)
		} else {
			logging.Info("Recipe has a prerequisite",
				zap.String("recipe", r.DisplayName), zap.String("requires", r.CraftText))
		}
	}
	for _, ing := range r.Slots {
		if ing.Empty() {
			continue
		}
		if inv[ing.ItemID] < ing.Quantity {
			return false
		}
	}
	return true
}

// --- Pricing ---

// Result is one ranked craft.
type Result struct {
	ItemID        string
	Name          string
	Cost          decimal.Decimal
	Revenue       decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
}

// Options tunes Rank. The zero value keeps DefaultLimit results and logs
// advisories.
type Options struct {
	Limit  int
	Advise AdviseFunc
}

// Evaluate prices one recipe. ok is false when the cost basis is zero, since
// no meaningful percentage exists.
func Evaluate(r recipes.Recipe, quotes bazaar.Snapshot) (Result, bool) {
	cost := decimal.Zero
	for _, ing := range r.Slots {
		if ing.Empty() {
			continue
		}
		price := decimal.NewFromFloat(quotes.SellPrice(ing.ItemID))
		cost = cost.Add(price.Mul(decimal.NewFromInt(int64(ing.Quantity))))
	}
	if !cost.IsPositive() {
		return Result{}, false
	}
	revenue := decimal.NewFromFloat(quotes.BuyPrice(r.InternalName))
	profit := revenue.Sub(cost)
	return Result{
		ItemID:        r.InternalName,
		Name:          r.DisplayName,
		Cost:          cost,
		Revenue:       revenue,
		Profit:        profit,
		ProfitPercent: profit.Div(cost).Mul(hundred),
	}, true
}

// --- Ranking ---

// Rank evaluates every affordable recipe in store order and returns the most
// profitable, highest first. Equal profits keep store order.
func Rank(store *recipes.Store, inv inventory.Inventory, quotes bazaar.Snapshot, opts Options) []Result {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var crafts []Result
	affordable := 0
	for _, r := range store.All() {
		if !CanCraft(r, inv, opts.Advise) {
			continue
		}
		affordable++
		res, ok := Evaluate(r, quotes)
		if !ok {
			logging.Debugf("craft: %s has no cost basis, skipping", r.InternalName)
			continue
		}
		crafts = append(crafts, res)
	}

	sort.SliceStable(crafts, func(i, j int) bool {
		return crafts[i].Profit.GreaterThan(crafts[j].Profit)
	})
	logging.Debugf("craft: %d recipes, %d affordable, %d priced, keeping %d",
		store.Len(), affordable, len(crafts), min(limit, len(crafts)))
	if len(crafts) > limit {
		crafts = crafts[:limit]
	}
	return crafts
}
