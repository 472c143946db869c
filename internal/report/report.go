// Package report renders ranked crafts and inventories for the terminal or
// as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"craftwiz/internal/craft"
	"craftwiz/internal/inventory"
)

// Text writes the ranking in the classic one-line-per-craft format.
func Text(w io.Writer, top int, results []craft.Result) error {
	if _, err := fmt.Fprintf(w, "\nTop %d Most Profitable Crafts:\n", top); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No affordable crafts with known prices.")
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "🔹 %s ➜ Profit: %s coins (%s%%)\n",
			r.Name, money(r.Profit), money(r.ProfitPercent)); err != nil {
			return err
		}
	}
	return nil
}

type jsonResult struct {
	ItemID        string      `json:"item_id"`
	Name          string      `json:"name"`
	Cost          json.Number `json:"cost"`
	Revenue       json.Number `json:"revenue"`
	Profit        json.Number `json:"profit"`
	ProfitPercent json.Number `json:"profit_percent"`
}

// JSON writes the ranking as an indented array. Amounts keep two decimal
// places.
func JSON(w io.Writer, results []craft.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		out = append(out, jsonResult{
			ItemID:        r.ItemID,
			Name:          r.Name,
			Cost:          json.Number(money(r.Cost)),
			Revenue:       json.Number(money(r.Revenue)),
			Profit:        json.Number(money(r.Profit)),
			ProfitPercent: json.Number(money(r.ProfitPercent)),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// Inventory writes one "<count>x <name>" line per entry, sorted by name.
func Inventory(w io.Writer, inv inventory.Inventory) error {
	if len(inv) == 0 {
		_, err := fmt.Fprintln(w, "Inventory is empty or unavailable.")
		return err
	}
	for _, name := range inv.Names() {
		if _, err := fmt.Fprintf(w, "%6dx %s\n", inv[name], name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d distinct items, %d total\n", len(inv), inv.Total())
	return err
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
