// Package recipes loads crafting recipes from item definition files.
package recipes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SlotLabels are the crafting grid cells in evaluation order.
var SlotLabels = [9]string{"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3"}

var (
	ErrMissingInternalName = errors.New("missing internalname")
	ErrBadIngredient       = errors.New("bad ingredient")
)

// Ingredient is one grid cell. The zero value is an empty cell.
type Ingredient struct {
	ItemID   string
	Quantity int
}

func (i Ingredient) Empty() bool {
	return i.ItemID == ""
}

func (i Ingredient) String() string {
	if i.Empty() {
		return ""
	}
	return i.ItemID + ":" + strconv.Itoa(i.Quantity)
}

// ParseIngredient reads a cell in "ITEM_ID:QTY" form. A bare "ITEM_ID" means
// one item, and blank text is an empty cell.
func ParseIngredient(cell string) (Ingredient, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Ingredient{}, nil
	}
	id, qty, hasQty := strings.Cut(cell, ":")
	id = strings.TrimSpace(id)
	if id == "" {
		return Ingredient{}, fmt.Errorf("%w %q: empty item id", ErrBadIngredient, cell)
	}
	if !hasQty {
		return Ingredient{ItemID: id, Quantity: 1}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n < 0 {
		return Ingredient{}, fmt.Errorf("%w %q: quantity must be a non-negative integer", ErrBadIngredient, cell)
	}
	return Ingredient{ItemID: id, Quantity: n}, nil
}

// Recipe is one craftable item. Slots follow SlotLabels order.
type Recipe struct {
	InternalName string
	DisplayName  string
	CraftText    string
	Slots        [9]Ingredient
}

// Ingredients returns the non-empty cells in grid order.
func (r Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(r.Slots))
	for _, s := range r.Slots {
		if !s.Empty() {
			out = append(out, s)
		}
	}
	return out
}

// HasPrerequisite reports whether the craft text names an unlock
// requirement, e.g. "Requires Mining Collection VII".
func (r Recipe) HasPrerequisite() bool {
	return r.CraftText != "" && strings.Contains(r.CraftText, "Requires")
}
