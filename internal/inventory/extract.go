package inventory

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"craftwiz/internal/logging"
	"craftwiz/internal/nbt"
)

// Inventory maps an item key to the total number held. Absent keys are zero.
type Inventory map[string]int

// Count returns the held amount of key, 0 if absent.
func (inv Inventory) Count(key string) int {
	return inv[key]
}

// Total sums every count.
func (inv Inventory) Total() int {
	total := 0
	for _, n := range inv {
		total = addCounts(total, n)
	}
	return total
}

// Names returns the keys sorted for stable display.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for n := range inv {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Key selects which slot field becomes the inventory key.
type Key int

const (
	// KeyDisplayName keys by tag.display.Name, exactly as shown in game.
	KeyDisplayName Key = iota
	// KeyItemID keys by tag.ExtraAttributes.id, the SkyBlock internal id
	// that recipes and bazaar products use.
	KeyItemID
)

// ExtractOptions tunes Extract. The zero value keys by display name and
// keeps formatting codes.
type ExtractOptions struct {
	Key Key
	// StripFormatting removes "§x" colour/style codes from display names.
	StripFormatting bool
}

// Extract walks the slot list "i" and folds stack counts by display name.
func Extract(root nbt.Compound) Inventory {
	return ExtractWith(root, ExtractOptions{})
}

// ExtractWith is Extract with options. Slots missing the expected nested
// fields are skipped; a malformed slot never stops the walk.
func ExtractWith(root nbt.Compound, opts ExtractOptions) Inventory {
	inv := Inventory{}
	t, ok := root.Get("i")
	if !ok {
		return inv
	}
	items, ok := t.(nbt.List)
	if !ok {
		logging.Warn("Error parsing inventory: slot field is not a list",
			zap.Stringer("kind", t.Kind()))
		return inv
	}

	skipped := 0
	for idx, item := range items.Items {
		slot, ok := item.(nbt.Compound)
		if !ok {
			skipped++
			logging.Debugf("inventory slot %d: not a compound (%T)", idx, item)
			continue
		}
		key, ok := slotKey(slot, opts)
		if !ok {
			skipped++
			continue
		}
		count, ok := slotCount(slot)
		if !ok {
			skipped++
			logging.Debugf("inventory slot %d (%s): unusable Count", idx, key)
			continue
		}
		inv[key] = addCounts(inv[key], count)
	}
	logging.Debugf("inventory: %d slots, %d names, %d skipped", len(items.Items), len(inv), skipped)
	return inv
}

func slotKey(slot nbt.Compound, opts ExtractOptions) (string, bool) {
	if opts.Key == KeyItemID {
		attrs, ok := slot.Path("tag", "ExtraAttributes")
		if !ok {
			return "", false
		}
		id, ok := attrs.String("id")
		return id, ok && id != ""
	}
	display, ok := slot.Path("tag", "display")
	if !ok {
		return "", false
	}
	name, ok := display.String("Name")
	if !ok {
		return "", false
	}
	if opts.StripFormatting {
		name = StripFormatting(name)
	}
	return name, true
}

// slotCount reads Count, defaulting to 1 when absent. Present but
// non-numeric, negative or above MaxInt32 counts make the slot unusable.
func slotCount(slot nbt.Compound) (int, bool) {
	t, ok := slot.Get("Count")
	if !ok {
		return 1, true
	}
	n, ok := nbt.AsInt(t)
	if !ok || n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// addCounts adds two non-negative counts, saturating at math.MaxInt.
func addCounts(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// StripFormatting removes Minecraft "§" formatting codes.
func StripFormatting(s string) string {
	if !strings.ContainsRune(s, '§') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	skip := false
	for _, r := range s {
		switch {
		case skip:
			skip = false
		case r == '§':
			skip = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
