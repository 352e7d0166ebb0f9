package compose

import (
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// MaxSafeCount is the safe-integer ceiling (2^53 − 1) for combination
// counts. Counts are capped here, not at the int64 limit, so they survive
// JSON round-trips through consumers that store numbers as float64.
const MaxSafeCount = int64(1)<<53 - 1

// DefaultCap is the default generation window: how many combinations a
// single run materializes. It bounds rendering cost only; counting is
// never capped.
const DefaultCap = 40

// Layout is one selected layout, reduced to what enumeration needs: a
// stable identity and its slot keys in first-seen order.
type Layout struct {
	ID    string   `json:"layoutId"`
	Name  string   `json:"layoutName,omitempty"`
	Slots []string `json:"slots"`
}

// Selection is the input to counting and enumeration: the selected
// layouts in order and the candidate module pool in caller order.
type Selection struct {
	Layouts []Layout `json:"layouts"`
	Pool    []string `json:"pool"`
}

// Mapping assigns one pool module to every slot key of a layout.
type Mapping map[string]string

// Combination is one enumerated (layout, mapping) pair. Idx is stable
// within a generation run; regenerating from the same inputs re-derives
// the same combinations in the same order.
type Combination struct {
	Idx        int       `json:"idx"`
	LayoutID   string    `json:"layoutId"`
	LayoutName string    `json:"layoutName,omitempty"`
	Mapping    Mapping   `json:"mapping"`
	Assembled  spec.Spec `json:"assembledSpec"`
}

// Resolver looks up a layout spec by id.
type Resolver func(id string) (spec.Spec, bool)

// BuildSelection resolves the selected layout ids into a Selection,
// deduplicating the module pool (first occurrence wins, order preserved).
// Validation failures come back as structured errors in check order: no
// layouts selected, unresolved layout, layout with zero slots, empty pool.
func BuildSelection(layoutIDs []string, resolve Resolver, pool []string) (Selection, error) {
	if len(layoutIDs) == 0 {
		return Selection{}, errors.New(errors.ErrCodeNoLayouts, "no layout selected")
	}

	var sel Selection
	for _, id := range layoutIDs {
		s, ok := resolve(id)
		if !ok {
			return Selection{}, errors.New(errors.ErrCodeLayoutNotFound, "layout %q could not be resolved", id)
		}
		slots := s.SlotKeys()
		if len(slots) == 0 {
			return Selection{}, errors.New(errors.ErrCodeNoSlots, "layout %q has no slots", id)
		}
		sel.Layouts = append(sel.Layouts, Layout{ID: id, Slots: slots})
	}

	seen := map[string]bool{}
	for _, id := range pool {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		sel.Pool = append(sel.Pool, id)
	}
	if len(sel.Pool) == 0 {
		return Selection{}, errors.New(errors.ErrCodeEmptyPool, "module pool is empty")
	}
	return sel, nil
}

// LayoutCount returns n^s, the number of distinct slot→module assignments
// for a single layout: every slot is independently assigned any pool
// module, repetition allowed. For s == 0 the count is exactly 1 (the
// empty mapping). The overflow check runs after every multiplication so
// the product never silently wraps.
func LayoutCount(n, s int) (int64, error) {
	if n < 1 {
		return 0, errors.New(errors.ErrCodeEmptyPool, "module pool is empty")
	}
	count := int64(1)
	for i := 0; i < s; i++ {
		if count > MaxSafeCount/int64(n) {
			return 0, errors.New(errors.ErrCodeOverflow, "combination count overflow")
		}
		count *= int64(n)
	}
	return count, nil
}

// Count returns the total combination count across the selection's
// layouts: Σ n^(s_i). The running total is checked against the ceiling
// after every accumulation, so overflow is caught before it corrupts the
// count. On any error the count is zero.
func Count(sel Selection) (int64, error) {
	if len(sel.Layouts) == 0 {
		return 0, errors.New(errors.ErrCodeNoLayouts, "no layout selected")
	}
	if len(sel.Pool) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyPool, "module pool is empty")
	}

	total := int64(0)
	for _, l := range sel.Layouts {
		if len(l.Slots) == 0 {
			return 0, errors.New(errors.ErrCodeNoSlots, "layout %q has no slots", l.ID)
		}
		c, err := LayoutCount(len(sel.Pool), len(l.Slots))
		if err != nil {
			return 0, err
		}
		if total > MaxSafeCount-c {
			return 0, errors.New(errors.ErrCodeOverflow, "combination count overflow")
		}
		total += c
	}
	return total, nil
}

// DecodeMapping decodes combination index idx as a mixed-radix base-n
// number with one digit per slot, least significant digit first. The
// decoding is a bijection over [0, n^s): fixed (pool order, slot order)
// inputs make index i always yield the same mapping, which is what makes
// previews reproducible.
func DecodeMapping(idx int64, slots []string, pool []string) Mapping {
	n := int64(len(pool))
	m := make(Mapping, len(slots))
	for _, slot := range slots {
		m[slot] = pool[idx%n]
		idx /= n
	}
	return m
}

// Enumerate produces up to cap combinations across the selection's
// layouts in order, without composing pages (Assembled is left zero).
// A cap below 1 falls back to DefaultCap. The cap is a generation-time
// window, deliberately independent from the count reported by Count.
func Enumerate(sel Selection, cap int) ([]Combination, error) {
	if cap < 1 {
		cap = DefaultCap
	}
	if _, err := Count(sel); err != nil {
		return nil, err
	}

	combos := make([]Combination, 0, cap)
	for _, l := range sel.Layouts {
		if len(combos) == cap {
			break
		}
		layoutTotal, err := LayoutCount(len(sel.Pool), len(l.Slots))
		if err != nil {
			return nil, err
		}
		remaining := int64(cap - len(combos))
		for i := int64(0); i < min(remaining, layoutTotal); i++ {
			combos = append(combos, Combination{
				Idx:        len(combos),
				LayoutID:   l.ID,
				LayoutName: l.Name,
				Mapping:    DecodeMapping(i, l.Slots, sel.Pool),
			})
		}
	}
	return combos, nil
}
