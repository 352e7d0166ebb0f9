package compose_test

import (
	"fmt"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
)

func ExampleLayoutCount() {
	// Two slots over a pool of three modules: every slot independently
	// takes any module, so 3^2 assignments exist.
	count, _ := compose.LayoutCount(3, 2)
	fmt.Println("Combinations:", count)
	// Output:
	// Combinations: 9
}

func ExampleCount() {
	// Totals are summed across layouts: 2^1 + 2^2.
	sel := compose.Selection{
		Layouts: []compose.Layout{
			{ID: "hero", Slots: []string{"a"}},
			{ID: "grid", Slots: []string{"a", "b"}},
		},
		Pool: []string{"card", "banner"},
	}

	total, _ := compose.Count(sel)
	fmt.Println("Total:", total)
	// Output:
	// Total: 6
}

func ExampleDecodeMapping() {
	// Indexes decode as mixed-radix numbers, least significant digit
	// first: the first slot cycles fastest.
	slots := []string{"a", "b"}
	pool := []string{"x", "y"}

	for i := int64(0); i < 4; i++ {
		m := compose.DecodeMapping(i, slots, pool)
		fmt.Printf("%d: a=%s b=%s\n", i, m["a"], m["b"])
	}
	// Output:
	// 0: a=x b=x
	// 1: a=y b=x
	// 2: a=x b=y
	// 3: a=y b=y
}

func ExampleEnumerate() {
	sel := compose.Selection{
		Layouts: []compose.Layout{{ID: "hero", Slots: []string{"a"}}},
		Pool:    []string{"card", "banner", "quote"},
	}

	combos, _ := compose.Enumerate(sel, 2)
	for _, c := range combos {
		fmt.Printf("%d: %s → %s\n", c.Idx, c.LayoutID, c.Mapping["a"])
	}
	// Output:
	// 0: hero → card
	// 1: hero → banner
}
