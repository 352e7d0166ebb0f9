// Package compose turns a selection of layouts and a module pool into
// concrete assembled pages.
//
// The package has two halves. The enumerator counts and enumerates every
// (layout, slot→module) assignment: a layout with s slots over a pool of
// n modules yields n^s combinations, decoded from a combination index as
// a mixed-radix base-n number whose least significant digit is the
// layout's first slot. Counting is overflow-safe against the safe-integer
// ceiling so counts survive JSON round-trips.
//
// The compositor maps a module's elements, uniformly scaled from their
// content bounds and centered, into a destination slot rectangle. Empty
// modules are replaced by a synthesized header/divider/body placeholder
// so every slot always renders something.
//
// Both halves are deterministic pure functions: the same inputs (pool
// order, slot order, text overrides) always produce the same pages.
package compose
