// Package sink provides output formats for page specs.
//
// Two sinks are available: SVG for visual previews and exports, and
// canonical JSON for persistence and API responses. Both render the
// shared element vocabulary: containers, background fills, grid lines,
// dot and stripe patterns, the three text roles, dividers, and slot
// outlines for layout previews.
package sink
