// Package layout implements the geometric algorithms of the module and
// layout editors: vertical stack layout with fixed/fit/fill sizing, the
// auto-canvas fitter that centers a module's content on a square virtual
// canvas, and the slot generator that fills a layout canvas with grid or
// flow arrangements of slot placeholders.
//
// Every function in this package is a pure transform: inputs are never
// mutated and rerunning a function on its own output reproduces identical
// geometry. The host application decides when to invoke them; the package
// holds no state between calls.
package layout
