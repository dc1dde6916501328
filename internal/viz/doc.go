// Package viz draws a running simulation in the terminal.
//
// [Model] is a Bubble Tea model that renders the latest snapshot on a
// braille [Canvas], projected onto the x-z or x-y plane, next to a panel
// of counters and a kinetic energy chart. [Live] wires a model to an
// experiment running in its own goroutine.
//
// # Key Bindings
//
//	Space - Freeze/Resume the display
//	P     - Toggle the projection plane
//	F     - Refit the view to the current particles
//	Q     - Quit (cancels the simulation)
package viz
