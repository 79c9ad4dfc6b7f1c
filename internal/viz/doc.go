// Package viz renders solver results in the terminal.
//
//   - [RenderResult]: styled summary of a finished solve
//   - [PlotSpectra] and [PlotResiduals]: asciigraph charts
//   - [LiveModel]: Bubble Tea program that steps a solve one iteration
//     per tick
//
// # Key Bindings
//
//	Space - Pause/Resume iteration
//	N     - Single step while paused
//	R     - Restart from the initial guess
//	T     - Cycle color themes
//	Q     - Quit
package viz
