// Package viz renders stored trajectories in the terminal.
//
// [Viewer] is a Bubble Tea model for browsing one run: it plots a state
// component against time with asciigraph, or a phase projection on a
// Braille [Canvas], and can replay the trajectory sample by sample.
//
// # Key Bindings
//
//	←/→ h/l  - Step one sample
//	Home/End - Jump to the first/last sample
//	Tab      - Next component
//	P        - Toggle phase view
//	Space    - Play/Pause replay
//	T        - Cycle color themes
//	?        - Show help overlay
//	Q        - Quit
package viz
