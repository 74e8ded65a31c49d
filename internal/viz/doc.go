// Package viz draws simulation frames in the terminal.
//
// Frames are rendered onto a braille [Canvas], two by four dots per cell,
// through a [Projection] from world units. [Model] is a Bubble Tea program
// that steps a simulation at 60 frames per second and forwards the mouse to
// the simulation's pointer; [App] wraps it with a scene picker.
//
// # Key Bindings
//
//	Space - pause or resume
//	.     - single step while paused
//	R     - rebuild the scene
//	T     - cycle colour themes
//	G     - toggle GIF recording
//	?     - help overlay
//
// GIF recordings are written to forcesim.gif in the working directory.
package viz
