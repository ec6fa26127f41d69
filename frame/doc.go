// Package frame provides the cell grid that widgets draw into and the diff that
// reduces two grids to the runs of cells that changed.
//
// Coordinates passed to drawing methods are frame-local (0,0 is the top-left cell).
// The frame's Rect records where it sits on screen; Diff reports runs in those
// screen coordinates.
package frame
