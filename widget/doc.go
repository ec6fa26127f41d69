// Package widget composes application widgets into a screen frame.
//
// Each widget owns one Window identified by id. A Scene holds the widgets,
// drives their per-frame update and render, and paints their windows into the
// screen frame, reporting which screen regions changed.
package widget
