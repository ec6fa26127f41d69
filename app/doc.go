// Package app runs a terminal application: an input task decoding terminal bytes into events,
// and a frame task that drains them into a queue, calls the user callback, updates and composes
// the widget scene and commits the result through the renderer.
//
// The terminal is always restored when Run returns, including when the callback fails or panics.
package app
