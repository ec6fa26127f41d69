// Package input collects decoded terminal events into a per-frame queue
// and resolves configured key bindings against it.
package input
