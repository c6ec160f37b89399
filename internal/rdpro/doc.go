// Package rdpro implements the fast directory removal engine.
//
// A run first discovers the tree with fastwalk, then removes the selected files and
// directories in a single loop, deepest directories first. Directories can be handed to
// an external hard-link removal tool before they are deleted. Per-item failures are
// reported through a Reporter and counted in Stats; they never abort the run.
package rdpro
