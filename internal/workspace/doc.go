// Package workspace reads the monorepo workspace manifest that maps project
// names to their roots, source roots, and per-target options.
package workspace
