// Package cli constructs the cdksynth command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the synth command.
package cli
