// Package synthesize implements the cdk synthesize executor.
//
// RenderCommand turns Options into a single shell command line, Executor runs
// that line in the project root through execshell, and CommandBuilder exposes
// the executor as the `synth` Cobra command.
package synthesize
