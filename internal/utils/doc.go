// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader, LoggerFactory, EnvironmentFileLoader, and
// CommandContextAccessor, which integrate Viper, zap, godotenv, and per-run
// identifiers for the cdksynth commands.
package utils
