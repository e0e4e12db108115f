// Package config loads and validates runtime configuration for the maze-wars
// client.
//
// Configuration is read from `config/config.yaml` and can be overridden via
// `MW_`-prefixed environment variables (see `internal/config/config.go` for keys).
package config
