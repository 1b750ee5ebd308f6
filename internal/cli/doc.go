// Package cli wires together the Cobra command tree for the closurec binary.
//
// It defines the root command and all subcommands (check, optimize, cache,
// config, java, hook, version), binds flags, reads configuration, drives the
// compiler, and returns deterministic exit codes for CI gating.
package cli
