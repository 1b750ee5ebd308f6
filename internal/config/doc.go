// Package config loads and merges closurec configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CLOSUREC_JAVA_HOME, CLOSUREC_JAR, CLOSUREC_TIMEOUT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/closurec/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file,
// and [SetField] to update a single key.
package config
