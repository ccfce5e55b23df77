// Package config loads tokenvault settings from an optional YAML file,
// TOKENVAULT_* environment variables and built-in defaults, and provides
// path helpers.
package config
