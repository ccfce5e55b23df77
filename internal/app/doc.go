// Package app wires application dependencies for the CLI.
//
// It builds the concrete store and the vault service from Config, exposing
// them via the Wire struct for commands to use. There is no package-level
// instance: each process constructs its own Wire and passes it down.
package app
