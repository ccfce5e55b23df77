// Package prompt isolates the blocking console input used when a secret
// value or the vault passphrase is not supplied programmatically.
//
// The vault only depends on domain.Prompter, so everything above this
// package is testable without a terminal.
package prompt
