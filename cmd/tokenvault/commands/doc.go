// Package commands defines the tokenvault CLI and wires dependencies for subcommands.
//
// Commands
//
//   - add <name>      Encrypt and store a new secret
//   - get <name>      Decrypt a secret and print it
//   - list            List stored names (-l for metadata)
//   - update <name>   Replace an existing secret's value
//   - remove <name>   Delete a secret
//   - exists <name>   Print true/false; exit 1 when absent
//   - ensure <name>   Add-or-get, the startup lookup used by integrations
//   - rekey           Re-encrypt everything under a new passphrase
//
// # Implementation
//
// The root command loads settings, resolves the passphrase (from the
// environment variable named by passphrase.env, else the terminal) and
// builds an app.Wire before any subcommand runs. Values not given with
// --value are prompted with echo disabled. Ctrl-C during a prompt aborts
// with exit status 130 and leaves the store untouched.
package commands
