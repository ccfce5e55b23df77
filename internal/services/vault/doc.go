// Package vault implements the public secret API over a domain.SecretStore.
//
// Operations: Exists, Get, Add, Update, Remove, List, plus Ensure (add-or-get)
// and Rekey (passphrase rotation). Logical failures are returned as typed
// errors from package domain rather than only logged: ErrDuplicateName on
// Add, ErrNotFound on Update and Remove, ErrDecryption on Get.
//
// Interactive input is delegated to a domain.Prompter and happens before any
// store lock is taken, so a slow or cancelled prompt never blocks other
// writers and never leaves a partial write behind.
package vault
