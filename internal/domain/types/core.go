package types

import "time"

// SecretName is the unique, case-sensitive key of a secret record.
type SecretName string

// String returns the string form of the name.
func (n SecretName) String() string { return string(n) }

// RecordID identifies a record across updates. It is never reused.
type RecordID string

// String returns the string form of the identifier.
func (id RecordID) String() string { return string(id) }

// Token is a self-describing authenticated ciphertext in its text form.
type Token string

// String returns the string form of the token.
func (t Token) String() string { return string(t) }

// Timestamp is a wall-clock instant persisted as RFC 3339.
type Timestamp = time.Time
