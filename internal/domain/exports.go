package domain

import (
	interfaces "tokenvault/internal/domain/interfaces"
	types "tokenvault/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SecretName   = types.SecretName
	RecordID     = types.RecordID
	Token        = types.Token
	KDFAlgorithm = types.KDFAlgorithm
	KDFParams    = types.KDFParams
	SecretRecord = types.SecretRecord
	StoreFile    = types.StoreFile
)

// Re-exported constants.
const (
	KDFPBKDF2SHA256 = types.KDFPBKDF2SHA256
	KDFScrypt       = types.KDFScrypt
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SecretStore  = interfaces.SecretStore
	VaultService = interfaces.VaultService
	Prompter     = interfaces.Prompter
)
