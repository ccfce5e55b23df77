package app

import (
	"go.uber.org/zap"

	"tokenvault/internal/config"
	"tokenvault/internal/domain"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Settings   *config.Config  // loaded settings; store path, KDF, lock timeout
	Passphrase []byte          // vault passphrase; copied, caller may wipe its own
	Prompter   domain.Prompter // optional; asked for values not passed explicitly
	Logger     *zap.Logger     // optional; defaults to a no-op logger
}
