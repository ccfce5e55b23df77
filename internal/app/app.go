package app

// Close wipes the vault passphrase and flushes the logger.
func (w *Wire) Close() {
	if w == nil {
		return
	}
	if w.Vault != nil {
		w.Vault.Close()
	}
	if w.Log != nil {
		_ = w.Log.Sync()
	}
}
