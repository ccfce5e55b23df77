package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/crypto"
)

func rekeyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rekey",
		Short: "Re-encrypt every secret under a new passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			next, err := o.prompter.Secret(ctx, "New vault passphrase")
			if err != nil {
				return err
			}
			confirm, err := o.prompter.Secret(ctx, "Repeat new vault passphrase")
			if err != nil {
				return err
			}
			if next != confirm {
				return errors.New("passphrases do not match")
			}
			b := []byte(next)
			defer crypto.Wipe(b)

			if err := o.wire.Vault.Rekey(ctx, b); err != nil {
				return err
			}
			fmt.Fprintln(o.errOut, "Vault re-encrypted under the new passphrase.")
			return nil
		},
	}
}
