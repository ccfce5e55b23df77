package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

func getCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Decrypt a secret and print it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.SecretName(args[0])
			v, ok, err := o.wire.Vault.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%q: %w", name, domain.ErrNotFound)
			}
			fmt.Fprintln(o.out, v)
			return nil
		},
	}
}
