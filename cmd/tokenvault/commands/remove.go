package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

func removeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.SecretName(args[0])
			if err := o.wire.Vault.Remove(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(o.errOut, "Secret %q removed.\n", name)
			return nil
		},
	}
}
