package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

// exists prints true/false and exits 1 when the secret is absent, so it
// composes in shell conditionals.
func existsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Report whether a secret is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := o.wire.Vault.Exists(cmd.Context(), domain.SecretName(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(o.out, ok)
			if !ok {
				return errAbsent
			}
			return nil
		},
	}
}
