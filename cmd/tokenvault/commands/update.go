package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

func updateCmd(o *options) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Replace the value of an existing secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.SecretName(args[0])
			if _, err := o.wire.Vault.Update(cmd.Context(), name, valueFlag(cmd, value)); err != nil {
				return err
			}
			fmt.Fprintf(o.errOut, "Secret %q updated.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "new secret value (prompted when omitted)")
	return cmd
}
