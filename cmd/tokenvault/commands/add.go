package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

func addCmd(o *options) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Encrypt and store a new secret",
		Long: `Encrypt and store a new secret under <name>.

Without --value the secret is read from the terminal with echo disabled.
Adding a name that already exists fails; use "update" instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.SecretName(args[0])
			if _, err := o.wire.Vault.Add(cmd.Context(), name, valueFlag(cmd, value)); err != nil {
				return err
			}
			fmt.Fprintf(o.errOut, "Secret %q added.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "secret value (prompted when omitted)")
	return cmd
}

// valueFlag returns nil when --value was not given, so the vault prompts.
func valueFlag(cmd *cobra.Command, value string) *string {
	if !cmd.Flags().Changed("value") {
		return nil
	}
	return &value
}
