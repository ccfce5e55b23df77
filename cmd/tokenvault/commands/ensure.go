package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenvault/internal/domain"
)

func ensureCmd(o *options) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "ensure <name>",
		Short: "Print a secret, adding it first if it does not exist",
		Long: `Print the secret stored under <name>. When it does not exist yet it is
added first, from --value or from the terminal. This is the lookup every
integration client performs at startup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.wire.Vault.Ensure(cmd.Context(), domain.SecretName(args[0]), valueFlag(cmd, value))
			if err != nil {
				return err
			}
			fmt.Fprintln(o.out, v)
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "value to store when the secret is missing")
	return cmd
}
