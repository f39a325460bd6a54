package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/serroba/pouch/internal/errs"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pouch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "pouch %s\n", Version); err != nil {
				return errs.Wrap(err, "write version")
			}
			return nil
		},
	}
}
