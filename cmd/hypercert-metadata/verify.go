package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotVerified = errors.New("project not verified")

func (c *cli) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <matching_pool> <title> <address>",
		Short: "Check whether the registry lists a project in a matching pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadRegistry()
			if err != nil {
				return err
			}

			pool, title, address := args[0], args[1], args[2]

			if !reg.Verify(pool, title, address) {
				fmt.Fprintln(cmd.OutOrStdout(), "not verified")
				return fmt.Errorf("%w: %q in %q", errNotVerified, title, pool)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "verified")

			return nil
		},
	}
}
