package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration, project registry and override table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadRegistry()
			if err != nil {
				return err
			}

			overrides, err := c.loadOverrides()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rounds := c.cfg.Rounds()

			fmt.Fprintf(out, "Rounds: %d\n", rounds.Len())

			for _, r := range rounds.Rounds() {
				status := fmt.Sprintf("%d projects", len(reg.Projects(r.Name)))
				if !reg.Has(r.Name) {
					status = "missing from registry"
				}

				fmt.Fprintf(out, "  %s  %s: %s\n", r.Address, r.Name, status)
			}

			fmt.Fprintf(out, "Registry: %d projects in %d rounds\n", reg.Len(), len(reg.Rounds()))
			fmt.Fprintf(out, "Overrides: %d\n", len(overrides))

			return nil
		},
	}
}
