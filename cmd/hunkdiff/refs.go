package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefsCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List branches and recent commits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.svc
			if cmd.Flags().Changed("limit") {
				svc = c.newService(limit)
			}
			refs, err := svc.Refs(cmd.Context(), c.repo)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.writeJSON(refs)
			}

			fmt.Fprintln(c.out, "Branches:")
			for _, b := range refs.Branches {
				fmt.Fprintf(c.out, "  %s\n", b.Name)
			}
			fmt.Fprintln(c.out, "Recent commits:")
			for _, r := range refs.RecentCommits {
				fmt.Fprintf(c.out, "  %s %s\n", r.ShortID, r.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of recent commits (default from config)")
	return cmd
}
