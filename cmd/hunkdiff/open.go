package main

import (
	"github.com/spf13/cobra"
)

func newOpenCmd(c *cli) *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Open a file in the first available editor",
		Long: `Open a file in the first available editor.

A relative <file> is read from the top of the work tree, the way diff prints it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.svc.Open(cmd.Context(), args[0], c.repo, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "line to jump to")
	return cmd
}
