package main

import (
	"time"

	"github.com/spf13/cobra"

	"hunkdiff/internal/diffview"
	"hunkdiff/internal/git"
)

func newDiffCmd(c *cli) *cobra.Command {
	var (
		source       string
		target       string
		contextLines int
		untracked    bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show changes as hunks",
		Long: `Show changes as hunks.

  hunkdiff diff                         # working tree vs HEAD, staged changes if clean
  hunkdiff diff --source staged         # index vs HEAD
  hunkdiff diff --source main --target feature
  hunkdiff diff --untracked --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := git.ComparisonRequest{
				Source:           source,
				Target:           target,
				ContextLines:     c.cfg.ContextLines,
				IncludeUntracked: c.cfg.IncludeUntracked,
			}
			if cmd.Flags().Changed("context") {
				req.ContextLines = contextLines
			}
			if cmd.Flags().Changed("untracked") {
				req.IncludeUntracked = untracked
			}

			res, err := c.svc.Diff(cmd.Context(), c.repo, req)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.writeJSON(res)
			}

			color := stdoutIsTerminal(c.out)
			c.println(diffview.RenderResult(res, diffview.RenderOptions{
				Width:       terminalWidth(c.out),
				Highlighter: diffview.NewHighlighter(highlightStyle, color),
				Now:         time.Now(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", git.SourceWorking, `"working", "staged" or a ref`)
	cmd.Flags().StringVar(&target, "target", git.DefaultTarget, "ref to compare against")
	cmd.Flags().IntVarP(&contextLines, "context", "U", git.DefaultContextLines, "lines of context around changes")
	cmd.Flags().BoolVar(&untracked, "untracked", false, "include untracked files")
	return cmd
}
