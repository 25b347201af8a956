package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hunkdiff/internal/app"
	"hunkdiff/internal/clipboard"
	"hunkdiff/internal/diffview"
	"hunkdiff/internal/git"
)

func newBrowseCmd(c *cli) *cobra.Command {
	var (
		source string
		target string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse hunks interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !git.IsRepository(ctx, c.runner, c.repo) {
				return git.ErrNotARepository
			}

			opts := app.Options{
				RepoPath: c.repo,
				Request: git.ComparisonRequest{
					Source:           source,
					Target:           target,
					ContextLines:     c.cfg.ContextLines,
					IncludeUntracked: c.cfg.IncludeUntracked,
				},
				Service:     c.svc,
				Copier:      clipboard.New(),
				Highlighter: diffview.NewHighlighter(highlightStyle, true),
			}

			root, rootErr := git.DiscoverRepoRoot(ctx, c.runner, c.repo)
			gitDir, dirErr := git.DiscoverGitDir(ctx, c.runner, c.repo)
			if rootErr == nil && dirErr == nil {
				w, err := app.NewWatcher(root, gitDir)
				if err != nil {
					c.logger.Warn("auto-refresh disabled", "err", err)
				} else {
					defer w.Close()
					opts.Watcher = w
				}
			}

			program := tea.NewProgram(app.NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", git.SourceWorking, `"working", "staged" or a ref`)
	cmd.Flags().StringVar(&target, "target", git.DefaultTarget, "ref to compare against")
	return cmd
}
