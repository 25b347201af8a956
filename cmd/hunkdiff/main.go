package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hunkdiff/internal/config"
	"hunkdiff/internal/editor"
	"hunkdiff/internal/git"
	"hunkdiff/internal/logging"
	"hunkdiff/internal/review"
)

// cli holds what every subcommand shares once flags and config are read.
type cli struct {
	configPath string
	repo       string
	logLevel   string
	logFormat  string
	jsonOut    bool

	out    io.Writer
	errOut io.Writer

	cfg    config.AppConfig
	logger logging.Logger
	runner git.Runner
	svc    *review.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, errOut: os.Stderr}
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hunkdiff: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "hunkdiff",
		Short:         "Browse git changes hunk by hunk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.repo, "repo", "", "repository path (default: current directory)")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml or .json)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "text or json")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(newDiffCmd(c), newRefsCmd(c), newOpenCmd(c), newBrowseCmd(c))
	return root
}

func (c *cli) setup() error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFromPath(c.configPath)
	} else {
		c.cfg, _, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	levelName := c.cfg.LogLevel
	if c.logLevel != "" {
		levelName = c.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	formatName := c.cfg.LogFormat
	if c.logFormat != "" {
		formatName = c.logFormat
	}
	if c.logger == nil {
		if c.logger, err = logging.New(c.errOut, formatName, level); err != nil {
			return err
		}
	}

	if c.repo == "" {
		if c.repo, err = os.Getwd(); err != nil {
			return err
		}
	}

	if c.runner == nil {
		c.runner = git.NewExecRunner(c.cfg.GitBinary)
	}
	c.svc = c.newService(c.cfg.RecentCommits)
	return nil
}

// newService wires the review service from config, listing up to limit
// recent commits.
func (c *cli) newService(limit int) *review.Service {
	if limit <= 0 {
		limit = git.DefaultRecentCommits
	}
	var lister git.RefLister
	if c.cfg.RefBackend == config.BackendGoGit {
		lister = git.NewGoGitRefLister(limit)
	} else {
		lister = git.NewExecRefLister(c.runner, limit, c.logger)
	}
	return review.New(c.runner,
		review.WithLogger(c.logger),
		review.WithUntrackedWorkers(c.cfg.UntrackedWorkers),
		review.WithRefLister(lister),
		review.WithOpener(editor.New(editor.WithPreferred(c.cfg.Editor))),
	)
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) println(s string) {
	fmt.Fprintln(c.out, strings.TrimRight(s, "\n"))
}
