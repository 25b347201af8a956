// Package review is the entry point shared by the CLI and the terminal
// browser: it resolves a comparison, parses it into hunks, attaches file
// metadata, lists refs and opens files in an editor.
package review

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"hunkdiff/internal/diffview"
	"hunkdiff/internal/editor"
	"hunkdiff/internal/filemeta"
	"hunkdiff/internal/git"
	"hunkdiff/internal/logging"
)

// Opener opens a file in an external editor.
type Opener interface {
	Open(ctx context.Context, filePath, workDir string, line int) error
}

type Service struct {
	runner    git.Runner
	resolver  *git.Resolver
	workers   int
	refs      git.RefLister
	augmenter filemeta.Augmenter
	opener    Opener
	logger    logging.Logger
	newID     func() string
}

type Option func(*Service)

func WithRefLister(l git.RefLister) Option {
	return func(s *Service) {
		if l != nil {
			s.refs = l
		}
	}
}

func WithAugmenter(a filemeta.Augmenter) Option {
	return func(s *Service) { s.augmenter = a }
}

func WithOpener(o Opener) Option {
	return func(s *Service) {
		if o != nil {
			s.opener = o
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithUntrackedWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// New builds a Service on top of runner. Without options it lists refs
// through git, stats files on disk and searches the default editors.
func New(runner git.Runner, opts ...Option) *Service {
	s := &Service{
		runner:    runner,
		augmenter: filemeta.New(),
		opener:    editor.New(),
		logger:    logging.Nop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = git.NewResolver(runner, git.WithUntrackedWorkers(s.workers), git.WithLogger(s.logger))
	if s.refs == nil {
		s.refs = git.NewExecRefLister(runner, git.DefaultRecentCommits, s.logger)
	}
	return s
}

// Diff resolves req in repoPath and returns the parsed, augmented hunks.
// "No changes" is an empty result, not an error.
func (s *Service) Diff(ctx context.Context, repoPath string, req git.ComparisonRequest) (diffview.DiffResult, error) {
	req = req.Normalize()
	log := s.logger.With("request_id", s.newID(), "repo", repoPath)
	log.Debug("diff requested",
		"source", req.Source,
		"target", req.Target,
		"context", req.ContextLines,
		"untracked", req.IncludeUntracked,
	)

	cmp, err := s.resolver.Resolve(ctx, repoPath, req)
	if err != nil {
		log.Error("diff failed", "err", err)
		return diffview.DiffResult{}, err
	}
	if cmp.Empty() {
		log.Debug("no changes")
		return diffview.Empty(), nil
	}
	if cmp.FellBackToStaged {
		log.Info("working tree clean, showing staged changes")
	}

	result := diffview.Parse(cmp.Text)
	// Diff paths are relative to the top of the work tree, which may sit
	// above repoPath.
	root := cmp.Root
	if root == "" {
		root = repoPath
	}
	s.augmenter.Augment(&result, root)
	log.Debug("diff parsed",
		"hunks", len(result.Hunks),
		"files", result.TotalStats.Files,
		"added", result.TotalStats.Added,
		"removed", result.TotalStats.Removed,
	)
	return result, nil
}

// Refs lists branches and recent commits of repoPath.
func (s *Service) Refs(ctx context.Context, repoPath string) (git.Refs, error) {
	log := s.logger.With("request_id", s.newID(), "repo", repoPath)
	refs, err := s.refs.ListRefs(ctx, repoPath)
	if err != nil {
		log.Error("listing refs failed", "err", err)
		return git.Refs{}, err
	}
	log.Debug("refs listed", "branches", len(refs.Branches), "commits", len(refs.RecentCommits))
	return refs, nil
}

// Open opens filePath at line in the first available editor. A relative
// filePath is a diff path, so it is resolved from the top of the work tree
// containing workDir.
func (s *Service) Open(ctx context.Context, filePath, workDir string, line int) error {
	log := s.logger.With("request_id", s.newID(), "file", filePath, "line", line)
	if !filepath.IsAbs(filePath) {
		if root, err := git.DiscoverRepoRoot(ctx, s.runner, workDir); err == nil && root != "" {
			workDir = root
		} else {
			log.Debug("work tree root unknown, opening from work dir", "dir", workDir, "err", err)
		}
	}
	if err := s.opener.Open(ctx, filePath, workDir, line); err != nil {
		log.Warn("opening editor failed", "err", err)
		return err
	}
	log.Debug("editor opened")
	return nil
}
