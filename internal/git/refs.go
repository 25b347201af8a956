package git

import (
	"context"
	"fmt"
	"strings"

	"hunkdiff/internal/logging"
)

type RefKind string

const (
	RefBranch RefKind = "branch"
	RefCommit RefKind = "commit"
)

// Ref is one entry of a branch or commit listing. ShortID and Message are
// only set for commits.
type Ref struct {
	Name    string  `json:"name"`
	Kind    RefKind `json:"ref_type"`
	ShortID string  `json:"short_hash,omitempty"`
	Message string  `json:"message,omitempty"`
}

type Refs struct {
	Branches      []Ref `json:"branches"`
	RecentCommits []Ref `json:"recent_commits"`
}

const DefaultRecentCommits = 20

// RefLister lists branches and recent commits of the repository at dir.
type RefLister interface {
	ListRefs(ctx context.Context, dir string) (Refs, error)
}

// ExecRefLister lists refs through git commands.
type ExecRefLister struct {
	runner Runner
	limit  int
	logger logging.Logger
}

func NewExecRefLister(runner Runner, limit int, logger logging.Logger) *ExecRefLister {
	if limit <= 0 {
		limit = DefaultRecentCommits
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &ExecRefLister{runner: runner, limit: limit, logger: logger}
}

func (l *ExecRefLister) ListRefs(ctx context.Context, dir string) (Refs, error) {
	if !IsRepository(ctx, l.runner, dir) {
		return Refs{}, ErrNotARepository
	}

	refs := Refs{Branches: []Ref{}, RecentCommits: []Ref{}}

	branchText, err := l.runner.Run(ctx, dir, "branch", "-a", "--format=%(refname:short)")
	if err != nil {
		l.logger.Warn("listing branches failed", "err", err)
	} else {
		refs.Branches = parseBranches(branchText)
	}

	logText, err := l.runner.Run(ctx, dir, "log", "--oneline", fmt.Sprintf("-%d", l.limit), "--pretty=format:%h|%s")
	if err != nil {
		// An unborn HEAD has no log; that is not worth more than a debug line.
		l.logger.Debug("listing commits failed", "err", err)
	} else {
		refs.RecentCommits = parseCommits(logText)
	}

	return refs, nil
}

func parseBranches(text string) []Ref {
	out := []Ref{}
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || isRemoteHead(name) {
			continue
		}
		out = append(out, Ref{Name: name, Kind: RefBranch})
	}
	return out
}

func isRemoteHead(name string) bool {
	return strings.HasPrefix(name, "origin/HEAD") || strings.HasSuffix(name, "/HEAD")
}

func parseCommits(text string) []Ref {
	out := []Ref{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		hash, subject, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		out = append(out, Ref{
			Name:    hash + " - " + subject,
			Kind:    RefCommit,
			ShortID: hash,
			Message: subject,
		})
	}
	return out
}
