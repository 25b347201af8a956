package git

import (
	"context"
	"errors"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const shortHashLen = 7

// GoGitRefLister lists refs by reading the repository with go-git instead of
// spawning git.
type GoGitRefLister struct {
	limit int
}

func NewGoGitRefLister(limit int) *GoGitRefLister {
	if limit <= 0 {
		limit = DefaultRecentCommits
	}
	return &GoGitRefLister{limit: limit}
}

func (l *GoGitRefLister) ListRefs(ctx context.Context, dir string) (Refs, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Refs{}, ErrNotARepository
	}

	branches, err := goGitBranches(repo)
	if err != nil {
		return Refs{}, err
	}
	commits, err := l.goGitCommits(ctx, repo)
	if err != nil {
		return Refs{}, err
	}
	return Refs{Branches: branches, RecentCommits: commits}, nil
}

func goGitBranches(repo *gogit.Repository) ([]Ref, error) {
	iter, err := repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var local, remote []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.SymbolicReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			local = append(local, name.Short())
		case name.IsRemote():
			if !isRemoteHead(name.Short()) {
				remote = append(remote, name.Short())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(local)
	sort.Strings(remote)
	out := make([]Ref, 0, len(local)+len(remote))
	for _, name := range append(local, remote...) {
		out = append(out, Ref{Name: name, Kind: RefBranch})
	}
	return out, nil
}

func (l *GoGitRefLister) goGitCommits(ctx context.Context, repo *gogit.Repository) ([]Ref, error) {
	out := []Ref{}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return out, nil
		}
		return nil, err
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if len(out) >= l.limit {
			return storer.ErrStop
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		hash := c.Hash.String()[:shortHashLen]
		subject := firstLine(c.Message)
		out = append(out, Ref{
			Name:    hash + " - " + subject,
			Kind:    RefCommit,
			ShortID: hash,
			Message: subject,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}
