package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"hunkdiff/internal/logging"
)

const (
	// SourceWorking compares the working tree against the target.
	SourceWorking = "working"
	// SourceStaged compares the index against the target.
	SourceStaged = "staged"
	// DefaultTarget is the ref compared against when none is given.
	DefaultTarget = "HEAD"
	// DefaultContextLines matches git's own default.
	DefaultContextLines = 3

	defaultUntrackedWorkers = 4
)

// ComparisonRequest describes what the caller wants to see. Source is
// SourceWorking, SourceStaged or any ref; empty fields take their defaults.
// A negative ContextLines means DefaultContextLines; zero is honoured.
type ComparisonRequest struct {
	Source           string
	Target           string
	ContextLines     int
	IncludeUntracked bool
}

// DefaultComparison is the working tree against HEAD with three context lines.
func DefaultComparison() ComparisonRequest {
	return ComparisonRequest{
		Source:       SourceWorking,
		Target:       DefaultTarget,
		ContextLines: DefaultContextLines,
	}
}

// Normalize fills in defaults.
func (r ComparisonRequest) Normalize() ComparisonRequest {
	r.Source = strings.TrimSpace(r.Source)
	r.Target = strings.TrimSpace(r.Target)
	if r.Source == "" {
		r.Source = SourceWorking
	}
	if r.Target == "" {
		r.Target = DefaultTarget
	}
	if r.ContextLines < 0 {
		r.ContextLines = DefaultContextLines
	}
	return r
}

// IsDefault reports whether the request is the plain "show my changes" case,
// the only one eligible for the staged fallback.
func (r ComparisonRequest) IsDefault() bool {
	n := r.Normalize()
	return n.Source == SourceWorking && n.Target == DefaultTarget
}

// ErrInvalidRef is returned for a source or target that git would read as
// an option instead of a revision.
var ErrInvalidRef = errors.New("invalid ref")

// Validate rejects refs starting with '-'. Call it on a normalized request.
func (r ComparisonRequest) Validate() error {
	for _, ref := range []string{r.Source, r.Target} {
		if strings.HasPrefix(ref, "-") {
			return fmt.Errorf("%w: %q must not start with '-'", ErrInvalidRef, ref)
		}
	}
	return nil
}

func contextArg(lines int) string {
	return fmt.Sprintf("-U%d", lines)
}

// PlanDiff returns the git arguments for the primary comparison of req.
func PlanDiff(req ComparisonRequest) []string {
	req = req.Normalize()
	ctxArg := contextArg(req.ContextLines)

	switch req.Source {
	case SourceStaged:
		if req.Target != DefaultTarget {
			return []string{"diff", ctxArg, "--staged", req.Target}
		}
		return []string{"diff", ctxArg, "--staged"}
	case SourceWorking:
		return []string{"diff", ctxArg, req.Target}
	default:
		// Comparing a ref with itself is always empty; show it against HEAD instead.
		if req.Source == req.Target {
			return []string{"diff", ctxArg, req.Source + ".." + DefaultTarget}
		}
		return []string{"diff", ctxArg, req.Source + ".." + req.Target}
	}
}

// Comparison is the merged diff text for one request. Every path in Text
// is relative to Root, the top of the work tree.
type Comparison struct {
	Text             string
	Root             string
	FellBackToStaged bool
}

// Empty reports whether the comparison produced no diff text.
func (c Comparison) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Resolver turns comparison requests into git invocations.
type Resolver struct {
	runner  Runner
	logger  logging.Logger
	workers int
}

type ResolverOption func(*Resolver)

// WithUntrackedWorkers bounds how many untracked-file diffs run at once.
func WithUntrackedWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithLogger(l logging.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(runner Runner, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		runner:  runner,
		logger:  logging.Nop(),
		workers: defaultUntrackedWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs every invocation req needs in dir and merges their output.
// An empty Comparison is a successful "no changes" answer.
func (r *Resolver) Resolve(ctx context.Context, dir string, req ComparisonRequest) (Comparison, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return Comparison{}, err
	}
	if !IsRepository(ctx, r.runner, dir) {
		return Comparison{}, ErrNotARepository
	}

	ctxArg := contextArg(req.ContextLines)
	root := r.workTreeRoot(ctx, dir)

	args := PlanDiff(req)
	r.logger.Debug("running primary diff", "args", strings.Join(args, " "))
	text, err := r.runner.Run(ctx, dir, args...)
	if err != nil {
		return Comparison{}, err
	}

	if req.IncludeUntracked {
		text = appendDiffs(text, r.untrackedDiffs(ctx, root, ctxArg))
	}

	cmp := Comparison{Text: text, Root: root}
	if cmp.Empty() && req.IsDefault() {
		staged, err := r.runner.Run(ctx, dir, "diff", ctxArg, "--cached")
		if err != nil {
			r.logger.Warn("staged fallback failed", "err", err)
			return Comparison{Root: root}, nil
		}
		if strings.TrimSpace(staged) != "" {
			r.logger.Debug("working tree clean, showing staged changes")
			return Comparison{Text: staged, Root: root, FellBackToStaged: true}, nil
		}
		return Comparison{Root: root}, nil
	}
	return cmp, nil
}

// workTreeRoot is the directory git diff paths are relative to. It falls
// back to dir when git cannot tell.
func (r *Resolver) workTreeRoot(ctx context.Context, dir string) string {
	root, err := DiscoverRepoRoot(ctx, r.runner, dir)
	if err != nil || root == "" {
		r.logger.Debug("work tree root unknown, using request dir", "dir", dir, "err", err)
		return dir
	}
	return root
}

// untrackedDiffs returns one diff per untracked file under root, in listing
// order. Failures are logged and leave an empty slot.
func (r *Resolver) untrackedDiffs(ctx context.Context, root, ctxArg string) []string {
	paths, err := ListUntracked(ctx, r.runner, root)
	if err != nil {
		r.logger.Warn("listing untracked files failed", "err", err)
		return nil
	}
	if len(paths) == 0 {
		return nil
	}

	results := make([]string, len(paths))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out, err := untrackedDiff(ctx, r.runner, root, ctxArg, path)
			if err != nil {
				r.logger.Warn("skipping untracked file", "file", path, "err", err)
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// appendDiffs concatenates non-blank diffs onto base, separating each from
// existing text with a single newline.
func appendDiffs(base string, diffs []string) string {
	var b strings.Builder
	b.WriteString(base)
	hasText := strings.TrimSpace(base) != ""
	for _, d := range diffs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		if hasText {
			b.WriteByte('\n')
		}
		b.WriteString(d)
		hasText = true
	}
	return b.String()
}
