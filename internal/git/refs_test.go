package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRefListerParsesBranchesAndCommits(t *testing.T) {
	f := newFakeRunner().
		on("branch -a --format=%(refname:short)", "main\nfeature/x\n\norigin/HEAD\norigin/main\n", nil).
		on("log --oneline -5 --pretty=format:%h|%s", "abc1234|fix: a|b in subject\ndef5678|init\nbroken line", nil)
	l := NewExecRefLister(f, 5, nil)

	refs, err := l.ListRefs(context.Background(), ".")
	require.NoError(t, err)

	assert.Equal(t, []Ref{
		{Name: "main", Kind: RefBranch},
		{Name: "feature/x", Kind: RefBranch},
		{Name: "origin/main", Kind: RefBranch},
	}, refs.Branches)
	assert.Equal(t, []Ref{
		{Name: "abc1234 - fix: a|b in subject", Kind: RefCommit, ShortID: "abc1234", Message: "fix: a|b in subject"},
		{Name: "def5678 - init", Kind: RefCommit, ShortID: "def5678", Message: "init"},
	}, refs.RecentCommits)
}

func TestExecRefListerNotARepository(t *testing.T) {
	f := newFakeRunner().on("rev-parse --git-dir", "", errors.New("fatal"))
	l := NewExecRefLister(f, 0, nil)

	_, err := l.ListRefs(context.Background(), ".")
	require.ErrorIs(t, err, ErrNotARepository)
	assert.Len(t, f.joinedCalls(), 1)
}

func TestExecRefListerListingFailuresAreSoft(t *testing.T) {
	f := newFakeRunner().
		on("branch -a --format=%(refname:short)", "", errors.New("boom")).
		on("log --oneline -20 --pretty=format:%h|%s", "", errors.New("unborn"))
	l := NewExecRefLister(f, 0, nil)

	refs, err := l.ListRefs(context.Background(), ".")
	require.NoError(t, err)
	assert.Empty(t, refs.Branches)
	assert.Empty(t, refs.RecentCommits)
	assert.NotNil(t, refs.Branches)
}
