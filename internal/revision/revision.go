// Package revision reports which commit of the application is being deployed.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when dir is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

const shortHashLen = 12

// Info describes the checked-out commit.
type Info struct {
	Hash   string
	Branch string
}

// Short returns an abbreviated commit hash.
func (i Info) Short() string {
	if len(i.Hash) > shortHashLen {
		return i.Hash[:shortHashLen]
	}
	return i.Hash
}

// Fields renders the info as log fields.
func (i Info) Fields() map[string]any {
	fields := map[string]any{"revision": i.Short()}
	if i.Branch != "" {
		fields["branch"] = i.Branch
	}
	return fields
}

// Detect opens the repository containing dir and resolves HEAD. Build
// environments often check out a detached HEAD, in which case Branch is empty.
func Detect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Info{}, ErrNotRepository
		}
		return Info{}, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Info{}, fmt.Errorf("repository has no commits: %w", err)
		}
		return Info{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := Info{Hash: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}
