// Package gitinfo captures best-effort source provenance for build records.
package gitinfo

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"
)

// HeadCommit returns the HEAD commit SHA of the repository containing dir.
// Provenance is best-effort: a render root outside any git repository, or a
// repository without commits, yields ("", false) and the build proceeds.
func HeadCommit(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("Render root is not inside a git repository", "dir", dir)
		return "", false
	}

	head, err := repo.Head()
	if err != nil {
		slog.Debug("Repository has no resolvable HEAD", "dir", dir, "error", err)
		return "", false
	}
	return head.Hash().String(), true
}
