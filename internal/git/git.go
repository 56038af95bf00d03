package git

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
)

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// IsGitRepo checks if dir is inside a git work tree
func IsGitRepo(dir string) bool {
	_, err := run(dir, "rev-parse", "--git-dir")
	return err == nil
}

// GetCurrentBranch returns the current branch name
func GetCurrentBranch(dir string) (string, error) {
	out, err := run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return out, nil
}

// GetCurrentCommit returns the current commit hash
func GetCurrentCommit(dir string) (string, error) {
	out, err := run(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current commit: %w", err)
	}
	return out, nil
}

// GetLastAuthor returns "name <email>" of the HEAD commit
func GetLastAuthor(dir string) (string, error) {
	out, err := run(dir, "log", "-1", "--format=%an <%ae>")
	if err != nil {
		return "", fmt.Errorf("failed to get author: %w", err)
	}
	return out, nil
}

// GetCommitTime returns the ISO 8601 author date of HEAD
func GetCommitTime(dir string) (string, error) {
	out, err := run(dir, "log", "-1", "--format=%aI")
	if err != nil {
		return "", fmt.Errorf("failed to get commit time: %w", err)
	}
	return out, nil
}

// HasUncommittedChanges checks if there are uncommitted changes
func HasUncommittedChanges(dir string) (bool, error) {
	out, err := run(dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}
	return out != "", nil
}

// GetRemoteURL returns the url of the origin remote
func GetRemoteURL(dir string) (string, error) {
	out, err := run(dir, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get remote url: %w", err)
	}
	return out, nil
}

// Info collects repository metadata for dir. Missing pieces (no commits,
// no origin) are left empty; the error is only set when dir is not a
// repository at all.
func Info(dir string) (models.GitInfo, error) {
	var info models.GitInfo
	if !IsGitRepo(dir) {
		return info, fmt.Errorf("%s is not a git repository", dir)
	}
	info.CommitHash, _ = GetCurrentCommit(dir)
	info.Branch, _ = GetCurrentBranch(dir)
	info.Author, _ = GetLastAuthor(dir)
	info.Timestamp, _ = GetCommitTime(dir)
	info.IsDirty, _ = HasUncommittedChanges(dir)
	info.RemoteURL, _ = GetRemoteURL(dir)
	return info, nil
}

// FileInfo is the last commit that touched one file
type FileInfo struct {
	Commit    string
	Timestamp string
	Author    string
}

// LastChange returns the last commit touching relPath, or false when
// the file has no history
func LastChange(dir, relPath string) (FileInfo, bool) {
	out, err := run(dir, "log", "-1", "--format=%H|%aI|%an", "--", relPath)
	if err != nil || out == "" {
		return FileInfo{}, false
	}
	parts := strings.SplitN(out, "|", 3)
	if len(parts) != 3 {
		return FileInfo{}, false
	}
	return FileInfo{Commit: parts[0], Timestamp: parts[1], Author: parts[2]}, true
}
