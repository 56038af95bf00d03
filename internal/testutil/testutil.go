package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SampleModels is a small pydantic module used across command tests
const SampleModels = `from typing import Optional
from pydantic import BaseModel


class User(BaseModel):
    """A registered user."""
    id: int
    name: str
    email: Optional[str] = None


class UserCreate(BaseModel):
    name: str
    email: str
`

// SampleRoutes exposes SampleModels through route decorators
const SampleRoutes = `from app.models import User, UserCreate


@post("/users", tags=["users"])
def create_user(body: UserCreate) -> User:
    """Create a user."""


@get("/users/{id}")
def read_user(id: int) -> User:
    pass
`

// TempTree is a temporary Python source tree, optionally under git
type TempTree struct {
	Path string
	T    *testing.T
}

// NewTempTree creates an empty source tree
func NewTempTree(t *testing.T) *TempTree {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "modeldrift-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return &TempTree{Path: tmpDir, T: t}
}

// NewSampleTree creates a tree holding app/models.py and app/routes.py
func NewSampleTree(t *testing.T) *TempTree {
	t.Helper()

	tree := NewTempTree(t)
	tree.CreateFile("app/__init__.py", "")
	tree.CreateFile("app/models.py", SampleModels)
	tree.CreateFile("app/routes.py", SampleRoutes)
	return tree
}

// NewTempGitRepo creates a source tree with an initialized repository
// and one commit
func NewTempGitRepo(t *testing.T) *TempTree {
	t.Helper()

	tree := NewTempTree(t)
	tree.git("init")

	// Configure git user (required for commits)
	tree.git("config", "user.name", "Test User")
	tree.git("config", "user.email", "test@example.com")

	tree.CreateFile("app/__init__.py", "")
	tree.Commit("Initial commit")
	return tree
}

func (r *TempTree) git(args ...string) string {
	r.T.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(r.Path)
		r.T.Fatalf("git %s failed: %s: %v", strings.Join(args, " "), output, err)
	}
	return strings.TrimSpace(string(output))
}

// Cleanup removes the temporary tree
func (r *TempTree) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp tree: %v", err)
	}
}

// CreateFile creates a file in the tree
func (r *TempTree) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes
func (r *TempTree) Commit(message string) {
	r.T.Helper()
	r.git("add", ".")
	r.git("commit", "-m", message)
}

// Head returns the current commit hash
func (r *TempTree) Head() string {
	r.T.Helper()
	return r.git("rev-parse", "HEAD")
}
