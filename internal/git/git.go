package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// IsRepo returns true if dir is inside a git working tree.
func IsRepo(dir string) bool {
	out, err := output(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// IsDirty returns true if the working tree has uncommitted changes.
func IsDirty(dir string) (bool, error) {
	out, err := output(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Add stages the given paths in the repository.
func Add(dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return run(dir, args...)
}

// Commit creates a commit with the given message.
// If user.name or user.email is not configured globally, it sets repo-local fallback values.
func Commit(dir, message string) error {
	if err := ensureCommitIdentity(dir); err != nil {
		return fmt.Errorf("setting commit identity: %w", err)
	}
	return run(dir, "commit", "-m", message)
}

// TagExists checks if a tag exists locally.
func TagExists(dir, tag string) (bool, error) {
	err := run(dir, "show-ref", "--verify", "--quiet", "refs/tags/"+tag)
	if err != nil {
		if isExitError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Tag creates an annotated tag on HEAD.
func Tag(dir, tag string) error {
	return run(dir, "tag", "-a", tag, "-m", tag)
}

// ensureCommitIdentity sets repo-local user.name/user.email if they are not configured.
func ensureCommitIdentity(dir string) error {
	if _, err := output(dir, "config", "user.name"); err != nil {
		if err2 := run(dir, "config", "user.name", "shelf"); err2 != nil {
			return err2
		}
	}
	if _, err := output(dir, "config", "user.email"); err != nil {
		if err2 := run(dir, "config", "user.email", "shelf@localhost"); err2 != nil {
			return err2
		}
	}
	return nil
}

// gitError keeps the exit status reachable for callers that branch on it.
type gitError struct {
	args   []string
	err    error
	stderr string
}

func (e *gitError) Error() string {
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.args, " "), e.err, strings.TrimSpace(e.stderr))
}

func (e *gitError) Unwrap() error { return e.err }

// run executes a git command without printing stdout.
// Stderr is captured and included in the error message on failure.
func run(dir string, args ...string) error {
	_, err := output(dir, args...)
	return err
}

// output executes a git command and returns its stdout.
func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &gitError{args: args, err: err, stderr: stderr.String()}
	}
	return stdout.String(), nil
}

func isExitError(err error) bool {
	ge, ok := err.(*gitError)
	if !ok {
		return false
	}
	_, ok = ge.err.(*exec.ExitError)
	return ok
}
