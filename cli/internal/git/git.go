// Package git wraps the git commands the tool needs: change enumeration,
// restricted diffs, staging, commit, and push. Every command runs with Dir
// set to the repository path and a minimal environment; the process working
// directory is never changed, so repeated or nested invocations are safe.
package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/erruser"
)

// runGit executes git with the given args in dir and returns stdout.
// Package-level so tests can swap it to count invocations without a
// repository.
var runGit = func(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat", // prevent pager; subprocess output is captured
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	// Commit and push need author identity and credentials from the
	// user's global config; HOME above covers both.
	return env
}

// RepoRoot returns the absolute repository root containing dir. Runs
// "git rev-parse --show-toplevel". The error is user-facing when dir is not
// inside a git repository.
func RepoRoot(dir string) (string, error) {
	out, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", erruser.New(fmt.Sprintf("%s is not a git repository.", dir), err)
	}
	root := strings.TrimSpace(string(out))
	return filepath.Abs(root)
}

// Changes returns the union of unstaged and staged modified paths, relative
// to the repository root, de-duplicated and sorted. Does not include
// untracked files.
func Changes(root string) ([]string, error) {
	unstaged, err := runGit(root, "diff", "--name-only")
	if err != nil {
		return nil, erruser.New("Could not list changed files.", err)
	}
	staged, err := runGit(root, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, erruser.New("Could not list staged files.", err)
	}
	seen := make(map[string]struct{})
	var files []string
	for _, line := range append(splitLines(string(unstaged)), splitLines(string(staged))...) {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		files = append(files, line)
	}
	sort.Strings(files)
	return files, nil
}

// Untracked returns files present on disk but unknown to git, excluding
// ignored paths. Runs "git ls-files --others --exclude-standard".
func Untracked(root string) ([]string, error) {
	out, err := runGit(root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, erruser.New("Could not list untracked files.", err)
	}
	return splitLines(string(out)), nil
}

// DiffForFiles returns the staged diff restricted to files, a newline, then
// the unstaged diff restricted to files. An empty file set returns "" with
// no git invocation; without that guard an empty pathspec would diff the
// whole tree.
func DiffForFiles(root string, files []string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}
	staged, err := runGit(root, append([]string{"diff", "--cached", "--"}, files...)...)
	if err != nil {
		return "", erruser.New("Could not read staged diff.", err)
	}
	unstaged, err := runGit(root, append([]string{"diff", "--"}, files...)...)
	if err != nil {
		return "", erruser.New("Could not read unstaged diff.", err)
	}
	return string(staged) + "\n" + string(unstaged), nil
}

// Add stages exactly the given files. No-op for an empty set.
func Add(root string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	if _, err := runGit(root, append([]string{"add", "--"}, files...)...); err != nil {
		return erruser.New("Could not stage files.", err)
	}
	return nil
}

// Commit creates one commit with the given message from the current index.
func Commit(root, message string) error {
	if _, err := runGit(root, "commit", "-m", message); err != nil {
		return erruser.New("Could not create commit.", err)
	}
	return nil
}

// Push runs "git push", optionally against an explicit remote. The caller
// reports failure non-fatally.
func Push(root, remote string) error {
	args := []string{"push"}
	if remote != "" {
		args = append(args, remote)
	}
	if _, err := runGit(root, args...); err != nil {
		return erruser.New("Could not push to the remote.", err)
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// CLI adapts the package functions to a value implementing the capability
// interface the orchestrator accepts, so tests can substitute a fake.
type CLI struct{}

func (CLI) Changes(root string) ([]string, error)   { return Changes(root) }
func (CLI) Untracked(root string) ([]string, error) { return Untracked(root) }
func (CLI) Add(root string, files []string) error   { return Add(root, files) }
func (CLI) Commit(root, message string) error       { return Commit(root, message) }
func (CLI) Push(root, remote string) error          { return Push(root, remote) }

func (CLI) DiffForFiles(root string, files []string) (string, error) {
	return DiffForFiles(root, files)
}
