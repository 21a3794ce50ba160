package gitctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

// ChangedFilter is the diff filter used by ChangedSince: added, copied,
// modified, renamed, type-changed, unmerged, unknown and pairing-broken.
// Deleted files (D) are left out on purpose.
const ChangedFilter = "ACMRTUXB"

// Git runs git subcommands in a working directory.
type Git struct {
	// Bin is the git executable. Empty means "git" from PATH.
	Bin string
	// Dir is the working directory. Empty means the current process directory.
	Dir string
	// Echo, when non-nil, receives "> git <args>" before each invocation.
	Echo io.Writer
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// New returns a Git for bin running in dir.
func New(bin, dir string) *Git {
	return &Git{Bin: bin, Dir: dir}
}

func (g *Git) bin() string {
	if strings.TrimSpace(g.Bin) == "" {
		return "git"
	}
	return g.Bin
}

// Output runs git with args and returns its stdout. A failed run returns an
// error that wraps the *exec.ExitError and carries git's stderr verbatim.
func (g *Git) Output(ctx context.Context, args ...string) (string, error) {
	if g.Echo != nil {
		fmt.Fprintln(g.Echo, "> "+strings.Join(append([]string{g.bin()}, args...), " "))
	}

	cmd := exec.CommandContext(ctx, g.bin(), args...)
	if g.Dir != "" {
		cmd.Dir = g.Dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), err
		}
		return stdout.String(), fmt.Errorf("%w: %s", err, msg)
	}
	return stdout.String(), nil
}

// Lines runs git with args and returns the non-empty output lines.
func (g *Git) Lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := g.Output(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// MergeBase returns the best common ancestor of HEAD and ref.
func (g *Git) MergeBase(ctx context.Context, ref string) (string, error) {
	out, err := g.Output(ctx, "merge-base", "HEAD", ref)
	if err != nil {
		return "", fmt.Errorf("git merge-base HEAD %s: %w", ref, err)
	}
	base := strings.TrimSpace(out)
	if base == "" {
		return "", fmt.Errorf("git merge-base HEAD %s: no common ancestor", ref)
	}
	return base, nil
}

// ChangedSince lists files that differ between commit and the working tree,
// restricted to ChangedFilter.
func (g *Git) ChangedSince(ctx context.Context, commit string) ([]string, error) {
	files, err := g.Lines(ctx, "diff", "--name-only", "--diff-filter="+ChangedFilter, commit)
	if err != nil {
		return nil, fmt.Errorf("git diff %s: %w", commit, err)
	}
	return files, nil
}

// Untracked lists untracked files that are not matched by ignore rules.
// Paths are relative to the repository root, like the diff listing.
func (g *Git) Untracked(ctx context.Context) ([]string, error) {
	files, err := g.Lines(ctx, "ls-files", "--others", "--exclude-standard", "--full-name")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return files, nil
}

// RepoMeta collects repository metadata from git.
func (g *Git) RepoMeta(ctx context.Context) (RepoMeta, error) {
	root, err := g.Output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := g.Output(ctx, "rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := g.Output(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// ExitCode reports the exit status of a failed git subprocess wrapped in err.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

func splitLines(out string) []string {
	lines := strings.Split(out, "\n")
	lines = lo.Map(lines, func(line string, _ int) string {
		return unquotePath(strings.TrimRight(line, "\r"))
	})
	return lo.Filter(lines, func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
}

// unquotePath decodes paths git prints C-quoted because of unusual bytes.
func unquotePath(p string) string {
	if len(p) >= 2 && strings.HasPrefix(p, "\"") && strings.HasSuffix(p, "\"") {
		if decoded, err := strconv.Unquote(p); err == nil {
			return decoded
		}
	}
	return p
}

// MatchesAny returns true if the path matches any of the given glob patterns.
// A pattern starting with "**/" also matches at the repository root.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// FilterPaths keeps the paths matching include (all when include is empty or
// "**/*") and drops the paths matching exclude.
func FilterPaths(paths, include, exclude []string) []string {
	include = lo.Filter(include, func(p string, _ int) bool { return p != "**/*" })
	return lo.Filter(paths, func(p string, _ int) bool {
		if len(include) > 0 && !MatchesAny(p, include) {
			return false
		}
		return !MatchesAny(p, exclude)
	})
}
