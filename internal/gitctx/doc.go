// Package gitctx runs the git executable and parses its line-oriented output.
//
// It covers the three queries the changed-file lister needs: the merge base
// between HEAD and a reference, the names of files changed since a commit
// (deletions excluded), and untracked files not covered by ignore rules.
// Each invocation can be echoed to a writer before it runs.
//
// [MatchesAny] and [FilterPaths] apply doublestar include/exclude globs to
// the resulting path lists.
package gitctx
