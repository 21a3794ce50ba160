// List-changed-files prints the files changed relative to a reference branch.
//
// It combines the files that differ between the merge base of HEAD and the
// reference and the working tree with untracked, non-ignored files. Deleted
// files are never listed, so the output can be fed straight to linters.
//
// Usage:
//
//	list-changed-files                  # compare against master
//	list-changed-files origin/main      # compare against another reference
//	list-changed-files --echo develop   # print each git command first
//	list-changed-files --format null | xargs -0 gofmt -l
//
// A reference that shares a name with a subcommand (config, hook, version,
// help) must come after "--" or be passed with --base:
//
//	list-changed-files -- version
//	list-changed-files --base version
//
// A git failure (unknown reference, not a repository) exits with git's own
// status and prints nothing on stdout.
package main
