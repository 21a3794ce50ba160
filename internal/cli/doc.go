// Package cli wires together the Cobra command tree for the
// list-changed-files binary.
//
// The root command takes an optional reference, lists the changed and
// untracked files, and exits with git's own status when git fails. The
// config subcommands manage settings, the hook subcommands install a
// pre-commit hook that runs a command on the changed files, and version
// prints the version.
package cli
