// Package changes lists the files changed relative to a reference branch.
//
// The result combines files that differ between the merge base of HEAD and
// the reference and the working tree (deletions excluded) with untracked,
// non-ignored files, collapsed into a set.
//
// [Lister] is the programmatic API. [List] is the embedding entry point: it
// takes the reference from the process arguments and echoes every git
// invocation to standard output.
package changes
