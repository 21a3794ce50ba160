// Package output writes changed-file lists for display or machine consumption.
//
// Three formats are supported:
//   - text: one path per line (default)
//   - json: a JSON array of paths
//   - null: each path terminated by a NUL byte, for xargs -0
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WritePaths] to handle destination selection as well.
package output
