package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/changedfiles/internal/gitctx"
)

const (
	hookMarkerStart = "# >>> list-changed-files pre-commit hook >>>"
	hookMarkerEnd   = "# <<< list-changed-files pre-commit hook <<<"
)

var (
	hookRun  string
	hookBase string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage a git pre-commit hook that runs a command on changed files",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a pre-commit hook passing changed files to --run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(hookRun) == "" {
			return fmt.Errorf("--run is required")
		}
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = exitCodeFor(err)
			return nil
		}

		section := generateHookScript(hookRun, hookBase)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error creating hooks directory: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed list-changed-files pre-commit hook at %s\n", hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the list-changed-files pre-commit hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = exitCodeFor(err)
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pre-commit hook found.")
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		content := removeHookSection(string(existing))

		// If only the shebang remains, delete the file entirely
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing hook file: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed list-changed-files pre-commit hook at %s\n", hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed list-changed-files section from %s\n", hookPath)
		return nil
	},
}

// getHookPath asks git where the pre-commit hook lives, honoring core.hooksPath.
func getHookPath(ctx context.Context) (string, error) {
	out, err := gitctx.New(flagGit, "").Output(ctx, "rev-parse", "--git-path", "hooks/pre-commit")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// generateHookScript writes the NUL-separated change list to a temp file and
// feeds it to run. A failed listing blocks the commit; run is skipped when
// nothing changed.
func generateHookScript(run, base string) string {
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("LCF_FILES=$(mktemp) || exit 1\n")
	b.WriteString("list-changed-files --format null")
	if base != "" {
		b.WriteString(" " + shellQuote(base))
	}
	b.WriteString(" > \"$LCF_FILES\"\n")
	b.WriteString("LCF_EXIT=$?\n")
	b.WriteString("if [ $LCF_EXIT -ne 0 ]; then\n")
	b.WriteString("  rm -f \"$LCF_FILES\"\n")
	b.WriteString("  echo \"list-changed-files: listing changed files failed (exit $LCF_EXIT), commit blocked\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("fi\n")
	fmt.Fprintf(&b, "xargs -0 sh -c 'if [ \"$#\" -gt 0 ]; then exec %s \"$@\"; fi' list-changed-files < \"$LCF_FILES\"\n", escapeSingleQuoted(run))
	b.WriteString("LCF_EXIT=$?\n")
	b.WriteString("rm -f \"$LCF_FILES\"\n")
	b.WriteString("if [ $LCF_EXIT -ne 0 ]; then\n")
	b.WriteString("  echo \"list-changed-files: command failed on changed files (exit $LCF_EXIT), commit blocked\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func shellQuote(s string) string {
	return "'" + escapeSingleQuoted(s) + "'"
}

// escapeSingleQuoted makes s safe inside a single-quoted shell string.
func escapeSingleQuoted(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")

	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVar(&hookRun, "run", "", "Command to run with the changed files as arguments (e.g. \"gofmt -l\")")
	hookInstallCmd.Flags().StringVar(&hookBase, "base", "", "Reference to compare against (default: configured base)")
}
