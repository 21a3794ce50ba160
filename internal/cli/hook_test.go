package cli

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateHookScript(t *testing.T) {
	script := generateHookScript("gofmt -l", "master")

	if !strings.Contains(script, hookMarkerStart) {
		t.Error("Script missing start marker")
	}
	if !strings.Contains(script, hookMarkerEnd) {
		t.Error("Script missing end marker")
	}
	if !strings.Contains(script, "list-changed-files --format null 'master' > \"$LCF_FILES\"") {
		t.Errorf("Script missing listing pipeline:\n%s", script)
	}
	if !strings.Contains(script, "exec gofmt -l \"$@\"") {
		t.Errorf("Script missing run command:\n%s", script)
	}
	if !strings.Contains(script, "LCF_EXIT=$?") {
		t.Error("Script missing exit code capture")
	}
	if !strings.Contains(script, "exit 1") {
		t.Error("Script missing exit 1 on failure")
	}
}

func TestGenerateHookScript_NoBase(t *testing.T) {
	script := generateHookScript("eslint", "")
	if !strings.Contains(script, "list-changed-files --format null > \"$LCF_FILES\"") {
		t.Errorf("Script should use the configured base:\n%s", script)
	}
}

func TestGenerateHookScript_QuotesBase(t *testing.T) {
	script := generateHookScript("eslint", "it's")
	if !strings.Contains(script, `'it'\''s'`) {
		t.Errorf("base not shell-quoted:\n%s", script)
	}
}

// runHookSection runs the generated section under sh with a stub
// list-changed-files on PATH and returns the exit code and combined output.
func runHookSection(t *testing.T, stub, run string) (int, string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}
	bin := t.TempDir()
	if err := os.WriteFile(filepath.Join(bin, "list-changed-files"), []byte("#!/bin/sh\n"+stub), 0o755); err != nil {
		t.Fatal(err)
	}
	hook := filepath.Join(t.TempDir(), "pre-commit")
	if err := os.WriteFile(hook, []byte("#!/bin/sh\n"+generateHookScript(run, "nosuch")), 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command("sh", hook)
	cmd.Env = append(os.Environ(), "PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), string(out)
	}
	if err != nil {
		t.Fatalf("running hook: %v", err)
	}
	return 0, string(out)
}

func TestHookScript_ListingFailureBlocksCommit(t *testing.T) {
	code, out := runHookSection(t, "echo 'fatal: Not a valid object name nosuch' >&2\nexit 128\n", "true")
	if code == 0 {
		t.Fatalf("hook should fail when listing fails, output:\n%s", out)
	}
	if !strings.Contains(out, "exit 128") {
		t.Errorf("output = %q, want the listing's exit status", out)
	}
}

func TestHookScript_PassesChangedFiles(t *testing.T) {
	code, out := runHookSection(t, "printf 'a.go\\0b c.go\\0'\n", "echo got")
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "got a.go b c.go") {
		t.Errorf("output = %q, want both files passed to the command", out)
	}
}

func TestHookScript_CommandFailureBlocksCommit(t *testing.T) {
	code, out := runHookSection(t, "printf 'a.go\\0'\n", "false")
	if code == 0 {
		t.Fatalf("hook should fail when the command fails, output:\n%s", out)
	}
	if !strings.Contains(out, "command failed") {
		t.Errorf("output = %q", out)
	}
}

func TestHookScript_NoChangesSkipsCommand(t *testing.T) {
	code, out := runHookSection(t, "exit 0\n", "false")
	if code != 0 {
		t.Errorf("exit code = %d, want 0 when nothing changed, output:\n%s", code, out)
	}
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := generateHookScript("gofmt -l", "")

	result := replaceHookSection(existing, section)

	if !strings.HasPrefix(result, "#!/bin/sh\nsome-other-hook\n") {
		t.Error("Existing content should be preserved")
	}
	if !strings.Contains(result, hookMarkerStart) {
		t.Error("New section should be appended")
	}
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	oldSection := generateHookScript("gofmt -l", "")
	existing := "#!/bin/sh\nbefore\n" + oldSection + "after\n"
	newSection := generateHookScript("eslint --fix", "")

	result := replaceHookSection(existing, newSection)

	if !strings.Contains(result, "before") || !strings.Contains(result, "after") {
		t.Error("Content around the section should be preserved")
	}
	if !strings.Contains(result, "eslint --fix") {
		t.Error("New section should have the new command")
	}
	if strings.Contains(result, "gofmt -l") {
		t.Error("Old section should be replaced")
	}
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	result := replaceHookSection(existing, generateHookScript("gofmt -l", ""))

	if !strings.Contains(result, "some-hook\n"+hookMarkerStart) {
		t.Errorf("Section should be appended on a new line:\n%s", result)
	}
}

func TestRemoveHookSection(t *testing.T) {
	section := generateHookScript("gofmt -l", "")
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing)

	if strings.Contains(result, hookMarkerStart) {
		t.Error("Section should be removed")
	}
	if result != "#!/bin/sh\nbefore\nafter\n" {
		t.Errorf("result = %q", result)
	}
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	if removeHookSection(existing) != existing {
		t.Error("Content without the section should be unchanged")
	}
}

func TestHookInstallAndUninstall(t *testing.T) {
	isolate(t)
	dir, _ := setupRepo(t)
	hookPath := filepath.Join(dir, ".git", "hooks", "pre-commit")

	code, stdout, stderr := runCLI(t, "hook", "install", "--run", "gofmt -l", "--base", "master")
	if code != ExitSuccess {
		t.Fatalf("hook install exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "Installed") {
		t.Errorf("stdout = %q", stdout)
	}
	data, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("hook not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "#!/bin/sh\n"+hookMarkerStart) {
		t.Errorf("hook content = %q", data)
	}

	code, stdout, _ = runCLI(t, "hook", "uninstall")
	if code != ExitSuccess {
		t.Fatalf("hook uninstall exit code = %d", code)
	}
	if !strings.Contains(stdout, "Removed") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(hookPath); !os.IsNotExist(err) {
		t.Error("hook file should be deleted when only the shebang remains")
	}
}

func TestHookInstall_RequiresRun(t *testing.T) {
	isolate(t)
	code, _, stderr := runCLI(t, "hook", "install")
	if code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
	if !strings.Contains(stderr, "--run") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestHookUninstall_NoHook(t *testing.T) {
	isolate(t)
	setupRepo(t)

	code, stdout, _ := runCLI(t, "hook", "uninstall")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "No pre-commit hook found") {
		t.Errorf("stdout = %q", stdout)
	}
}
