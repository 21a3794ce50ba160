package changes

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/samber/lo"

	"github.com/dshills/changedfiles/internal/gitctx"
	"github.com/dshills/changedfiles/internal/logging"
)

// DefaultBranch is compared against when no reference is given.
const DefaultBranch = "master"

// Source provides the git queries the lister is built on.
type Source interface {
	MergeBase(ctx context.Context, ref string) (string, error)
	ChangedSince(ctx context.Context, commit string) ([]string, error)
	Untracked(ctx context.Context) ([]string, error)
}

// Options controls a Lister.
type Options struct {
	// Include keeps only paths matching one of these globs. Empty keeps all.
	Include []string
	// Exclude drops paths matching one of these globs.
	Exclude []string
	// IgnoreFile is an optional gitignore-style file whose patterns are
	// dropped from the result on top of git's own ignore rules.
	IgnoreFile string
	Logger     logging.Logger
}

// Lister computes changed file sets.
type Lister struct {
	src    Source
	opts   Options
	ignore *ignore.GitIgnore
	log    logging.Logger
}

// New returns a Lister reading from src. It fails only when the ignore file
// is set and cannot be read.
func New(src Source, opts Options) (*Lister, error) {
	l := &Lister{src: src, opts: opts, log: opts.Logger}
	if l.log == nil {
		l.log = logging.Nop()
	}
	if opts.IgnoreFile != "" {
		gi, err := ignore.CompileIgnoreFile(opts.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("reading ignore file %s: %w", opts.IgnoreFile, err)
		}
		l.ignore = gi
	}
	return l, nil
}

// List returns the paths changed since the merge base of HEAD and ref plus
// the untracked files. An empty ref means DefaultBranch. Any git failure
// aborts the whole operation.
func (l *Lister) List(ctx context.Context, ref string) (*set.Set[string], error) {
	if strings.TrimSpace(ref) == "" {
		ref = DefaultBranch
	}

	base, err := l.src.MergeBase(ctx, ref)
	if err != nil {
		return nil, err
	}
	l.log.Debug("merge base resolved", "ref", ref, "base", base)

	changed, err := l.src.ChangedSince(ctx, base)
	if err != nil {
		return nil, err
	}
	untracked, err := l.src.Untracked(ctx)
	if err != nil {
		return nil, err
	}
	l.log.Debug("git listings", "changed", len(changed), "untracked", len(untracked))

	files := set.New[string](len(changed) + len(untracked))
	for _, p := range l.filter(changed) {
		files.Insert(p)
	}
	for _, p := range l.filter(untracked) {
		files.Insert(p)
	}
	return files, nil
}

func (l *Lister) filter(paths []string) []string {
	paths = gitctx.FilterPaths(paths, l.opts.Include, l.opts.Exclude)
	if l.ignore == nil {
		return paths
	}
	return lo.Reject(paths, func(p string, _ int) bool {
		return l.ignore.MatchesPath(p)
	})
}

// Sorted returns the members of files in lexical order.
func Sorted(files *set.Set[string]) []string {
	if files == nil {
		return nil
	}
	paths := files.Slice()
	sort.Strings(paths)
	return paths
}

// RefFromArgs returns args[1], the first argument after the program name,
// or DefaultBranch when it is missing or empty. Flags are not parsed: in
// "prog --format json develop" the reference is "--format".
func RefFromArgs(args []string) string {
	if len(args) < 2 || args[1] == "" {
		return DefaultBranch
	}
	return args[1]
}

// List is the embedding entry point. The reference comes from os.Args and
// every git invocation is echoed to standard output before it runs.
func List() (*set.Set[string], error) {
	return ListWithEcho(context.Background(), os.Args, os.Stdout)
}

// ListWithEcho is List with explicit arguments and echo destination. A nil
// echo disables command echo.
func ListWithEcho(ctx context.Context, args []string, echo io.Writer) (*set.Set[string], error) {
	g := &gitctx.Git{Echo: echo}
	l, err := New(g, Options{})
	if err != nil {
		return nil, err
	}
	return l.List(ctx, RefFromArgs(args))
}
