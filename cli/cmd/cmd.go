package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type (
	contextKey    struct{}
	outputKey     struct{}
	searchPathKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOutput returns a new context.Context that directs command results to o.
func WithOutput(ctx context.Context, o Output) context.Context {
	return context.WithValue(ctx, outputKey{}, o)
}

// outputFrom returns the Output stored by WithOutput, or native output on
// stdout if none was stored.
func outputFrom(ctx context.Context) Output {
	o, ok := ctx.Value(outputKey{}).(Output)
	if !ok {
		o = Output{}
	}

	if o.W == nil {
		o.W = os.Stdout
	}

	return o
}

// WithSearchPath returns a new context.Context containing the directories
// searched for script files that are not found relative to the working
// directory.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// script is one opened source file.
type script struct {
	io.Reader

	name  string
	close func() error
}

func (s script) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openScripts opens every named script in argument order.
//
// Names that do not exist relative to the working directory are looked up
// in each directory of search. Duplicates are detected by resolving symlinks
// and comparing device/inode pairs; only the first occurrence is kept. All
// occurrences of "-" collapse into a single stdin script placed last.
//
// A name that cannot be found returns ErrScriptNotFound after closing every
// script already opened.
func openScripts(names, search []string) ([]script, error) {
	scripts := make([]script, 0, len(names))
	seen := make(map[fileKey]struct{})
	stdin := false

	closeAll := func() {
		for _, s := range scripts {
			_ = s.Close()
		}
	}

	for _, name := range names {
		if name == stdinSource {
			stdin = true

			continue
		}

		path, ok := locate(name, search)
		if !ok {
			closeAll()

			return nil, ErrScriptNotFound.With(scriptAttr(name))
		}

		s, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeAll()

			return nil, ErrOpenScript.With(scriptAttr(name)).Wrap(err)
		}

		if ok {
			s.name = name
			scripts = append(scripts, s)
		}
	}

	if stdin {
		scripts = append(scripts, script{Reader: os.Stdin, name: stdinSource})
	}

	return scripts, nil
}

// locate returns the path of name, trying it as given and then joined with
// each search directory. Absolute names are never searched.
func locate(name string, search []string) (string, bool) {
	if _, err := os.Stat(name); err == nil {
		return name, true
	}

	if filepath.IsAbs(name) {
		return "", false
	}

	for _, dir := range search {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It reports false without error when path duplicates an earlier file.
func openUniqueFile(path string, seen map[fileKey]struct{}) (script, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return script{}, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return script{}, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return script{}, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return script{}, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return script{}, false, err
	}

	return script{Reader: file, close: file.Close}, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
