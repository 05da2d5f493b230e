package deploy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/frankiebaffa/vg"
	"github.com/frankiebaffa/vg/internal/debug"
)

// CachedItem is a faux page pre-seeded into the file cache before a run.
type CachedItem struct {
	// Base is the base directory the path is rebased against.
	Base string
	// Path is the path as referenced by templates.
	Path string
	// Content is the faux file content.
	Content string
}

// RunOptions control one deployment run.
type RunOptions struct {
	// Implementations are global variable implementations. Per-action ones
	// override them.
	Implementations map[string]string
	// CachedItems are faux pages seeded into every run's cache.
	CachedItems []CachedItem
	// NoCache disables the file cache.
	NoCache bool
	// Verbose prints a line per action to Out.
	Verbose bool
	// Timing records per-run wall-clock compile time.
	Timing bool
	// Benchmark repeats the action list this many times. Zero means one run.
	Benchmark int
	// CacheInfo captures per-file cache hit counts from the first run.
	CacheInfo bool
	// Out receives verbose output. Defaults to os.Stdout.
	Out io.Writer
}

// Report is the outcome of a deployment run.
type Report struct {
	// Runs holds the compile seconds of each run, when timing was requested.
	Runs []float64
	// CacheDetails holds per-file hit counts, when cache info was requested.
	CacheDetails []vg.CacheInfo
}

// Run executes the configured action list. With a benchmark count the list
// runs repeatedly against a fresh cache per run.
func Run(cfg *Actions, opts RunOptions) (*Report, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	report := &Report{}

	runs := opts.Benchmark
	if runs < 1 {
		runs = 1
	}

	for run := 0; run < runs; run++ {
		var cache *vg.FileCache
		if opts.NoCache {
			cache = vg.NewDisabledFileCache()
		} else {
			cache = vg.NewFileCache()
		}

		for _, item := range opts.CachedItems {
			path := vg.RebasePath(cfg.Root, item.Base, item.Path)
			cache.Insert(path, item.Content)
		}

		var dur time.Duration

		for _, action := range cfg.Actions {
			var err error

			switch {
			case action.CompileFile != nil:
				err = compileFile(cfg.Root, action.CompileFile, opts, cache, &dur, out)
			case action.CompileDirectory != nil:
				err = compileDirectory(cfg.Root, action.CompileDirectory, opts, cache, &dur, out)
			case action.CopyFile != nil:
				err = copyFile(action.CopyFile, opts, out)
			case action.CopyDirectory != nil:
				err = copyDirectory(action.CopyDirectory, opts, out)
			}

			if err != nil {
				return nil, err
			}
		}

		if opts.Timing {
			report.Runs = append(report.Runs, dur.Seconds())
		}

		if opts.CacheInfo && report.CacheDetails == nil {
			report.CacheDetails = cache.Info()
		}
	}

	return report, nil
}

func vprintf(verbose bool, out io.Writer, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(out, format+"\n", args...)
	}
}

// mergeImplementations overlays local implementations onto the global ones.
func mergeImplementations(global, local map[string]string) map[string]string {
	merged := make(map[string]string, len(global)+len(local))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range local {
		merged[k] = v
	}
	return merged
}

// handleIgnored applies the delete-if-ignored policy for a skipped source.
func handleIgnored(source, destination string, deleteStale bool, opts RunOptions, out io.Writer) error {
	if !deleteStale {
		vprintf(opts.Verbose, out, "%q is ignored", source)
		return nil
	}

	if info, err := os.Stat(destination); err != nil || !info.Mode().IsRegular() {
		vprintf(opts.Verbose, out,
			"%q is ignored, but destination does not yet exist for deletion", source)
		return nil
	}

	if err := os.Remove(destination); err != nil {
		return NewActionError("failed to delete ignored destination "+destination, err)
	}

	vprintf(opts.Verbose, out, "%q is ignored and %q was deleted", source, destination)
	return nil
}

func compileFile(root string, cfo *CompileFileOptions, opts RunOptions, cache *vg.FileCache, dur *time.Duration, out io.Writer) error {
	vprintf(opts.Verbose, out, "Compiling %q to %q", cfo.Source, cfo.Destination)

	if err := os.MkdirAll(filepath.Dir(cfo.Destination), 0o755); err != nil {
		return NewActionError("failed to create destination directory", err)
	}

	implementations := mergeImplementations(opts.Implementations, cfo.Implementations)

	start := time.Now()
	source, err := vg.CompileImplementedWithCache(root, cfo.Source, implementations, cache)
	if err != nil {
		if vg.IsIgnored(err) {
			return handleIgnored(cfo.Source, cfo.Destination, deleteIfIgnored(cfo.DeleteIfIgnored), opts, out)
		}
		return NewActionError("failed to compile "+cfo.Source, err)
	}
	*dur += time.Since(start)

	if err := os.WriteFile(cfo.Destination, []byte(source), 0o644); err != nil {
		return NewActionError("failed to write "+cfo.Destination, err)
	}

	return nil
}

func compileDirectory(root string, cdo *CompileDirectoryOptions, opts RunOptions, cache *vg.FileCache, dur *time.Duration, out io.Writer) error {
	source := cdo.Source
	destination := cdo.Destination

	vprintf(opts.Verbose, out,
		"Compiling all files in %q with extension %s to %q with %s.",
		source.Directory, source.Extension,
		destination.Directory, destination.Extension)

	if err := os.MkdirAll(destination.Directory, 0o755); err != nil {
		return NewActionError("failed to create destination directory", err)
	}

	entries, err := os.ReadDir(source.Directory)
	if err != nil {
		return NewActionError("failed to read "+source.Directory, err)
	}

	for _, entry := range entries {
		path := filepath.Join(source.Directory, entry.Name())

		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if ext == "" || ext != source.Extension {
			continue
		}

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		implementations := mergeImplementations(opts.Implementations, source.Implementations)

		dest := filepath.Join(destination.Directory, swapExtension(entry.Name(), destination.Extension))

		start := time.Now()
		compiled, err := vg.CompileImplementedWithCache(root, path, implementations, cache)
		if err != nil {
			if vg.IsIgnored(err) {
				if err := handleIgnored(path, dest, deleteIfIgnored(destination.DeleteIfIgnored), opts, out); err != nil {
					return err
				}
				continue
			}
			return NewActionError("failed to compile "+path, err)
		}
		*dur += time.Since(start)

		if err := os.WriteFile(dest, []byte(compiled), 0o644); err != nil {
			return NewActionError("failed to write "+dest, err)
		}
	}

	return nil
}

// swapExtension replaces a filename's extension, or strips it when the
// replacement is empty.
func swapExtension(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func copyFile(cfo *CopyFileOptions, opts RunOptions, out io.Writer) error {
	vprintf(opts.Verbose, out, "Copying %q to %q", cfo.Source, cfo.Destination)

	if err := os.MkdirAll(filepath.Dir(cfo.Destination), 0o755); err != nil {
		return NewActionError("failed to create destination directory", err)
	}

	return copyBytes(cfo.Source, cfo.Destination)
}

func copyDirectory(cdo *CopyDirectoryOptions, opts RunOptions, out io.Writer) error {
	if cdo.Extension != nil {
		vprintf(opts.Verbose, out,
			"Copying all files from %q with extension %s to %q",
			cdo.Source, *cdo.Extension, cdo.Destination)
	} else {
		vprintf(opts.Verbose, out, "Copying all files from %q to %q", cdo.Source, cdo.Destination)
	}

	return copyAllTo(cdo.Source, cdo.Destination, cdo.Extension, cdo.Ignore, "")
}

// copyAllTo recursively copies src into dst, filtered by extension and by
// ignore globs matched against the slash path relative to the copy root.
func copyAllTo(src, dst string, ext *string, ignore []string, rel string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return NewActionError("failed to create "+dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return NewActionError("failed to read "+src, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(src, name)

		entryRel := name
		if rel != "" {
			entryRel = rel + "/" + name
		}

		if matchesIgnore(entryRel, ignore) {
			debug.Debug("[deploy] ignoring %s", entryRel)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return NewActionError("failed to stat "+path, err)
		}

		switch {
		case info.Mode().IsRegular():
			if !extensionMatches(name, ext) {
				continue
			}
			if err := copyBytes(path, filepath.Join(dst, name)); err != nil {
				return err
			}
		case info.IsDir():
			if err := copyAllTo(path, filepath.Join(dst, name), ext, ignore, entryRel); err != nil {
				return err
			}
		}
	}

	return nil
}

// extensionMatches applies the original filter rules: a nil filter passes
// everything, an empty filter passes only extensionless files.
func extensionMatches(name string, ext *string) bool {
	if ext == nil {
		return true
	}

	fileExt := strings.TrimPrefix(filepath.Ext(name), ".")
	return fileExt == *ext
}

func matchesIgnore(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func copyBytes(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return NewActionError("failed to open "+src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return NewActionError("failed to create "+dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return NewActionError("failed to copy "+src, err)
	}

	return out.Close()
}
