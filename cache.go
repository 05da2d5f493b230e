package vg

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frankiebaffa/vg/internal/debug"
)

type cachedFile struct {
	hits    int
	content string
}

// CacheInfo is the path and hit count of one cached file.
type CacheInfo struct {
	// Path is the resolved filesystem path of the cached file.
	Path string
	// Hits is the number of times the entry was returned after its first
	// population.
	Hits int
}

// FileCache memoizes file reads for the parser.
//
// In enabled mode every path is read once and retrieved from the cache on
// subsequent references, with a hit counter incremented per reuse. In
// disabled mode every reference reads through to the filesystem and no state
// is retained. A cache may outlive a single compile and be reused across
// templates; it is not safe for concurrent use.
type FileCache struct {
	enabled bool
	files   map[string]*cachedFile
}

// NewFileCache constructs an enabled cache.
func NewFileCache() *FileCache {
	return &FileCache{enabled: true}
}

// NewDisabledFileCache constructs a disabled cache. All paths are read from
// file on every reference.
func NewDisabledFileCache() *FileCache {
	return &FileCache{enabled: false}
}

// Info returns the path and hit count for every item in the cache, ordered
// by path. Always empty when the cache is disabled.
func (c *FileCache) Info() []CacheInfo {
	if !c.enabled || c.files == nil {
		return nil
	}

	info := make([]CacheInfo, 0, len(c.files))
	for path, f := range c.files {
		info = append(info, CacheInfo{Path: path, Hits: f.hits})
	}

	sort.Slice(info, func(i, j int) bool {
		return info[i].Path < info[j].Path
	})

	return info
}

// Insert pre-seeds the cache with a path and file content. A no-op when the
// cache is disabled.
func (c *FileCache) Insert(path, content string) {
	if !c.enabled {
		return
	}
	if c.files == nil {
		c.files = make(map[string]*cachedFile)
	}
	c.files[path] = &cachedFile{content: content}
}

// readFile reads a regular file line by line, joining lines with a single
// newline. The trailing newline of the final line is not re-added.
func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", newNotAFileError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", newIOError(err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return strings.Join(lines, "\n"), nil
}

func (c *FileCache) get(path string) (string, error) {
	if !c.enabled {
		return readFile(path)
	}

	if c.files == nil {
		c.files = make(map[string]*cachedFile)
	}

	if f, ok := c.files[path]; ok {
		f.hits++
		debug.Debug("[cache] hit %s (%d)", path, f.hits)
		return f.content, nil
	}

	source, err := readFile(path)
	if err != nil {
		return "", err
	}

	debug.Debug("[cache] miss %s", path)
	c.files[path] = &cachedFile{content: source}
	return source, nil
}

// RebasePath reconciles a template-referenced path against the root path of
// the program and the current base path of the parser. An absolute path is
// rerooted under root with its leading segment dropped; a relative path is
// joined onto base. The result is returned uninterpreted: no symlink
// resolution, no existence check.
func RebasePath(root, base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Join(root, strings.TrimLeft(path, string(filepath.Separator)))
	}
	return filepath.Join(base, path)
}
