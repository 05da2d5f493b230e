package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/frankiebaffa/vg/internal/deploy"
)

// Global flags shared by the vgc and vgd commands.
var (
	globalNoColor bool
	globalDebug   bool
)

// parseImplementations splits repeated key:value flags into a map. A missing
// value yields the empty string.
func parseImplementations(pairs []string) map[string]string {
	implementations := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, _ := strings.Cut(pair, ":")
		implementations[k] = v
	}
	return implementations
}

// parseCachedItems splits repeated path:content flags into cache seeds. The
// base directory is the path's parent when the path names a file on disk,
// matching how the engine rebases template references.
func parseCachedItems(pairs []string) []deploy.CachedItem {
	items := make([]deploy.CachedItem, 0, len(pairs))
	for _, pair := range pairs {
		path, content, _ := strings.Cut(pair, ":")

		base := path
		if info, err := os.Stat(base); err == nil && info.Mode().IsRegular() {
			base = filepath.Dir(base)
		}

		items = append(items, deploy.CachedItem{Base: base, Path: path, Content: content})
	}
	return items
}
