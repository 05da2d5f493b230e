// Package vg is the core of the Very Good Templating Engine: a recursive,
// streaming compiler that reads a root template from disk and produces a
// fully materialized string, resolving directives for variable substitution,
// conditional rendering, iteration over filesystem directories, block
// definition, template inheritance, raw and template inclusion, ignoring,
// and escaping.
//
// Templates are plain text files interleaving literal text and directives
// delimited by {{ ... }}, {% ... %}, and {# ... #}. A malformed directive is
// never an error: its source bytes appear verbatim in the output.
//
// A compile is strictly single-threaded and recursive; its stack depth is
// bounded by include, extends, and for nesting. Callers compiling untrusted
// templates should bound input size and nesting externally.
package vg

import "github.com/frankiebaffa/vg/internal/debug"

// Compile compiles a template with caching enabled.
//
// root is the root directory of the compilation; path is the template.
func Compile(root, path string) (string, error) {
	cache := NewFileCache()
	return CompileWithCache(root, path, cache)
}

// CompileNoCache compiles a template with caching disabled.
func CompileNoCache(root, path string) (string, error) {
	cache := NewDisabledFileCache()
	return CompileWithCache(root, path, cache)
}

// CompileWithCache compiles a template with the given caching mechanism. The
// cache may be pre-seeded with Insert and reused across compiles.
func CompileWithCache(root, path string, cache *FileCache) (string, error) {
	return CompileImplementedWithCache(root, path, nil, cache)
}

// CompileImplemented compiles a template with caching enabled and the given
// variable implementations pre-seeded.
func CompileImplemented(root, path string, implementations map[string]string) (string, error) {
	cache := NewFileCache()
	return CompileImplementedWithCache(root, path, implementations, cache)
}

// CompileImplementedNoCache compiles a template with caching disabled and
// the given variable implementations pre-seeded.
func CompileImplementedNoCache(root, path string, implementations map[string]string) (string, error) {
	cache := NewDisabledFileCache()
	return CompileImplementedWithCache(root, path, implementations, cache)
}

// CompileImplementedWithCache compiles a template with the given variable
// implementations and caching mechanism. This is the canonical entry point;
// every other Compile variant delegates here.
func CompileImplementedWithCache(root, path string, implementations map[string]string, cache *FileCache) (string, error) {
	debug.Debug("[vg] compiling %s under root %s", path, root)

	parser, err := parserFromFile(root, path, cache)
	if err != nil {
		return "", err
	}

	ctx := newContext(parser.baseDir)

	for k, v := range implementations {
		ctx.implementations[k] = v
	}

	if err := parser.parse(ctx, cache); err != nil {
		return "", err
	}

	return ctx.output, nil
}
