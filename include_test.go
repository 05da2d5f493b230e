package vg

import (
	"path/filepath"
	"testing"
)

// TestIncludeTemplate tests parsed inclusion in a child scope.
func TestIncludeTemplate(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "start {% include \"part.jinja\" %} end\n",
		"part.jinja":     "middle {{ word }}\n",
	}, map[string]string{"word": "here"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "start middle here end" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeRaw tests verbatim injection: directives in the includee are
// not evaluated.
func TestIncludeRaw(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% include raw \"part.jinja\" %}\n",
		"part.jinja":     "{{ word }}\n",
	}, map[string]string{"word": "here"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "{{ word }}" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeAs tests that an as-bound include lands in implementations
// under the bound name instead of being appended.
func TestIncludeAs(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "[{% include \"item.jinja\" as item %}]{{ item.title }}/{{ item }}\n",
		"item.jinja":     "{% block title %}T{% endblock %}body\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "[]T/body" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeAsWithRawIsLiteral tests that as is forbidden with raw.
func TestIncludeAsWithRawIsLiteral(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% include raw \"part.jinja\" as x %}\n",
		"part.jinja":     "p\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "{% include raw \"part.jinja\" as x %}" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeMarkdown tests markdown post-processing of included content.
func TestIncludeMarkdown(t *testing.T) {
	original := Markdown
	Markdown = func(s string) string { return "<md>" + s + "</md>" }
	defer func() { Markdown = original }()

	tests := []struct {
		name     string
		files    map[string]string
		expected string
	}{
		{
			name: "include md parses then renders",
			files: map[string]string{
				"template.jinja": "{% include md \"part.jinja\" %}\n",
				"part.jinja":     "{{ word }}\n",
			},
			expected: "<md>w</md>",
		},
		{
			name: "include raw md renders the file bytes",
			files: map[string]string{
				"template.jinja": "{% include raw md \"part.jinja\" %}\n",
				"part.jinja":     "{{ word }}\n",
			},
			expected: "<md>{{ word }}</md>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := compileTree(t, tt.files, map[string]string{"word": "w"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

// TestIncludeRelativePaths tests that an includee's own directory governs
// its relative references and that absolute paths reroot at the root.
func TestIncludeRelativePaths(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja":       "{% include \"sub/outer.jinja\" %}\n",
		"sub/outer.jinja":      "{% include \"inner.jinja\" %}+{% include \"/top.jinja\" %}\n",
		"sub/inner.jinja":      "inner\n",
		"top.jinja":            "top\n",
		"sub/top.jinja":        "wrong\n",
		"sub/template.jinja":   "wrong\n",
		"sub/sub/inner.jinja":  "wrong\n",
		"sub/sub/outer.jinja":  "wrong\n",
		"sub/sub/top.jinja":    "wrong\n",
		"sub/sub/wrong.jinja":  "wrong\n",
		"sub/unrelated.jinja":  "wrong\n",
		"unrelated/deep.jinja": "wrong\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "inner+top" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeIgnoredFile tests that an ignored includee contributes nothing
// and does not abort the includer.
func TestIncludeIgnoredFile(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "a{% include \"skip.jinja\" %}b\n",
		"skip.jinja":     "{% ignore %}hidden\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "ab" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeVariablePath tests a {{ ... }} expression as the include path.
func TestIncludeVariablePath(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% include \"{{ which }}\" %}\n",
		"chosen.jinja":   "chosen\n",
	}, map[string]string{"which": "./chosen.jinja"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "chosen" {
		t.Errorf("got %q", output)
	}
}

// TestIncludeHidesExtends tests that a queued extends in the caller is not
// chained by the includee's parse.
func TestIncludeHidesExtends(t *testing.T) {
	root := writeTree(t, map[string]string{
		"page.jinja":   "{% extends \"layout.jinja\" %}{% block b %}{% include \"part.jinja\" %}{% endblock %}",
		"layout.jinja": "<{{ b }}>\n",
		"part.jinja":   "part\n",
	})

	output, err := Compile(root, filepath.Join(root, "page.jinja"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "<part>" {
		t.Errorf("got %q", output)
	}
}

// TestIncludePreseededCache tests the faux-page contract: a pre-seeded cache
// entry satisfies an include without touching the filesystem.
func TestIncludePreseededCache(t *testing.T) {
	root := writeTree(t, map[string]string{
		"template.jinja": "{% include \"/faux.jinja\" %}\n",
	})

	cache := NewFileCache()
	cache.Insert(RebasePath(root, "/", "/faux.jinja"), "from cache")

	output, err := CompileWithCache(root, filepath.Join(root, "template.jinja"), cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "from cache" {
		t.Errorf("got %q", output)
	}
}
