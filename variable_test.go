package vg

import "testing"

// TestVariableDirective tests {{ name }} substitution and lookup behavior.
func TestVariableDirective(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		implementations map[string]string
		expected        string
	}{
		{
			name:            "simple substitution",
			input:           "Hello, {{ name }}!\n",
			implementations: map[string]string{"name": "World"},
			expected:        "Hello, World!",
		},
		{
			name:            "dotted name",
			input:           "{{ site.title }}\n",
			implementations: map[string]string{"site.title": "vg"},
			expected:        "vg",
		},
		{
			name:            "missing non-nullable emits source",
			input:           "{{ x }}\n",
			implementations: nil,
			expected:        "{{ x }}",
		},
		{
			name:            "missing nullable emits nothing",
			input:           "[{{ y? }}]\n",
			implementations: nil,
			expected:        "[]",
		},
		{
			name:            "present nullable emits value",
			input:           "[{{ y? }}]\n",
			implementations: map[string]string{"y": "val"},
			expected:        "[val]",
		},
		{
			name:            "empty value exists",
			input:           "[{{ x }}]\n",
			implementations: map[string]string{"x": ""},
			expected:        "[]",
		},
		{
			name:            "tight delimiters",
			input:           "{{name}}\n",
			implementations: map[string]string{"name": "v"},
			expected:        "v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := compileTree(t, map[string]string{"template.jinja": tt.input}, tt.implementations)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

// TestVariableFilters tests the filter pipeline.
func TestVariableFilters(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		implementations map[string]string
		expected        string
	}{
		{
			name:            "upper",
			input:           "{{ msg | upper }}\n",
			implementations: map[string]string{"msg": "hi"},
			expected:        "HI",
		},
		{
			name:            "lower",
			input:           "{{ msg | lower }}\n",
			implementations: map[string]string{"msg": "HI"},
			expected:        "hi",
		},
		{
			name:            "trim",
			input:           "[{{ msg | trim }}]\n",
			implementations: map[string]string{"msg": "  padded  "},
			expected:        "[padded]",
		},
		{
			name:            "trimstart",
			input:           "[{{ msg | trimstart }}]\n",
			implementations: map[string]string{"msg": "  padded  "},
			expected:        "[padded  ]",
		},
		{
			name:            "trimend",
			input:           "[{{ msg | trimend }}]\n",
			implementations: map[string]string{"msg": "  padded  "},
			expected:        "[  padded]",
		},
		{
			name:            "flatten",
			input:           "{{ msg | flatten }}\n",
			implementations: map[string]string{"msg": "a\nb\nc"},
			expected:        "a b c",
		},
		{
			name:            "detab",
			input:           "{{ msg | detab }}\n",
			implementations: map[string]string{"msg": "a\tb\tc"},
			expected:        "abc",
		},
		{
			name:            "replace",
			input:           "{{ msg | replace \"o\" \"0\" }}\n",
			implementations: map[string]string{"msg": "foo bot"},
			expected:        "f00 b0t",
		},
		{
			name:            "replace with empty",
			input:           "{{ msg | replace \"-\" \"\" }}\n",
			implementations: map[string]string{"msg": "a-b-c"},
			expected:        "abc",
		},
		{
			name:            "chained filters apply in order",
			input:           "{{ msg | trim | upper | replace \"L\" \"7\" }}\n",
			implementations: map[string]string{"msg": " hello "},
			expected:        "HE77O",
		},
		{
			name:            "upper is idempotent",
			input:           "{{ msg | upper | upper }}\n",
			implementations: map[string]string{"msg": "hi"},
			expected:        "HI",
		},
		{
			name:            "trim is idempotent",
			input:           "[{{ msg | trim | trim }}]\n",
			implementations: map[string]string{"msg": " x "},
			expected:        "[x]",
		},
		{
			name:            "flatten is idempotent",
			input:           "{{ msg | flatten | flatten }}\n",
			implementations: map[string]string{"msg": "a\nb"},
			expected:        "a b",
		},
		{
			name:            "replace with empty needle is literal",
			input:           "{{ msg | replace \"\" \"x\" }}\n",
			implementations: map[string]string{"msg": "v"},
			expected:        "{{ msg | replace \"\" \"x\" }}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := compileTree(t, map[string]string{"template.jinja": tt.input}, tt.implementations)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

// TestMarkdownFilter tests the md filter against a stubbed renderer.
func TestMarkdownFilter(t *testing.T) {
	original := Markdown
	Markdown = func(s string) string { return "<md>" + s + "</md>" }
	defer func() { Markdown = original }()

	output, err := compileTree(t, map[string]string{
		"template.jinja": "{{ msg | md }}\n",
	}, map[string]string{"msg": "body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "<md>body</md>" {
		t.Errorf("got %q", output)
	}
}

// TestDefaultMarkdownRenderer sanity-checks the blackfriday wiring.
func TestDefaultMarkdownRenderer(t *testing.T) {
	rendered := Markdown("plain")
	if rendered == "" {
		t.Fatal("expected rendered output")
	}
}
