package vg

import "testing"

// TestForOverDirectory tests iteration over a directory's immediate file
// children.
func TestForOverDirectory(t *testing.T) {
	files := map[string]string{
		"items/a": "A\n",
		"items/b": "B\n",
		"items/c": "C\n",
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "default name sort",
			template: "{% for it in \"items\" %}{{ it }}{% endfor %}\n",
			expected: "ABC",
		},
		{
			name:     "explicit name sort",
			template: "{% for it in \"items\" | name %}{{ it }}{% endfor %}\n",
			expected: "ABC",
		},
		{
			name:     "reversed name sort",
			template: "{% for it in \"items\" | !name %}{{ it }}{% endfor %}\n",
			expected: "CBA",
		},
		{
			name:     "loop position and size",
			template: "{% for it in \"items\" %}{{ loop.position }}/{{ loop.size }};{% endfor %}\n",
			expected: "1/3;2/3;3/3;",
		},
		{
			name:     "loop index and max",
			template: "{% for it in \"items\" %}{{ loop.index }}-{{ loop.max }} {% endfor %}\n",
			expected: "0-2 1-2 2-2 ",
		},
		{
			name:     "loop first is present only at index zero",
			template: "{% for it in \"items\" %}{% if loop.first %}[{% endif %}{{ it }}{% if loop.last %}]{% endif %}{% endfor %}\n",
			expected: "[ABC]",
		},
		{
			name:     "loop names the bound variable",
			template: "{% for it in \"items\" %}{% if loop.first %}{{ loop }}{% endif %}{% endfor %}\n",
			expected: "it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := map[string]string{"template.jinja": tt.template}
			for k, v := range files {
				all[k] = v
			}

			output, err := compileTree(t, all, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

// TestForItemImplementations tests that blocks defined by an item file are
// visible under the loop variable's prefix.
func TestForItemImplementations(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% for post in \"posts\" %}{{ post.title }}:{{ post | trim }};{% endfor %}\n",
		"posts/one":      "{% block title %}First{% endblock %}body one\n",
		"posts/two":      "{% block title %}Second{% endblock %}body two\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "First:body one;Second:body two;" {
		t.Errorf("got %q", output)
	}
}

// TestForOverSingleFile tests that a file path iterates a single-element
// list without loop metadata.
func TestForOverSingleFile(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% for it in \"one.jinja\" %}<{{ it }}>{% if loop.first %}!{% endif %}{% endfor %}\n",
		"one.jinja":      "only\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "<only>" {
		t.Errorf("got %q", output)
	}
}

// TestForElseArm tests the else arm for missing and empty collections.
func TestForElseArm(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "missing path renders else",
			template: "{% for it in \"absent\" %}{{ it }}{% else %}none{% endfor %}\n",
			expected: "none",
		},
		{
			name:     "missing path without else renders nothing",
			template: "[{% for it in \"absent\" %}{{ it }}{% endfor %}]\n",
			expected: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := compileTree(t, map[string]string{"template.jinja": tt.template}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

// TestForIgnoredItem tests that an ignored item is skipped and that the loop
// metadata of later iterations no longer counts it.
func TestForIgnoredItem(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% for it in \"items\" %}{{ it }}{{ loop.position }}/{{ loop.size }};{% endfor %}\n",
		"items/a":        "A\n",
		"items/b":        "{% ignore %}B\n",
		"items/c":        "C\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the first iteration ran before the ignore was discovered, so it still
	// reports the raw size; later iterations see the reduced denominator
	if output != "A1/3;C2/2;" {
		t.Errorf("got %q", output)
	}
}

// TestForNestedLoops tests an inner loop inside an outer loop's body.
func TestForNestedLoops(t *testing.T) {
	output, err := compileTree(t, map[string]string{
		"template.jinja": "{% for outer in \"rows\" %}{% for inner in \"cols\" %}{{ outer | trim }}{{ inner | trim }} {% endfor %}{% endfor %}\n",
		"rows/1":         "r1\n",
		"rows/2":         "r2\n",
		"cols/x":         "cx\n",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "r1cx r2cx " {
		t.Errorf("got %q", output)
	}
}
