package vg

import blackfriday "gopkg.in/russross/blackfriday.v2"

// Markdown renders a markdown string to HTML. It is invoked for the `md`
// filter, for `include md`, and for `include raw md`. The default renders
// through blackfriday; callers may swap in their own renderer before
// compiling.
var Markdown = func(source string) string {
	return string(blackfriday.Run([]byte(source)))
}
