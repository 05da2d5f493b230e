package vg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/frankiebaffa/vg/internal/debug"
)

const (
	tagOpen  = "{%"
	tagClose = "%}"

	variableOpen  = "{{"
	variableClose = "}}"

	commentOpen  = "{#"
	commentClose = "#}"

	pathDelim = "\""

	pipe = "|"
)

var escapes = [...]string{"\\{", "\\}", "\\%", "\\#"}

// keywords are matched by prefix, so the end* variants must precede their
// openers.
var keywords = [...]string{
	"else",
	"endfor",
	"endif",
	"endblock",
	"extends",
	"for",
	"if",
	"include",
	"block",
	"ignore",
}

func startsWithKeyword(s string) string {
	for _, keyword := range keywords {
		if strings.HasPrefix(s, keyword) {
			return keyword
		}
	}
	return ""
}

func isValidVarNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.':
		return true
	}
	return false
}

// parser is a cursor over one template source. The position advances strictly
// monotonically within a parse frame; nested parses operate on a cloned
// sub-slice with its own position.
type parser struct {
	position int
	src      string
	rootDir  string
	baseDir  string
}

func parserFromContent(source, rootDir, baseDir string) *parser {
	return &parser{src: source, rootDir: rootDir, baseDir: baseDir}
}

func parserFromFile(root, path string, cache *FileCache) (*parser, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, newNotADirectoryError(root)
	}

	source, err := cache.get(path)
	if err != nil {
		return nil, err
	}

	return parserFromContent(source, root, filepath.Dir(path)), nil
}

func (p *parser) len() int {
	return len(p.src)
}

func (p *parser) isEmpty() bool {
	return p.position >= len(p.src)
}

func (p *parser) source() string {
	if p.isEmpty() {
		return ""
	}
	return p.src[p.position:]
}

// shallowClone takes a sub-slice of the source with its own zeroed position.
func (p *parser) shallowClone(from, to int) *parser {
	return &parser{
		src:     p.src[from:to],
		rootDir: p.rootDir,
		baseDir: p.baseDir,
	}
}

func (p *parser) advance(n int) {
	p.position += n
}

func (p *parser) copyInto(n int, into *string) {
	end := p.position + n
	if end > len(p.src) {
		end = len(p.src)
	}
	if p.position < end {
		*into += p.src[p.position:end]
	}
}

func (p *parser) advanceInto(n int, into *string) {
	p.copyInto(n, into)
	p.advance(n)
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.source(), s)
}

func (p *parser) startsWithValidVarNameChar() bool {
	return !p.isEmpty() && isValidVarNameChar(p.src[p.position])
}

// trimStartInto eats inline whitespace into the given buffer.
func (p *parser) trimStartInto(into *string) {
	for p.startsWith(" ") || p.startsWith("\t") {
		p.advanceInto(1, into)
	}
}

// endTag consumes the remainder of a scope-closing tag and records the
// terminating keyword on the context for the caller to inspect.
func (p *parser) endTag(keyword string, ctx *context) bool {
	p.trimStartInto(&ctx.holding)

	switch keyword {
	// only else can request a trim of the following text
	case "else":
		ctx.trimStart = p.startsWith("-")
		if ctx.trimStart {
			p.advanceInto(1, &ctx.holding)
		}
	// only endblock can be followed by a name
	case "endblock":
		for p.startsWithValidVarNameChar() {
			p.advanceInto(1, &ctx.holding)
			p.trimStartInto(&ctx.holding)
		}
	}

	if !p.startsWith(tagClose) {
		return false
	}

	p.advanceInto(len(tagClose), &ctx.holding)

	ctx.setKeyword(keyword)

	return true
}

func (p *parser) comment() bool {
	for !p.isEmpty() && !p.startsWith(commentClose) {
		p.advance(1)
	}

	p.advance(len(commentClose))

	return true
}

func (p *parser) escaped(ctx *context) bool {
	for _, escape := range escapes {
		if p.startsWith(escape) {
			p.advance(len(escape))
			ctx.pushHolding(escape[1:])
			return true
		}
	}
	return false
}

func (p *parser) ignore(ctx *context) (bool, error) {
	if !ctx.isFirst || ctx.trimEnd {
		return false, nil
	}

	if !p.startsWith(tagClose) {
		return false, nil
	}

	p.advanceInto(len(tagClose), &ctx.holding)

	ctx.clearHolding()
	ctx.flipFirst()

	return false, newIgnoredError()
}

// parse is the top-level loop: it dispatches among comment, variable, escape,
// and tag directives, recurses for nested scopes, and chains to an extends
// parent once the current document completes. A handler that fails leaves its
// consumed bytes in holding; the driver flushes them as literal text.
func (p *parser) parse(ctx *context, cache *FileCache) error {
	for !p.isEmpty() {
		if p.startsWith(commentOpen) && p.comment() ||
			p.startsWith(variableOpen) && p.variable(ctx) ||
			p.escaped(ctx) {
			continue
		} else if p.startsWith(tagOpen) {
			ctx.flushHolding()

			p.advanceInto(len(tagOpen), &ctx.holding)

			ctx.trimEnd = p.startsWith("-")

			if ctx.trimEnd {
				p.advanceInto(1, &ctx.holding)
			}

			p.trimStartInto(&ctx.holding)

			if keyword := startsWithKeyword(p.source()); keyword != "" {
				p.advanceInto(len(keyword), &ctx.holding)

				p.trimStartInto(&ctx.holding)

				switch keyword {
				case "endif":
					if ctx.nestedWithinKeyword == "if" && p.endTag("endif", ctx) {
						return nil
					}
				case "endfor":
					if ctx.nestedWithinKeyword == "for" && p.endTag("endfor", ctx) {
						return nil
					}
				case "endblock":
					if ctx.nestedWithinKeyword == "block" && p.endTag("endblock", ctx) {
						return nil
					}
				case "else":
					switch ctx.nestedWithinKeyword {
					case "if", "for":
						if p.endTag("else", ctx) {
							return nil
						}
					}
				case "extends":
					if p.extends(ctx) {
						continue
					}
				case "include":
					ok, err := p.include(ctx, cache)
					if err != nil {
						return err
					}
					if ok {
						continue
					}
				case "for":
					ok, err := p.forTag(ctx, cache)
					if err != nil {
						return err
					}
					if ok {
						continue
					}
				case "if":
					ok, err := p.ifTag(ctx, cache)
					if err != nil {
						return err
					}
					if ok {
						continue
					}
				case "block":
					ok, err := p.block(ctx, cache)
					if err != nil {
						return err
					}
					if ok {
						continue
					}
				case "ignore":
					ok, err := p.ignore(ctx)
					if err != nil {
						return err
					}
					if ok {
						continue
					}
				}
			}
		}

		if !p.isEmpty() {
			p.advanceInto(1, &ctx.holding)
		}

		ctx.flipFirst()
	}

	if !ctx.wasExtends {
		ctx.pushHolding("\n")
	} else {
		ctx.wasExtends = false
	}

	ctx.flipFirst()

	if ctx.holding != "" {
		ctx.holding = strings.TrimSuffix(ctx.holding, "\n")

		if ctx.holding != "" {
			ctx.flushHolding()
		}
	}

	if ctx.extends != "" {
		extends := ctx.extends
		ctx.extends = ""

		debug.Debug("[parser] chaining to extends parent %s", extends)

		extendsParser, err := parserFromFile(p.rootDir, extends, cache)
		if err != nil {
			return err
		}

		// the parent renders with the child's implementations in place
		ctx.directory = extendsParser.baseDir
		ctx.isFirst = true
		ctx.trimStart = false
		ctx.trimEnd = false
		ctx.wasExtends = false
		ctx.output = ""

		if err := extendsParser.parse(ctx, cache); err != nil {
			return err
		}

		*p = *extendsParser
	}

	return nil
}
