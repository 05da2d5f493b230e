package vg

import "github.com/frankiebaffa/vg/internal/debug"

// extends handles {% extends "PATH" %}. Valid only as the first directive of
// a template. The parent's path is queued on the context; the driver chains
// to it after the current template finishes populating implementations, so
// blocks defined here are visible to the parent.
func (p *parser) extends(ctx *context) bool {
	// this keyword accepts a path value
	if !ctx.isFirst || ctx.trimEnd || ctx.extends != "" || !p.startsWith(pathDelim) {
		return false
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	var path string

	if p.startsWith(variableOpen) {
		varCtx := ctx.shallowClone()

		if !p.variable(varCtx) {
			return false
		}

		path = varCtx.output
	} else {
		for !p.startsWith(pathDelim) && !p.isEmpty() {
			p.copyInto(1, &path)
			p.advanceInto(1, &ctx.holding)
		}
	}

	if path == "" || !p.startsWith(pathDelim) {
		return false
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	p.trimStartInto(&ctx.holding)

	if !p.startsWith(tagClose) {
		return false
	}

	p.advanceInto(len(tagClose), &ctx.holding)

	ctx.extends = RebasePath(p.rootDir, ctx.directory, path)
	ctx.clearHolding()
	ctx.wasExtends = true
	ctx.flipFirst()

	return true
}

// include handles {% include [raw] [md] "PATH" [as NAME] [-] %}. A raw
// include injects the file's bytes verbatim; otherwise the file is parsed in
// a child scope. With `as` the result is stored as an implementation under
// the prefix-qualified NAME instead of being appended.
func (p *parser) include(ctx *context, cache *FileCache) (bool, error) {
	isRaw := false
	isMd := false

	// can be included raw
	if p.startsWith("raw") {
		p.advanceInto(3, &ctx.holding)
		p.trimStartInto(&ctx.holding)
		isRaw = true
		if p.startsWith("md") {
			p.advanceInto(2, &ctx.holding)
			p.trimStartInto(&ctx.holding)
			isMd = true
		}
	} else if p.startsWith("md") {
		p.advanceInto(2, &ctx.holding)
		p.trimStartInto(&ctx.holding)
		isMd = true
	}

	// this keyword accepts a path value
	if !p.startsWith(pathDelim) {
		return false, nil
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	var path string

	if p.startsWith(variableOpen) {
		varCtx := ctx.shallowClone()

		if !p.variable(varCtx) {
			return false, nil
		}

		path = varCtx.output
	} else {
		for !p.startsWith(pathDelim) && !p.isEmpty() {
			p.copyInto(1, &path)
			p.advanceInto(1, &ctx.holding)
		}
	}

	if path == "" || !p.startsWith(pathDelim) {
		return false, nil
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	p.trimStartInto(&ctx.holding)

	const kwAs = "as"

	var asName string

	if p.startsWith(kwAs) && !isRaw {
		p.advanceInto(len(kwAs), &ctx.holding)

		p.trimStartInto(&ctx.holding)

		for p.startsWithValidVarNameChar() {
			p.copyInto(1, &asName)
			p.advanceInto(1, &ctx.holding)
		}
	} else if p.startsWith(kwAs) && isRaw {
		// "as" is not allowed in conjunction with raw
		return false, nil
	}

	p.trimStartInto(&ctx.holding)

	ctx.trimStart = p.startsWith("-")

	if ctx.trimStart {
		p.advanceInto(1, &ctx.holding)
	}

	if !p.startsWith(tagClose) {
		return false, nil
	}

	p.advanceInto(len(tagClose), &ctx.holding)

	rebased := RebasePath(p.rootDir, p.baseDir, path)

	debug.Debug("[parser] include %s (raw=%v md=%v as=%q)", rebased, isRaw, isMd, asName)

	// raw included content is directly injected into the output
	if isRaw {
		content, err := cache.get(rebased)
		switch {
		case err == nil:
			if isMd {
				ctx.pushOutput(Markdown(content))
			} else {
				ctx.pushOutput(content)
			}
		case IsIgnored(err):
		default:
			return false, err
		}

		ctx.clearHolding()
		ctx.flipFirst()
		return true, nil
	}

	// with an as name, combine it with the existing prefix
	thisPrefix := ctx.prefix
	hadAs := false
	if asName != "" {
		if ctx.prefix != "" {
			thisPrefix = ctx.prefix + "." + asName
		} else {
			thisPrefix = asName
		}
		hadAs = true
	}

	// set prefix for the sub-parse
	ctx.prefix, thisPrefix = thisPrefix, ctx.prefix

	includeParser, err := parserFromFile(p.rootDir, rebased, cache)
	if err != nil {
		return false, err
	}

	// the includee's own directory governs its relative paths
	oldDirectory := includeParser.baseDir
	ctx.directory, oldDirectory = oldDirectory, ctx.directory

	// hide any queued extends so the includee's own extends does not chain
	// off this template's
	tmpExtends := ""
	ctx.extends, tmpExtends = tmpExtends, ctx.extends

	// the include itself was valid; clear holding and flip first now
	ctx.clearHolding()
	ctx.flipFirst()

	tmpIsFirst := true
	ctx.isFirst, tmpIsFirst = tmpIsFirst, ctx.isFirst

	// hold onto the output for now
	tmpOutput := ""
	ctx.output, tmpOutput = tmpOutput, ctx.output

	if err := includeParser.parse(ctx, cache); err != nil && !IsIgnored(err) {
		return false, err
	}

	// revert directory, prefix, extends, is_first, and output
	ctx.directory, oldDirectory = oldDirectory, ctx.directory
	ctx.prefix, thisPrefix = thisPrefix, ctx.prefix
	ctx.extends, tmpExtends = tmpExtends, ctx.extends
	ctx.isFirst, tmpIsFirst = tmpIsFirst, ctx.isFirst
	ctx.output, tmpOutput = tmpOutput, ctx.output

	if isMd {
		tmpOutput = Markdown(tmpOutput)
	}

	// an as-bound include becomes an implementation; otherwise its output is
	// appended to this scope's
	if hadAs {
		ctx.implementations[thisPrefix] = tmpOutput
	} else {
		ctx.pushOutput(tmpOutput)
	}

	return true, nil
}
