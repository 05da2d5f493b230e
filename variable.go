package vg

import "strings"

// variable handles a {{ name [?] [| filter...] }} directive. The name is
// prefix-qualified before lookup. A resolved value passes through the filter
// pipeline and is emitted; a missing non-nullable reference flushes the
// consumed source verbatim, a missing nullable one emits nothing.
func (p *parser) variable(ctx *context) bool {
	ctx.flushHolding()
	p.advanceInto(len(variableOpen), &ctx.holding)
	p.trimStartInto(&ctx.holding)

	var name string

	for p.startsWithValidVarNameChar() {
		p.copyInto(1, &name)
		p.advanceInto(1, &ctx.holding)
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}

	p.trimStartInto(&ctx.holding)

	// check for nullability
	nullable := false
	if p.startsWith("?") {
		p.advanceInto(1, &ctx.holding)
		p.trimStartInto(&ctx.holding)
		nullable = true
	}

	var filters []filterSpec

	for p.startsWith(pipe) {
		p.advanceInto(1, &ctx.holding)
		p.trimStartInto(&ctx.holding)

		filter := startsWithFilter(p.source())
		if filter == "" {
			return false
		}

		p.advanceInto(len(filter), &ctx.holding)
		p.trimStartInto(&ctx.holding)

		switch filter {
		case "flatten":
			filters = append(filters, filterSpec{kind: filterFlatten})
		case "detab":
			filters = append(filters, filterSpec{kind: filterDetab})
		case "trim":
			filters = append(filters, filterSpec{kind: filterTrim})
		case "upper":
			filters = append(filters, filterSpec{kind: filterUpper})
		case "lower":
			filters = append(filters, filterSpec{kind: filterLower})
		case "md":
			filters = append(filters, filterSpec{kind: filterMarkdown})
		case "trimend":
			filters = append(filters, filterSpec{kind: filterTrimEnd})
		case "trimstart":
			filters = append(filters, filterSpec{kind: filterTrimStart})
		case "replace":
			spec, ok := p.replaceArgs(ctx)
			if !ok {
				return false
			}
			filters = append(filters, spec)
		default:
			return false
		}
	}

	if !p.startsWith(variableClose) {
		return false
	}

	p.advanceInto(len(variableClose), &ctx.holding)

	name = ctx.applyPrefix(name)

	if value, ok := ctx.implementations[name]; ok {
		ctx.pushOutput(applyFilters(value, filters))
		ctx.clearHolding()
	} else if !nullable {
		ctx.flushHolding()
	} else {
		ctx.clearHolding()
	}

	ctx.flipFirst()

	return true
}

// replaceArgs reads the two quoted arguments of a replace filter. The first
// may not be empty.
func (p *parser) replaceArgs(ctx *context) (filterSpec, bool) {
	if !p.startsWith(pathDelim) {
		return filterSpec{}, false
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	var replaceThis string

	for !p.isEmpty() && !p.startsWith(pathDelim) {
		p.copyInto(1, &replaceThis)
		p.advanceInto(1, &ctx.holding)
	}

	if !p.startsWith(pathDelim) || replaceThis == "" {
		return filterSpec{}, false
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	p.trimStartInto(&ctx.holding)

	if !p.startsWith(pathDelim) {
		return filterSpec{}, false
	}

	p.advanceInto(len(pathDelim), &ctx.holding)

	var with string

	for !p.isEmpty() && !p.startsWith(pathDelim) {
		p.copyInto(1, &with)
		p.advanceInto(1, &ctx.holding)
	}

	if !p.startsWith(pathDelim) {
		return filterSpec{}, false
	}

	p.advanceInto(1, &ctx.holding)

	p.trimStartInto(&ctx.holding)

	return filterSpec{kind: filterReplace, replaceOld: replaceThis, replaceNew: with}, true
}
