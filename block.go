package vg

// block handles {% block NAME [-] %}...{% endblock [NAME] %}. The captured
// body is installed into implementations under the prefix-qualified NAME,
// overriding any previous value. Combined with extends chaining this is how
// inheritance delivers block overrides. The optional endblock name is lexed
// but never checked against the opener.
func (p *parser) block(ctx *context, cache *FileCache) (bool, error) {
	var variable string

	for p.startsWithValidVarNameChar() {
		p.copyInto(1, &variable)
		p.advanceInto(1, &ctx.holding)
	}

	if variable == "" || ctx.trimEnd {
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

	variable = ctx.applyPrefix(variable)

	p.advanceInto(len(tagClose), &ctx.holding)

	blockCtx := ctx.withKeyword("block")
	if err := p.parse(blockCtx, cache); err != nil {
		return false, err
	}

	blockContent := blockCtx.output
	ctx.pushHolding(blockCtx.holding)

	if blockCtx.nestedWithinKeyword != "endblock" {
		return false, nil
	}

	handleTrim(&blockContent, ctx.trimStart, blockCtx.trimEnd)
	ctx.implementations[variable] = blockContent

	ctx.clearHolding()
	ctx.flipFirst()

	return true, nil
}
