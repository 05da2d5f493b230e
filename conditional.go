package vg

import "strings"

// condition is what an if directive tests about its variable.
type condition int

const (
	// conditionExistence is truthy iff an implementation entry exists,
	// regardless of value.
	conditionExistence condition = iota
	// conditionEmptiness is truthy iff the entry's value is empty. A missing
	// entry counts as empty.
	conditionEmptiness
)

// ifTag handles {% if [!]NAME [not] [empty] [-] %}...[{% else %}...]{% endif %}.
func (p *parser) ifTag(ctx *context, cache *FileCache) (bool, error) {
	var variable string

	for p.startsWithValidVarNameChar() || p.startsWith("!") {
		p.copyInto(1, &variable)
		p.advanceInto(1, &ctx.holding)
	}

	p.trimStartInto(&ctx.holding)

	const (
		kwEmpty = "empty"
		kwNot   = "not"
	)

	// check for a non-default condition
	var negative bool
	var cdn condition
	valid := true

	if p.startsWith(kwNot) {
		p.advanceInto(len(kwNot), &ctx.holding)

		p.trimStartInto(&ctx.holding)

		if p.startsWith(kwEmpty) {
			p.advanceInto(len(kwEmpty), &ctx.holding)
			negative, cdn = true, conditionEmptiness
		} else {
			valid = false
		}
	} else if p.startsWith(kwEmpty) {
		p.advanceInto(len(kwEmpty), &ctx.holding)
		negative, cdn = false, conditionEmptiness
	} else {
		negative, cdn = false, conditionExistence
	}

	startDot := strings.HasPrefix(variable, ".")
	endDot := strings.HasSuffix(variable, ".")
	invalidExcl := strings.Index(variable, "!") > 0

	if !valid || variable == "" || ctx.trimEnd || startDot || endDot || invalidExcl {
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

	if strings.HasPrefix(variable, "!") {
		variable = variable[1:]
		negative = !negative
	}

	// can't have any other ! characters
	if strings.Contains(variable, "!") || strings.HasPrefix(variable, ".") {
		return false, nil
	}

	p.copyInto(len(tagClose), &ctx.holding)

	variable = ctx.applyPrefix(variable)

	ifCtx := ctx.withKeyword("if")
	if err := p.parse(ifCtx, cache); err != nil {
		return false, err
	}
	ifContent := ifCtx.output

	switch ifCtx.nestedWithinKeyword {
	case "else":
		elseCtx := ctx.withKeyword("if")
		if err := p.parse(elseCtx, cache); err != nil {
			return false, err
		}

		if elseCtx.nestedWithinKeyword != "endif" {
			return false, nil
		}

		elseContent := elseCtx.output

		emitIf := func() {
			handleTrim(&ifContent, ctx.trimStart, ifCtx.trimEnd)
			ctx.pushOutput(ifContent)
		}
		emitElse := func() {
			handleTrim(&elseContent, ifCtx.trimStart, elseCtx.trimEnd)
			ctx.pushOutput(elseContent)
		}

		if implementation, ok := ctx.implementations[variable]; ok {
			switch cdn {
			case conditionExistence:
				if !negative {
					emitIf()
				} else {
					emitElse()
				}
			case conditionEmptiness:
				if (implementation == "" && !negative) || (implementation != "" && negative) {
					emitIf()
				} else {
					emitElse()
				}
			}
		} else {
			switch cdn {
			case conditionExistence:
				if !negative {
					emitElse()
				} else {
					emitIf()
				}
			case conditionEmptiness:
				if !negative {
					emitIf()
				} else {
					emitElse()
				}
			}
		}

		ctx.clearHolding()
		ctx.flipFirst()

		return true, nil
	case "endif":
		emit := false

		if implementation, ok := ctx.implementations[variable]; ok {
			switch cdn {
			case conditionExistence:
				emit = !negative
			case conditionEmptiness:
				emit = (implementation == "" && !negative) ||
					(implementation != "" && negative)
			}
		} else {
			switch cdn {
			case conditionExistence:
				emit = negative
			case conditionEmptiness:
				emit = !negative
			}
		}

		if emit {
			handleTrim(&ifContent, ctx.trimStart, ifCtx.trimEnd)
			ctx.pushOutput(ifContent)
		}

		ctx.clearHolding()
		ctx.flipFirst()

		return true, nil
	default:
		return false, nil
	}
}
