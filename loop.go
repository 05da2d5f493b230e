package vg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/frankiebaffa/vg/internal/debug"
)

// forItem is one candidate file of a directory iteration, materialized only
// long enough to sort.
type forItem struct {
	path     string
	name     string
	created  time.Time
	modified time.Time
}

var sortMethods = [...]string{"name", "created", "modified"}

func startsWithSort(s string) string {
	for _, method := range sortMethods {
		if strings.HasPrefix(s, method) {
			return method
		}
	}
	return ""
}

// collectItems enumerates the immediate file children of a directory path,
// or yields the path itself when it names a file, or nothing at all.
func collectItems(rebased, sortMethod string, reverse bool) ([]string, bool, error) {
	info, err := os.Stat(rebased)
	if err != nil {
		return nil, false, nil
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return []string{rebased}, false, nil
		}
		return nil, false, nil
	}

	entries, err := os.ReadDir(rebased)
	if err != nil {
		return nil, false, nil
	}

	var items []forItem
	isLoop := false

	for _, entry := range entries {
		path := filepath.Join(rebased, entry.Name())

		fi, err := os.Stat(path)
		if err != nil {
			return nil, false, newIOError(err)
		}

		if !fi.Mode().IsRegular() {
			continue
		}

		items = append(items, forItem{
			path:     path,
			name:     entry.Name(),
			created:  createdTime(fi),
			modified: fi.ModTime(),
		})

		isLoop = true
	}

	switch sortMethod {
	case "name":
		sort.Slice(items, func(i, j int) bool { return items[i].name < items[j].name })
	case "created":
		sort.Slice(items, func(i, j int) bool { return items[i].created.Before(items[j].created) })
	case "modified":
		sort.Slice(items, func(i, j int) bool { return items[i].modified.Before(items[j].modified) })
	}

	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.path
	}

	return paths, isLoop, nil
}

// forTag handles {% for NAME in "PATH" [| [!]SORT] [-] %}...{% endfor %},
// with an optional {% else %} arm rendered when the item list is empty.
func (p *parser) forTag(ctx *context, cache *FileCache) (bool, error) {
	// first value is the variable name
	var variable string

	for p.startsWithValidVarNameChar() {
		p.copyInto(1, &variable)
		p.advanceInto(1, &ctx.holding)
	}

	if variable == "" || ctx.trimEnd {
		return false, nil
	}

	variable = ctx.applyPrefix(variable)

	p.trimStartInto(&ctx.holding)

	const kwIn = "in"

	if !p.startsWith(kwIn) {
		return false, nil
	}

	p.advanceInto(len(kwIn), &ctx.holding)

	p.trimStartInto(&ctx.holding)

	// next value is the path to the collection
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

	sortMethod := sortMethods[0]
	reverse := false

	if p.startsWith(pipe) {
		p.advanceInto(len(pipe), &ctx.holding)
		p.trimStartInto(&ctx.holding)

		reverse = p.startsWith("!")
		if reverse {
			p.advanceInto(1, &ctx.holding)
		}

		sortMethod = startsWithSort(p.source())
		if sortMethod == "" {
			return false, nil
		}

		p.advanceInto(len(sortMethod), &ctx.holding)
		p.trimStartInto(&ctx.holding)
	}

	ctx.trimStart = p.startsWith("-")

	if ctx.trimStart {
		p.advanceInto(1, &ctx.holding)
	}

	if !p.startsWith(tagClose) {
		return false, nil
	}

	p.advanceInto(len(tagClose), &ctx.holding)

	rebased := RebasePath(p.rootDir, p.baseDir, path)

	items, isLoop, err := collectItems(rebased, sortMethod, reverse)
	if err != nil {
		return false, err
	}

	debug.Debug("[parser] for %s over %s: %d item(s)", variable, rebased, len(items))

	if len(items) == 0 {
		// no items: still walk the body so the else arm can be honored
		forCtx := ctx.withKeyword("for")

		if err := p.parse(forCtx, cache); err != nil {
			return false, err
		}

		switch forCtx.nestedWithinKeyword {
		case "else":
			elseCtx := ctx.withKeyword("for")
			if err := p.parse(elseCtx, cache); err != nil {
				return false, err
			}
			elseContent := elseCtx.output

			if elseCtx.nestedWithinKeyword != "endfor" {
				return false, nil
			}

			handleTrim(&elseContent, forCtx.trimStart, elseCtx.trimEnd)
			ctx.pushOutput(elseContent)

			ctx.clearHolding()
			ctx.flipFirst()

			return true, nil
		case "endfor":
			ctx.clearHolding()
			ctx.flipFirst()

			return true, nil
		default:
			return false, nil
		}
	}

	// perform a dummy run through the body to check validity and locate the
	// byte offset just past the closing endfor
	startPosition := p.position
	dummyParser := p.shallowClone(p.position, p.len())
	dummyCtx := ctx.withKeyword("for")
	if err := dummyParser.parse(dummyCtx, cache); err != nil {
		return false, err
	}

	dummyCtx.output = ""

	isValid := false
	endIdx := 0

	switch dummyCtx.nestedWithinKeyword {
	case "else":
		elseCtx := dummyCtx.withKeyword("for")
		if err := dummyParser.parse(elseCtx, cache); err != nil {
			return false, err
		}

		if elseCtx.nestedWithinKeyword == "endfor" {
			isValid, endIdx = true, dummyParser.position+startPosition
		}
	case "endfor":
		isValid, endIdx = true, dummyParser.position+startPosition
	}

	if !isValid {
		return false, nil
	}

	size := len(items)
	max := len(items) - 1

	// augIdx counts ignored items; iterations after an ignored item see index,
	// size and max reduced by that count, while iterations that already ran
	// keep the values they saw
	augIdx := 0

	for rawIdx, itemPath := range items {
		idx := rawIdx - augIdx
		size := size - augIdx
		max := max - augIdx

		// parse the item file to populate implementations under the loop name
		itemParser, err := parserFromFile(p.rootDir, itemPath, cache)
		if err != nil {
			return false, err
		}
		itemCtx := ctx.shallowClone()

		oldPrefix := itemCtx.prefix
		itemCtx.prefix = variable

		oldDir := itemCtx.directory
		itemCtx.directory = itemParser.baseDir

		if err := itemParser.parse(itemCtx, cache); err != nil {
			if IsIgnored(err) {
				augIdx++
				continue
			}
			return false, err
		}

		// itemCtx now has all content and implementations from the item
		itemContent := itemCtx.output
		itemCtx.output = ""

		itemCtx.directory = oldDir
		itemCtx.prefix = oldPrefix

		itemCtx.implementations[variable] = itemContent

		if isLoop {
			loopPrefix := "loop"
			if ctx.prefix != "" {
				loopPrefix = ctx.prefix + ".loop"
			}

			itemCtx.implementations[loopPrefix] = variable
			itemCtx.implementations[loopPrefix+".index"] = fmt.Sprintf("%d", idx)
			itemCtx.implementations[loopPrefix+".position"] = fmt.Sprintf("%d", idx+1)
			if idx == 0 {
				itemCtx.implementations[loopPrefix+".first"] = "true"
			} else {
				delete(itemCtx.implementations, loopPrefix+".first")
			}
			if idx == max {
				itemCtx.implementations[loopPrefix+".last"] = "true"
			} else {
				delete(itemCtx.implementations, loopPrefix+".last")
			}
			itemCtx.implementations[loopPrefix+".size"] = fmt.Sprintf("%d", size)
			itemCtx.implementations[loopPrefix+".max"] = fmt.Sprintf("%d", max)
		}

		forCtx := itemCtx.withKeyword("for")

		parserCl := p.shallowClone(p.position, endIdx)
		if err := parserCl.parse(forCtx, cache); err != nil {
			return false, err
		}

		forContent := forCtx.output
		forCtx.output = ""

		if forCtx.nestedWithinKeyword == "else" {
			elseCtx := forCtx.withKeyword("for")
			if err := parserCl.parse(elseCtx, cache); err != nil {
				return false, err
			}

			if elseCtx.nestedWithinKeyword != "endfor" {
				return false, nil
			}
		} else if forCtx.nestedWithinKeyword != "endfor" {
			return false, nil
		}

		handleTrim(&forContent, ctx.trimStart, forCtx.trimEnd)

		ctx.pushOutput(forContent)

		ctx.clearHolding()
		ctx.flipFirst()

		if idx == max {
			p.position = endIdx
		}
	}

	return true, nil
}
