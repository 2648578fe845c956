package exec

import "github.com/fakevim/fakevim/internal/edit"

// textObjectResult is a resolved a/i text object: the Range it spans
// (whose Mode says whether it is linewise) and whether resolution
// succeeded.
type textObjectResult struct {
	r  edit.Range
	ok bool
}

// resolveTextObject implements the subset of spec.md §4.4's a/i text
// objects grounded in the word-class scanner motions.go already
// builds: aw/iw/aW/iW (word), ip/ap (paragraph, blank-line delimited).
// Quote and bracket objects (a"/i"/a(/i( etc.) are looked up on the
// current line only, matching Vim's own restriction that those never
// span lines.
func (ex *Executor) resolveTextObject(cursor int, around bool, selector rune) textObjectResult {
	switch selector {
	case 'w', 'W':
		return ex.wordObject(cursor, around, selector == 'W')
	case 'p':
		return ex.paragraphObject(cursor, around)
	case '"', '\'', '`':
		return ex.quoteObject(cursor, around, selector)
	case '(', ')', 'b':
		return ex.bracketObject(cursor, around, '(', ')')
	case '{', '}', 'B':
		return ex.bracketObject(cursor, around, '{', '}')
	case '[', ']':
		return ex.bracketObject(cursor, around, '[', ']')
	case '<', '>':
		return ex.bracketObject(cursor, around, '<', '>')
	}
	return textObjectResult{}
}

func (ex *Executor) wordObject(cursor int, around, big bool) textObjectResult {
	text := []rune(ex.mustFullText())
	n := len(text)
	if cursor >= n {
		return textObjectResult{}
	}

	class := classify(text[cursor])
	begin := cursor
	for begin > 0 && sameClass(text[begin-1], class, big) {
		begin--
	}
	end := cursor
	for end+1 < n && sameClass(text[end+1], class, big) {
		end++
	}
	end++ // exclusive

	if around {
		trailing := end
		for trailing < n && classify(text[trailing]) == classBlank {
			trailing++
		}
		if trailing > end {
			end = trailing
		} else {
			for begin > 0 && classify(text[begin-1]) == classBlank {
				begin--
			}
		}
	}

	return textObjectResult{r: edit.NewRange(begin, end, edit.Char), ok: true}
}

func (ex *Executor) paragraphObject(cursor int, around bool) textObjectResult {
	line := ex.lineOf(cursor)
	lineA, lineB := line, line

	isBlank := func(l int) bool {
		text, _ := ex.Host.BufferRead(edit.NewRange(ex.Host.LineStart(l), ex.Host.LineEnd(l), edit.Char))
		return text == ""
	}

	for lineA > 1 && !isBlank(lineA-1) {
		lineA--
	}
	last := ex.Host.LineCount()
	for lineB < last && !isBlank(lineB+1) {
		lineB++
	}

	if around {
		for lineB < last && isBlank(lineB+1) {
			lineB++
		}
	}

	begin := ex.Host.LineStart(lineA)
	end := ex.Host.LineEnd(lineB)
	if lineB < last {
		end++
	}
	return textObjectResult{r: edit.NewRange(begin, end, edit.Line), ok: true}
}

func (ex *Executor) quoteObject(cursor int, around bool, quote rune) textObjectResult {
	line := ex.lineOf(cursor)
	lo := ex.Host.LineStart(line)
	hi := ex.Host.LineEnd(line)
	text, _ := ex.Host.BufferRead(edit.NewRange(lo, hi, edit.Char))
	runes := []rune(text)
	relative := cursor - lo

	var open, close int = -1, -1
	count := 0
	for i, r := range runes {
		if r != quote {
			continue
		}
		if count%2 == 0 {
			if i <= relative {
				open = i
			}
		} else if open != -1 && open <= relative {
			close = i
		}
		count++
		if open != -1 && close != -1 && close >= relative {
			break
		}
	}
	if open == -1 || close == -1 || close <= open {
		return textObjectResult{}
	}

	begin, end := open, close+1
	if !around {
		begin, end = open+1, close
	} else {
		for end < len(runes) && runes[end] == ' ' {
			end++
		}
	}

	return textObjectResult{r: edit.NewRange(lo+begin, lo+end, edit.Char), ok: true}
}

func (ex *Executor) bracketObject(cursor int, around bool, open, close rune) textObjectResult {
	text := []rune(ex.mustFullText())
	depth := 0
	begin := -1
	for i := cursor; i >= 0; i-- {
		switch text[i] {
		case close:
			if i != cursor {
				depth++
			}
		case open:
			if depth == 0 {
				begin = i
			} else {
				depth--
			}
		}
		if begin != -1 {
			break
		}
	}
	if begin == -1 {
		return textObjectResult{}
	}

	depth = 0
	end := -1
	for i := begin + 1; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			if depth == 0 {
				end = i
			} else {
				depth--
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return textObjectResult{}
	}

	b, e := begin, end+1
	if !around {
		b, e = begin+1, end
	}
	return textObjectResult{r: edit.NewRange(b, e, edit.Char), ok: true}
}
