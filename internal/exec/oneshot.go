package exec

import (
	"strconv"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
)

// resolveMotion looks up tr.Input as a motion, returning ok=false for
// anything that is not a motion (the caller falls back to one-shot
// command dispatch).
func (ex *Executor) resolveMotion(in input.Input, cursor, count int) (motionResult, bool) {
	if in.Key != input.KeyRune || in.Mod != input.ModNone {
		switch in.Key {
		case input.KeyLeft:
			return motionLeft(ex, cursor, count), true
		case input.KeyRight:
			return motionRight(ex, cursor, count), true
		case input.KeyDown:
			return motionDown(ex, cursor, count), true
		case input.KeyUp:
			return motionUp(ex, cursor, count), true
		}
		return motionResult{}, false
	}

	switch in.Text {
	case "h":
		return motionLeft(ex, cursor, count), true
	case "l", " ":
		return motionRight(ex, cursor, count), true
	case "j", "+", "\n":
		return motionDown(ex, cursor, count), true
	case "k", "-":
		return motionUp(ex, cursor, count), true
	case "0":
		return motionLineStart(ex, cursor, count), true
	case "^":
		return motionFirstNonBlank(ex, cursor, count), true
	case "$":
		return motionLineEnd(ex, cursor, count), true
	case "w":
		return motionWordForward(ex, cursor, count, false), true
	case "W":
		return motionWordForward(ex, cursor, count, true), true
	case "e":
		return motionWordEnd(ex, cursor, count, false), true
	case "E":
		return motionWordEnd(ex, cursor, count, true), true
	case "b":
		return motionWordBackward(ex, cursor, count, false), true
	case "B":
		return motionWordBackward(ex, cursor, count, true), true
	case "G":
		return motionGotoLine(ex, cursor, count, hasExplicitCount(ex)), true
	case "%":
		return ex.motionMatchBracket(cursor), true
	case ";":
		return ex.repeatCharSearch(cursor, count, false), true
	case ",":
		return ex.repeatCharSearch(cursor, count, true), true
	}

	return motionResult{}, false
}

// hasExplicitCount reports whether the user typed a count before G;
// without one G means "last line", which motionGotoLine needs to
// distinguish from an explicit "1G".
func hasExplicitCount(ex *Executor) bool {
	return !ex.Machine.State.Counts.Empty()
}

func (ex *Executor) motionMatchBracket(cursor int) motionResult {
	bm := ex.Host.MatchBracket(cursor)
	if !bm.Moved {
		return motionResult{}
	}
	return motionResult{pos: bm.NewCursor, move: edit.MoveInclusive, jump: true, ok: true}
}

func (ex *Executor) repeatCharSearch(cursor, count int, reverse bool) motionResult {
	if !ex.lastCharSearch.hasOne {
		return motionResult{}
	}
	forward := ex.lastCharSearch.forward
	if reverse {
		forward = !forward
	}
	return charSearch(ex, cursor, count, ex.lastCharSearch.ch, forward, ex.lastCharSearch.till)
}

// dispatchMotionOrOneShot handles a plain Command-mode key with no
// pending operator: either move the cursor (a motion) or perform a
// one-shot command.
func (ex *Executor) dispatchMotionOrOneShot(tr mode.Transition) []host.Message {
	cursor := ex.Host.CursorGet()

	if mr, ok := ex.resolveMotion(tr.Input, cursor, tr.Count); ok {
		if mr.jump {
			ex.Model.Jumps.Push(edit.JumpPoint{Position: cursor})
		}
		ex.Host.CursorSet(mr.pos)
		return nil
	}

	if tr.Input.Key != input.KeyRune {
		return nil
	}

	switch tr.Input.Text {
	case "x":
		return ex.oneShotDelete(cursor, tr.Count, false)
	case "X":
		return ex.oneShotDelete(cursor, tr.Count, true)
	case "D":
		return ex.oneShotToEOL(cursor, mode.OpDelete)
	case "C":
		return ex.oneShotToEOL(cursor, mode.OpChange)
	case "Y":
		return ex.oneShotYankLine(cursor, tr.Count)
	case "p":
		return ex.put(cursor, true)
	case "P":
		return ex.put(cursor, false)
	case "J":
		return ex.joinLines(cursor, tr.Count)
	case "i":
		ex.beginDot("i", tr.Count)
		ex.enterInsert()
		return nil
	case "I":
		mr := motionFirstNonBlank(ex, cursor, 1)
		ex.Host.CursorSet(mr.pos)
		ex.beginDot("I", tr.Count)
		ex.enterInsert()
		return nil
	case "a":
		line := ex.lineOf(cursor)
		if cursor < ex.Host.LineEnd(line) {
			ex.Host.CursorSet(cursor + 1)
		}
		ex.beginDot("a", tr.Count)
		ex.enterInsert()
		return nil
	case "A":
		ex.Host.CursorSet(ex.Host.LineEnd(ex.lineOf(cursor)))
		ex.beginDot("A", tr.Count)
		ex.enterInsert()
		return nil
	case "o":
		return ex.openLine(cursor, true)
	case "O":
		return ex.openLine(cursor, false)
	case "~":
		return ex.toggleCase(cursor, tr.Count)
	case "u":
		return ex.undo()
	case "n":
		return ex.searchRepeat(cursor, false)
	case "N":
		return ex.searchRepeat(cursor, true)
	case "*":
		return ex.searchWord(cursor, true)
	case "#":
		return ex.searchWord(cursor, false)
	case ".":
		override := 0
		if hasExplicitCount(ex) {
			override = tr.Count
		}
		ex.repeatDot(override)
		return nil
	}

	if tr.Input.Mod == input.ModControl && tr.Input.Text == "r" {
		return ex.redo()
	}

	return nil
}

func (ex *Executor) oneShotDelete(cursor, count int, before bool) []host.Message {
	line := ex.lineOf(cursor)
	hi := ex.Host.LineEnd(line)
	begin, end := cursor, cursor+count
	if before {
		begin, end = cursor-count, cursor
		if lo := ex.Host.LineStart(line); begin < lo {
			begin = lo
		}
	} else if end > hi {
		end = hi
	}
	if begin >= end {
		return nil
	}

	ex.Host.UndoBeginBlock()
	defer ex.Host.UndoEndBlock()
	ex.Model.RecordUndoCursor(cursor)
	if _, err := ex.Model.Delete(ex.Model.Registers.Active(), edit.NewRange(begin, end, edit.Char)); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Host.CursorSet(begin)
	key := "x"
	if before {
		key = "X"
	}
	ex.beginDot(key, count)
	ex.commitDot()
	return nil
}

func (ex *Executor) oneShotToEOL(cursor int, sub mode.SubMode) []host.Message {
	line := ex.lineOf(cursor)
	r := edit.NewRange(cursor, ex.Host.LineEnd(line), edit.Char)
	newCursor, err := ex.applyOperator(sub, r, ex.Model.Registers.Active())
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Host.CursorSet(newCursor)
	key := "D"
	if sub == mode.OpChange {
		key = "C"
	}
	ex.finishOperator(sub, key, 1)
	return nil
}

func (ex *Executor) oneShotYankLine(cursor, count int) []host.Message {
	line := ex.lineOf(cursor)
	endLine := line + count - 1
	if last := ex.Host.LineCount(); endLine > last {
		endLine = last
	}
	begin := ex.Host.LineStart(line)
	end := ex.Host.LineEnd(endLine)
	if endLine < ex.Host.LineCount() {
		end++
	}
	text, err := ex.Host.BufferRead(edit.NewRange(begin, end, edit.Line))
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Model.Yank(ex.Model.Registers.Active(), text, edit.Line)
	return nil
}

func (ex *Executor) put(cursor int, after bool) []host.Message {
	reg := ex.Model.Registers.Get(ex.Model.Registers.Active())
	if reg.Contents == "" {
		return nil
	}

	ex.Host.UndoBeginBlock()
	defer ex.Host.UndoEndBlock()
	ex.Model.RecordUndoCursor(cursor)

	pos := cursor
	switch reg.Mode {
	case edit.Line:
		line := ex.lineOf(cursor)
		if after {
			pos = ex.Host.LineEnd(line)
			if pos < ex.bufferEnd() {
				pos++
			} else {
				_, _ = ex.Model.Apply(edit.NewRange(pos, pos, edit.Char), edit.ReplaceByString("\n"))
				pos++
			}
		} else {
			pos = ex.Host.LineStart(line)
		}
	default:
		if after {
			line := ex.lineOf(cursor)
			if cursor < ex.Host.LineEnd(line) {
				pos = cursor + 1
			}
		}
	}

	if _, err := ex.Model.Apply(edit.NewRange(pos, pos, edit.Char), edit.ReplaceByString(reg.Contents)); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Host.CursorSet(pos)
	key := "p"
	if !after {
		key = "P"
	}
	ex.beginDot(key, 1)
	ex.commitDot()
	return nil
}

func (ex *Executor) joinLines(cursor, count int) []host.Message {
	if count < 2 {
		count = 2
	}
	line := ex.lineOf(cursor)
	last := ex.Host.LineCount()

	ex.Host.UndoBeginBlock()
	defer ex.Host.UndoEndBlock()
	ex.Model.RecordUndoCursor(cursor)

	joinPos := 0
	for i := 1; i < count; i++ {
		if line >= last {
			break
		}
		eol := ex.Host.LineEnd(line)
		nextStart := ex.Host.LineStart(line + 1)
		mr := motionFirstNonBlank(ex, nextStart, 1)
		joinPos = eol
		if _, err := ex.Model.Apply(edit.NewRange(eol, mr.pos, edit.Char), edit.ReplaceByString(" ")); err != nil {
			return []host.Message{{Level: host.Error, Text: err.Error()}}
		}
		last = ex.Host.LineCount()
	}
	if joinPos > 0 {
		ex.Host.CursorSet(joinPos)
		ex.beginDot("J", count)
		ex.commitDot()
	}
	return nil
}

func (ex *Executor) openLine(cursor int, below bool) []host.Message {
	line := ex.lineOf(cursor)
	var pos int
	if below {
		pos = ex.Host.LineEnd(line)
	} else {
		pos = ex.Host.LineStart(line)
	}

	ex.Host.UndoBeginBlock()
	ex.Model.RecordUndoCursor(cursor)

	insertAt := pos
	if _, err := ex.Model.Apply(edit.NewRange(insertAt, insertAt, edit.Char), edit.ReplaceByString("\n")); err != nil {
		ex.Host.UndoEndBlock()
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}

	if below {
		ex.Host.CursorSet(insertAt + 1)
	} else {
		ex.Host.CursorSet(insertAt)
	}

	ex.Machine.EnterMode(mode.Insert)
	key := "o"
	if !below {
		key = "O"
	}
	ex.beginDot(key, 1)
	return nil
}

func (ex *Executor) toggleCase(cursor, count int) []host.Message {
	line := ex.lineOf(cursor)
	hi := ex.Host.LineEnd(line)
	end := cursor + count
	if end > hi {
		end = hi
	}
	if end <= cursor {
		return nil
	}
	ex.Model.RecordUndoCursor(cursor)
	if _, err := ex.Model.Apply(edit.NewRange(cursor, end, edit.Char), edit.InvertCase); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Host.CursorSet(end)
	ex.beginDot("~", count)
	ex.commitDot()
	return nil
}

func (ex *Executor) undo() []host.Message {
	cursor := ex.Host.CursorGet()
	if err := ex.Host.Undo(); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	if pos, ok := ex.Model.CursorForRevision(ex.Host.UndoRevision()); ok {
		ex.Host.CursorSet(pos)
		return nil
	}
	ex.Host.CursorSet(cursor)
	return nil
}

func (ex *Executor) redo() []host.Message {
	if err := ex.Host.Redo(); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	return nil
}

// repeatDot replays the recorded dot command, substituting override
// for its recorded count when override > 0. Recorded keys never carry
// their own count prefix (see DotCommand.Record), so the effective
// count is prepended to the replayed text here.
func (ex *Executor) repeatDot(override int) {
	if !ex.Model.Dot.HasCommand() {
		return
	}
	keys, count := ex.Model.Dot.WithCount(override)
	if count > 1 {
		keys = strconv.Itoa(count) + keys
	}
	seq, err := input.ParseInputs(keys)
	if err != nil {
		return
	}
	ex.Replay(seq)
}
