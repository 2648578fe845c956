package exec

import (
	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
)

// dispatchSubSubComplete handles the character argument that completes
// a sub-sub-mode: f/F/t/T's target, m/'/`'s mark letter, r's
// replacement, "'s register letter, and g/z/[/]'s second key.
func (ex *Executor) dispatchSubSubComplete(tr mode.Transition) []host.Message {
	r, ok := runeOf(tr.Input)
	if !ok {
		return nil
	}

	switch tr.SubSubMode {
	case mode.SSFindForward, mode.SSFindBackward, mode.SSTillForward, mode.SSTillBackward:
		return ex.completeCharSearch(tr, r)
	case mode.SSSetMark:
		ex.Model.Marks.Set(byte(r), ex.Host.CursorGet())
		return nil
	case mode.SSGotoMarkLine, mode.SSGotoMarkExact:
		return ex.gotoMark(tr, byte(r))
	case mode.SSReplaceChar:
		return ex.replaceCharAtCursor(r)
	case mode.SSRegister:
		ex.Model.Registers.SetActive(byte(r))
		return nil
	case mode.SSGPrefix:
		return ex.dispatchGPrefix(tr, r)
	case mode.SSZCommand:
		return nil
	case mode.SSZUpperPrefix:
		return ex.dispatchZUpper(r)
	case mode.SSBracketFwd, mode.SSBracketBack:
		return ex.dispatchBracketSection(tr, r)
	}
	return nil
}

func runeOf(in input.Input) (rune, bool) {
	if in.Key != input.KeyRune {
		return 0, false
	}
	runes := []rune(in.Text)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

func (ex *Executor) completeCharSearch(tr mode.Transition, target rune) []host.Message {
	forward := tr.SubSubMode == mode.SSFindForward || tr.SubSubMode == mode.SSTillForward
	till := tr.SubSubMode == mode.SSTillForward || tr.SubSubMode == mode.SSTillBackward

	ex.lastCharSearch.ch = target
	ex.lastCharSearch.forward = forward
	ex.lastCharSearch.till = till
	ex.lastCharSearch.hasOne = true

	cursor := ex.Host.CursorGet()
	mr := charSearch(ex, cursor, tr.Count, target, forward, till)
	if !mr.ok {
		return nil
	}

	if tr.SubMode != mode.NoSubMode {
		rg := ex.rangeFromMotion(cursor, mr)
		newCursor, err := ex.applyOperator(tr.SubMode, rg, ex.Model.Registers.Active())
		ex.Machine.State.CloseSubMode()
		if err != nil {
			return []host.Message{{Level: host.Error, Text: err.Error()}}
		}
		ex.Host.CursorSet(newCursor)
		ex.finishOperator(tr.SubMode, tr.SubMode.Letter()+string(tr.SubSubMode)+string(target), tr.Count)
		return nil
	}

	ex.Host.CursorSet(mr.pos)
	return nil
}

func (ex *Executor) gotoMark(tr mode.Transition, name byte) []host.Message {
	mk, err := ex.Model.Marks.Get(name)
	if err != nil {
		return []host.Message{{Level: host.Error, Text: "mark not set"}}
	}

	pos := mk.Pos
	if tr.SubSubMode == mode.SSGotoMarkLine {
		pos = motionFirstNonBlank(ex, ex.Host.LineStart(ex.lineOf(mk.Pos)), 1).pos
	}

	cursor := ex.Host.CursorGet()
	ex.Model.Jumps.Push(edit.JumpPoint{Position: cursor})

	if tr.SubMode != mode.NoSubMode {
		move := edit.MoveExclusive
		if tr.SubSubMode == mode.SSGotoMarkLine {
			move = edit.MoveLinewise
		}
		rg := ex.rangeFromMotion(cursor, motionResult{pos: pos, move: move})
		newCursor, err := ex.applyOperator(tr.SubMode, rg, ex.Model.Registers.Active())
		ex.Machine.State.CloseSubMode()
		if err != nil {
			return []host.Message{{Level: host.Error, Text: err.Error()}}
		}
		ex.Host.CursorSet(newCursor)
		ex.finishOperator(tr.SubMode, tr.SubMode.Letter()+string(tr.SubSubMode)+string(rune(name)), tr.Count)
		return nil
	}

	ex.Host.CursorSet(pos)
	return nil
}

func (ex *Executor) replaceCharAtCursor(r rune) []host.Message {
	cursor := ex.Host.CursorGet()
	line := ex.lineOf(cursor)
	if cursor >= ex.Host.LineEnd(line) {
		return nil
	}

	ex.Host.UndoBeginBlock()
	defer ex.Host.UndoEndBlock()
	ex.Model.RecordUndoCursor(cursor)

	if _, err := ex.Model.Apply(edit.NewRange(cursor, cursor+1, edit.Char), edit.ReplaceByString(string(r))); err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.beginDot("r"+string(r), 1)
	ex.commitDot()
	return nil
}

// dispatchGPrefix handles the second key of a g-prefixed command:
// gg (buffer start), gU/gu/g~ (case operators, spec.md §C.5), gv
// (reselect last visual), gi (resume insert at last change).
func (ex *Executor) dispatchGPrefix(tr mode.Transition, r rune) []host.Message {
	cursor := ex.Host.CursorGet()

	switch r {
	case 'g':
		mr := motionGotoLine(ex, cursor, tr.Count, hasExplicitCount(ex))
		if tr.SubMode != mode.NoSubMode {
			rg := ex.rangeFromMotion(cursor, mr)
			newCursor, err := ex.applyOperator(tr.SubMode, rg, ex.Model.Registers.Active())
			ex.Machine.State.CloseSubMode()
			if err != nil {
				return []host.Message{{Level: host.Error, Text: err.Error()}}
			}
			ex.Host.CursorSet(newCursor)
			ex.finishOperator(tr.SubMode, tr.SubMode.Letter()+"gg", tr.Count)
			return nil
		}
		ex.Model.Jumps.Push(edit.JumpPoint{Position: cursor})
		ex.Host.CursorSet(mr.pos)
		return nil

	case 'U':
		ex.Machine.State.OpenSubMode(mode.OpUpperCase)
		return nil
	case 'u':
		ex.Machine.State.OpenSubMode(mode.OpLowerCase)
		return nil
	case '~':
		ex.Machine.State.OpenSubMode(mode.OpSwapCase)
		return nil

	case 'v':
		mk, err := ex.Model.Marks.Get('<')
		if err != nil {
			return nil
		}
		hi, err2 := ex.Model.Marks.Get('>')
		if err2 != nil {
			return nil
		}
		ex.visualAnchor = mk.Pos
		ex.Machine.State.Visual = mode.VisualChar
		ex.Host.CursorSet(hi.Pos)
		return nil

	case 'i':
		mk, err := ex.Model.Marks.Get('.')
		if err == nil {
			ex.Host.CursorSet(mk.Pos)
		}
		ex.beginDot("gi", tr.Count)
		ex.enterInsert()
		return nil
	}

	return nil
}

// dispatchZUpper handles ZZ (write and quit) / ZQ (quit without
// saving), the original FakeVim's one-shot quit commands (SPEC_FULL.md
// §C.4). Both are no-ops if the host does not implement
// OptionalQuitRequester.
func (ex *Executor) dispatchZUpper(r rune) []host.Message {
	switch r {
	case 'Z':
		if name := ex.Host.CurrentFileName(); name != "" {
			_ = ex.Host.WriteFile(name, edit.NewRange(0, ex.bufferEnd(), edit.Char))
		}
		if q, ok := ex.Host.(host.OptionalQuitRequester); ok {
			q.RequestQuit(true)
		}
	case 'Q':
		if q, ok := ex.Host.(host.OptionalQuitRequester); ok {
			q.RequestQuit(false)
		}
	}
	return nil
}

func (ex *Executor) dispatchBracketSection(tr mode.Transition, r rune) []host.Message {
	cursor := ex.Host.CursorGet()
	obj := ex.paragraphObject(cursor, false)
	if !obj.ok {
		return nil
	}
	pos := obj.r.Begin
	if tr.SubSubMode == mode.SSBracketFwd {
		pos = obj.r.End
	}
	ex.Host.CursorSet(pos)
	return nil
}
