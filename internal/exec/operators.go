package exec

import (
	"strings"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/mode"
)

// rangeFromMotion turns a cursor position plus a motionResult into the
// Range an operator should act on, applying the inclusive-extend and
// linewise-extend rules of spec.md §4.4.
func (ex *Executor) rangeFromMotion(cursor int, mr motionResult) edit.Range {
	lo, hi := cursor, mr.pos
	if lo > hi {
		lo, hi = hi, lo
	}

	switch mr.move {
	case edit.MoveLinewise:
		lineA := ex.lineOf(lo)
		lineB := ex.lineOf(hi)
		begin := ex.Host.LineStart(lineA)
		end := ex.Host.LineEnd(lineB)
		if lineB < ex.Host.LineCount() {
			end++
		}
		return edit.NewRange(begin, end, edit.Line)
	case edit.MoveInclusive:
		end := hi + 1
		if bufEnd := ex.bufferEnd(); end > bufEnd {
			end = bufEnd
		}
		return edit.NewRange(lo, end, edit.Char)
	default:
		return edit.NewRange(lo, hi, edit.Char)
	}
}

// ApplyOperatorRange runs operator sub over an explicit range, for
// callers outside the normal motion/visual dispatch path (internal/ex's
// `:d`, `:>`, `:<`, and anything else that names a range directly
// rather than deriving one from a motion).
func (ex *Executor) ApplyOperatorRange(sub mode.SubMode, r edit.Range, register byte) (int, error) {
	return ex.applyOperator(sub, r, register)
}

// applyOperator performs sub over r, writing to the named register
// where the operator produces register content (delete/change/yank),
// and leaves the cursor position the operator should report back to
// the caller so it can position the host cursor.
func (ex *Executor) applyOperator(sub mode.SubMode, r edit.Range, register byte) (newCursor int, err error) {
	ex.Host.UndoBeginBlock()
	defer ex.Host.UndoEndBlock()

	switch sub {
	case mode.OpDelete:
		ex.Model.RecordUndoCursor(r.Begin)
		_, err = ex.Model.Delete(register, r)
		return r.Begin, err

	case mode.OpChange:
		ex.Model.RecordUndoCursor(r.Begin)
		applyRange := r
		if r.Mode == edit.Line {
			// `c` over a linewise range preserves the line instead of
			// removing the newline, per spec.md §4.4: it behaves like a
			// LineExclusive delete that leaves one empty line behind.
			applyRange = r.WithMode(edit.LineExclusive)
			if applyRange.End > applyRange.Begin {
				last, rerr := ex.Host.BufferRead(edit.NewRange(applyRange.End-1, applyRange.End, edit.Char))
				if rerr == nil && last == "\n" {
					applyRange.End--
				}
			}
		}
		_, err = ex.Model.Delete(register, applyRange)
		return applyRange.Begin, err

	case mode.OpYank:
		text, rerr := ex.Host.BufferRead(r)
		if rerr != nil {
			return r.Begin, rerr
		}
		ex.Model.Yank(register, text, r.Mode)
		return r.Begin, nil

	case mode.OpUpperCase:
		ex.Model.RecordUndoCursor(r.Begin)
		_, err = ex.Model.Apply(r, edit.UpCase)
		return r.Begin, err

	case mode.OpLowerCase:
		ex.Model.RecordUndoCursor(r.Begin)
		_, err = ex.Model.Apply(r, edit.DownCase)
		return r.Begin, err

	case mode.OpSwapCase:
		ex.Model.RecordUndoCursor(r.Begin)
		_, err = ex.Model.Apply(r, edit.InvertCase)
		return r.Begin, err

	case mode.OpShiftLeft, mode.OpShiftRight:
		return ex.applyShift(sub, r)

	case mode.OpIndentEqual:
		begin := ex.lineOf(r.Begin)
		end := ex.lineOf(r.End)
		if end > begin && r.End == ex.Host.LineStart(end) {
			end--
		}
		ex.Host.IndentRegion(begin, end, 0)
		return r.Begin, nil

	case mode.OpFilter:
		return ex.applyFilter(r)
	}

	return r.Begin, nil
}

// applyShift re-indents every line of r left or right by one
// 'shiftwidth', per spec.md §4.4's `<<`/`>>`/`<motion`/`>motion`.
func (ex *Executor) applyShift(sub mode.SubMode, r edit.Range) (int, error) {
	width := ex.Settings.Int("shiftwidth")
	lineA := ex.lineOf(r.Begin)
	lineB := ex.lineOf(r.End)
	if lineB > lineA && r.End == ex.Host.LineStart(lineB) {
		lineB--
	}

	ex.Model.RecordUndoCursor(r.Begin)

	for line := lineA; line <= lineB; line++ {
		lo := ex.Host.LineStart(line)
		hi := ex.Host.LineEnd(line)
		text, err := ex.Host.BufferRead(edit.NewRange(lo, hi, edit.Char))
		if err != nil {
			return r.Begin, err
		}
		if text == "" {
			continue
		}

		var shifted string
		if sub == mode.OpShiftRight {
			shifted = strings.Repeat(" ", width) + text
		} else {
			shifted = unindent(text, width)
		}

		if shifted == text {
			continue
		}
		if _, err := ex.Model.Apply(edit.NewRange(lo, hi, edit.Char), edit.ReplaceByString(shifted)); err != nil {
			return r.Begin, err
		}
	}

	return ex.Host.LineStart(lineA), nil
}

func unindent(text string, width int) string {
	removed := 0
	i := 0
	for i < len(text) && removed < width {
		switch text[i] {
		case ' ':
			removed++
			i++
		case '\t':
			removed += width
			i++
		default:
			i = len(text)
		}
	}
	return text[i:]
}

// applyFilter pipes r's text through an external command via the host
// bridge (`!motion` / `:range!cmd`), replacing the range with whatever
// the process wrote to stdout.
func (ex *Executor) applyFilter(r edit.Range) (int, error) {
	text, err := ex.Host.BufferRead(r)
	if err != nil {
		return r.Begin, err
	}

	out, err := ex.Host.SpawnProcess(ex.pendingFilterCmd, text)
	if err != nil {
		return r.Begin, err
	}

	ex.Model.RecordUndoCursor(r.Begin)
	if _, err := ex.Model.Apply(r, edit.ReplaceByString(out)); err != nil {
		return r.Begin, err
	}
	return r.Begin, nil
}
