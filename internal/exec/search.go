package exec

import (
	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
)

// searchRepeat implements `n`/`N`: repeat the last `/`, `?`, `*` or `#`
// search, reusing its remembered pattern and direction (reverse flips
// it for this one search, per spec.md §4.6's "N in terms of n").
func (ex *Executor) searchRepeat(cursor int, reverse bool) []host.Message {
	remembered := ex.Search.LastForward
	res, err := ex.Search.Repeat(ex.Host, ex.Settings, cursor, reverse)
	ex.Search.LastForward = remembered
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Model.Jumps.Push(edit.JumpPoint{Position: cursor})
	ex.Host.CursorSet(res.Pos)
	if res.Wrapped {
		return []host.Message{{Level: host.Info, Text: wrapMessage(remembered != reverse)}}
	}
	return nil
}

// searchWord implements `*`/`#`: build `\<word\>` from the keyword run
// under the cursor and run a full forward/backward search for it
// (spec.md §4.6).
func (ex *Executor) searchWord(cursor int, forward bool) []host.Message {
	text := []rune(ex.mustFullText())
	n := len(text)
	if cursor >= n || classify(text[cursor]) != classKeyword {
		return nil
	}

	begin := cursor
	for begin > 0 && classify(text[begin-1]) == classKeyword {
		begin--
	}
	end := cursor
	for end+1 < n && classify(text[end+1]) == classKeyword {
		end++
	}
	end++

	pattern := `\<` + string(text[begin:end]) + `\>`
	res, err := ex.Search.Find(ex.Host, ex.Settings, pattern, cursor, forward)
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}
	ex.Model.Jumps.Push(edit.JumpPoint{Position: cursor})
	ex.Host.CursorSet(res.Pos)
	if res.Wrapped {
		return []host.Message{{Level: host.Info, Text: wrapMessage(forward)}}
	}
	return nil
}

func wrapMessage(forward bool) string {
	if forward {
		return "search hit BOTTOM, continuing at TOP"
	}
	return "search hit TOP, continuing at BOTTOM"
}
