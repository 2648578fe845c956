package search

import (
	"errors"
	"regexp"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/settings"
)

// ErrPatternNotFound is returned when a search pattern has no match in
// the buffer (wrapscan or not).
var ErrPatternNotFound = errors.New("search: pattern not found")

// Result is one resolved search: where it landed, and whether getting
// there required wrapping around an end of the buffer (for the
// "search hit BOTTOM, continuing at TOP" message, spec.md §4.6).
type Result struct {
	Pos     int
	Wrapped bool
}

// Engine is the SearchEngine: it holds the last pattern/direction for
// `n`/`N` and drives both full and incremental search over a buffer
// supplied by the caller (the engine itself has no notion of "the
// current buffer"; each fakevim Engine constructs its own).
type Engine struct {
	LastPattern   string
	LastForward   bool
	History       []string

	// isearchAnchor is the cursor position incremental search started
	// from, restored if the search is cancelled.
	isearchAnchor int
	isearching    bool

	// suppressed mirrors `:nohlsearch`: highlights stay off until the
	// next search commits a new pattern.
	suppressed bool
}

// New returns an Engine with no remembered pattern.
func New() *Engine {
	return &Engine{LastForward: true}
}

// compile translates and compiles pattern against the given settings.
func compile(pattern string, s *settings.Settings) (*regexp.Regexp, error) {
	translated, flag := Translate(pattern)
	ignoreCase := EffectiveIgnoreCase(flag, s.Bool("ignorecase"), s.Bool("smartcase"), pattern)
	if ignoreCase {
		translated = "(?i)" + translated
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, errors.New("search: invalid pattern")
	}
	return re, nil
}

// fullText reads the entire buffer as one string.
func fullText(buf edit.Buffer) (string, error) {
	n := buf.LineCount()
	end := buf.LineEnd(n)
	return buf.BufferRead(edit.NewRange(0, end, edit.Char))
}

// Find performs a full (non-incremental) search for pattern starting
// from cursor, honoring direction and 'wrapscan'. It records pattern
// and direction as the new "last search" for `n`/`N`.
func (e *Engine) Find(buf edit.Buffer, s *settings.Settings, pattern string, cursor int, forward bool) (Result, error) {
	if pattern == "" {
		pattern = e.LastPattern
	}
	if pattern == "" {
		return Result{}, errors.New("search: no previous pattern")
	}

	re, err := compile(pattern, s)
	if err != nil {
		return Result{}, err
	}

	text := []rune(mustFullText(buf))
	matches := re.FindAllStringIndex(string(text), -1)
	if len(matches) == 0 {
		return Result{}, ErrPatternNotFound
	}

	e.LastPattern = pattern
	e.LastForward = forward
	e.suppressed = false
	e.pushHistory(pattern)

	positions := byteOffsetsToRunes(mustFullText(buf), matches)

	if forward {
		for _, p := range positions {
			if p > cursor {
				return Result{Pos: p}, nil
			}
		}
		if !s.Bool("wrapscan") {
			return Result{}, ErrPatternNotFound
		}
		return Result{Pos: positions[0], Wrapped: true}, nil
	}

	for i := len(positions) - 1; i >= 0; i-- {
		if positions[i] < cursor {
			return Result{Pos: positions[i]}, nil
		}
	}
	if !s.Bool("wrapscan") {
		return Result{}, ErrPatternNotFound
	}
	return Result{Pos: positions[len(positions)-1], Wrapped: true}, nil
}

// Repeat finds the next occurrence of the last pattern. reverse flips
// the remembered direction, implementing `N` in terms of `n`.
func (e *Engine) Repeat(buf edit.Buffer, s *settings.Settings, cursor int, reverse bool) (Result, error) {
	forward := e.LastForward
	if reverse {
		forward = !forward
	}
	return e.Find(buf, s, e.LastPattern, cursor, forward)
}

// IsearchStart begins an incremental search from anchor, remembered so
// IsearchCancel can restore the cursor on cancel.
func (e *Engine) IsearchStart(anchor int) {
	e.isearching = true
	e.isearchAnchor = anchor
}

// IsearchUpdate previews where pattern would land without committing
// it as the last search, per spec.md §4.6's "the real cursor does not
// move until the search is confirmed".
func (e *Engine) IsearchUpdate(buf edit.Buffer, s *settings.Settings, pattern string, forward bool) (Result, bool) {
	if !e.isearching || pattern == "" {
		return Result{Pos: e.isearchAnchor}, false
	}
	lastPattern, lastForward, history, suppressed := e.LastPattern, e.LastForward, e.History, e.suppressed
	res, err := e.Find(buf, s, pattern, e.isearchAnchor, forward)
	e.LastPattern, e.LastForward, e.History, e.suppressed = lastPattern, lastForward, history, suppressed
	if err != nil {
		return Result{Pos: e.isearchAnchor}, false
	}
	return res, true
}

// IsearchCancel ends an incremental search, returning the anchor
// position the caller should restore the cursor to.
func (e *Engine) IsearchCancel() int {
	e.isearching = false
	return e.isearchAnchor
}

// IsearchConfirm ends an incremental search, committing pattern/forward
// as the new last search.
func (e *Engine) IsearchConfirm(pattern string, forward bool) {
	e.isearching = false
	e.LastPattern = pattern
	e.LastForward = forward
	e.suppressed = false
	e.pushHistory(pattern)
}

// Suppress implements `:nohlsearch`: highlight painting stays off until
// the next search records a new pattern.
func (e *Engine) Suppress() {
	e.suppressed = true
}

// HighlightRanges returns every match of the last pattern in buf, for a
// host that paints 'hlsearch' highlights via SelectionSet. It returns
// ok=false when there is nothing to paint: no previous pattern,
// 'hlsearch' off, or a pending `:nohlsearch`.
func (e *Engine) HighlightRanges(buf edit.Buffer, s *settings.Settings) ([]edit.Range, bool) {
	if e.suppressed || !s.Bool("hlsearch") || e.LastPattern == "" {
		return nil, false
	}

	re, err := compile(e.LastPattern, s)
	if err != nil {
		return nil, false
	}

	text := mustFullText(buf)
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil, false
	}

	positions := byteOffsetsToRunes(text, matches)
	out := make([]edit.Range, 0, len(matches))
	for i, m := range matches {
		length := len([]rune(text[m[0]:m[1]]))
		out = append(out, edit.NewRange(positions[i], positions[i]+length, edit.Char))
	}
	return out, true
}

func (e *Engine) pushHistory(pattern string) {
	if len(e.History) > 0 && e.History[len(e.History)-1] == pattern {
		return
	}
	e.History = append(e.History, pattern)
}

func mustFullText(buf edit.Buffer) string {
	text, err := fullText(buf)
	if err != nil {
		return ""
	}
	return text
}

// byteOffsetsToRunes converts regexp's byte-offset match indices
// (Go strings/regexp work in bytes) to rune offsets, since the rest of
// the engine addresses buffer positions as rune offsets per spec.md §1.
func byteOffsetsToRunes(text string, matches [][]int) []int {
	out := make([]int, 0, len(matches))
	runeIdx := 0
	byteIdx := 0
	byteToRune := make(map[int]int, len(text))
	for _, r := range text {
		byteToRune[byteIdx] = runeIdx
		byteIdx += runeLen(r)
		runeIdx++
	}
	byteToRune[byteIdx] = runeIdx

	for _, m := range matches {
		out = append(out, byteToRune[m[0]])
	}
	return out
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
