// Package input tokenizes raw host key events into Input values and
// Inputs sequences, and implements the key-notation parser used by
// :map, :normal and the dot command (<C-x>, <CR>, <Esc>, ...).
package input

import (
	"fmt"
	"strings"
)

// Key is an abstract, host-agnostic key code. Printable keys carry their
// rune in Text and Key is set to KeyRune; the remaining values are the
// non-printable keys the engine needs to recognize by name.
type Key int

// Recognized non-printable keys. Printable keys use KeyRune and carry
// their character in Input.Text.
const (
	KeyRune Key = iota
	KeyEscape
	KeyCR
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeySpace
)

// Modifier is a reduced, host-agnostic modifier mask. Shift is folded
// into the produced text by the host and is not represented here,
// except when no text is produced (e.g. <S-Tab>).
type Modifier uint8

// Modifier bits. Control is the only one that is semantically
// significant to the engine; Alt and Shift are carried for
// completeness and for the :map notation round-trip.
const (
	ModNone    Modifier = 0
	ModControl Modifier = 1 << 0
	ModAlt     Modifier = 1 << 1
	ModShift   Modifier = 1 << 2
)

// Input is a single abstract key event.
type Input struct {
	Key  Key
	Mod  Modifier
	Text string
}

// Equal reports whether two Inputs are equal key, modifier and text.
func (i Input) Equal(o Input) bool {
	return i.Key == o.Key && i.Mod == o.Mod && i.Text == o.Text
}

// MatchesForMap reports whether two Inputs are considered the same key
// for the purpose of mapping-table lookup: shift is ignored, since it
// is already folded into Text for printable keys.
func (i Input) MatchesForMap(o Input) bool {
	maskedi := i.Mod &^ ModShift
	maskedo := o.Mod &^ ModShift
	return i.Key == o.Key && maskedi == maskedo && i.Text == o.Text
}

// String renders the Input using Vim key notation, e.g. "<C-a>", "a", "<CR>".
func (i Input) String() string {
	name, special := keyName(i.Key)
	if !special && i.Mod == ModNone {
		return i.Text
	}

	if !special {
		name = i.Text
	}

	var mods strings.Builder
	if i.Mod&ModControl != 0 {
		mods.WriteString("C-")
	}
	if i.Mod&ModAlt != 0 {
		mods.WriteString("A-")
	}
	if i.Mod&ModShift != 0 {
		mods.WriteString("S-")
	}

	return fmt.Sprintf("<%s%s>", mods.String(), name)
}

func keyName(k Key) (name string, special bool) {
	switch k {
	case KeyEscape:
		return "Esc", true
	case KeyCR:
		return "CR", true
	case KeyTab:
		return "Tab", true
	case KeyBackspace:
		return "BS", true
	case KeyUp:
		return "Up", true
	case KeyDown:
		return "Down", true
	case KeyLeft:
		return "Left", true
	case KeyRight:
		return "Right", true
	case KeyHome:
		return "Home", true
	case KeyEnd:
		return "End", true
	case KeyPageUp:
		return "PageUp", true
	case KeyPageDown:
		return "PageDown", true
	case KeySpace:
		return "Space", true
	default:
		return "", false
	}
}

// Inputs is an ordered sequence of Input.
type Inputs []Input

// String renders the sequence back to Vim notation, concatenated.
func (in Inputs) String() string {
	var b strings.Builder
	for _, i := range in {
		b.WriteString(i.String())
	}
	return b.String()
}

// HasPrefix reports whether in starts with prefix, comparing with
// MatchesForMap semantics (shift-insensitive).
func (in Inputs) HasPrefix(prefix Inputs) bool {
	if len(prefix) > len(in) {
		return false
	}
	for i, p := range prefix {
		if !in[i].MatchesForMap(p) {
			return false
		}
	}
	return true
}

// Equal compares two sequences with MatchesForMap semantics.
func (in Inputs) Equal(o Inputs) bool {
	if len(in) != len(o) {
		return false
	}
	for i := range in {
		if !in[i].MatchesForMap(o[i]) {
			return false
		}
	}
	return true
}

var namedKeys = map[string]Key{
	"esc":      KeyEscape,
	"escape":   KeyEscape,
	"cr":       KeyCR,
	"return":   KeyCR,
	"enter":    KeyCR,
	"tab":      KeyTab,
	"bs":       KeyBackspace,
	"up":       KeyUp,
	"down":     KeyDown,
	"left":     KeyLeft,
	"right":    KeyRight,
	"home":     KeyHome,
	"end":      KeyEnd,
	"pageup":   KeyPageUp,
	"pagedown": KeyPageDown,
	"space":    KeySpace,
}

// ParseInputs parses a string containing Vim key notation, e.g.
// "dw<CR>", "<C-a>x", into an Inputs sequence. Notation inside angle
// brackets is case-insensitive; mixed forms like "<c-a>" and "<C-A>"
// are both accepted.
func ParseInputs(s string) (Inputs, error) {
	var out Inputs

	runes := []rune(s)
	for i := 0; i < len(runes); {
		if runes[i] == '<' {
			end := indexRune(runes[i+1:], '>')
			if end == -1 {
				// Not a closed notation: treat '<' literally.
				out = append(out, Input{Key: KeyRune, Text: "<"})
				i++
				continue
			}

			notation := string(runes[i+1 : i+1+end])
			in, err := parseNotation(notation)
			if err != nil {
				return nil, err
			}

			out = append(out, in)
			i += end + 2
			continue
		}

		out = append(out, Input{Key: KeyRune, Text: string(runes[i])})
		i++
	}

	return out, nil
}

func indexRune(runes []rune, target rune) int {
	for i, r := range runes {
		if r == target {
			return i
		}
	}
	return -1
}

// parseNotation parses the content of a single <...> token, e.g. "C-a",
// "CR", "c-A", "S-Tab".
func parseNotation(notation string) (Input, error) {
	parts := strings.Split(notation, "-")

	var mod Modifier
	for len(parts) > 1 {
		switch strings.ToLower(parts[0]) {
		case "c":
			mod |= ModControl
		case "a", "m":
			mod |= ModAlt
		case "s":
			mod |= ModShift
		default:
			// Not a modifier prefix (e.g. the lone token was "PageUp"
			// split on a literal '-' that isn't there); stop peeling.
			goto peeled
		}
		parts = parts[1:]
	}
peeled:

	if len(parts) != 1 {
		return Input{}, fmt.Errorf("input: malformed key notation <%s>", notation)
	}

	rest := parts[0]
	if key, ok := namedKeys[strings.ToLower(rest)]; ok {
		return Input{Key: key, Mod: mod}, nil
	}

	if len([]rune(rest)) != 1 {
		return Input{}, fmt.Errorf("input: unknown key notation <%s>", notation)
	}
	if mod&ModControl != 0 {
		rest = strings.ToLower(rest)
	}

	return Input{Key: KeyRune, Mod: mod, Text: rest}, nil
}
