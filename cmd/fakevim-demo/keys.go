package main

import "github.com/fakevim/fakevim"

// decodeByte turns one raw terminal byte into a fakevim.Input. Escape
// sequences (arrow keys, function keys) are not decoded here: with the
// terminal in raw mode there is no cheap way to tell a standalone Esc
// from the start of a longer sequence without an extra blocking read,
// and hjkl cover the motions this demo exercises, so 0x1b always reads
// as a bare <Esc>.
func decodeByte(b byte) fakevim.Input {
	switch b {
	case 0x1b:
		return fakevim.Input{Key: fakevim.KeyEscape}
	case '\r', '\n':
		return fakevim.Input{Key: fakevim.KeyCR}
	case '\t':
		return fakevim.Input{Key: fakevim.KeyTab}
	case 0x7f, 0x08:
		return fakevim.Input{Key: fakevim.KeyBackspace}
	}

	if b >= 1 && b <= 26 && b != 0x09 && b != 0x0d {
		return fakevim.Input{Key: fakevim.KeyRune, Mod: fakevim.ModControl, Text: string(rune('a' + b - 1))}
	}

	return fakevim.Input{Key: fakevim.KeyRune, Text: string(rune(b))}
}
