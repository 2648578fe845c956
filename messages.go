package fakevim

import (
	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
)

// Message, MessageLevel and HostBridge are re-exported at the top
// level so an embedder implementing a host need only import this one
// package, the way the teacher's root readline package re-exports its
// internal/core key and line types.
type (
	Message      = host.Message
	MessageLevel = host.MessageLevel
	HostBridge   = host.Bridge
)

// Message severities.
const (
	Info    = host.Info
	Warning = host.Warning
	Error   = host.Error
)

// Input, Inputs and Key are re-exported for the same reason; an
// embedder's terminal-reading loop builds Input values to feed
// Engine.HandleInput without a separate import.
type (
	Input    = input.Input
	Inputs   = input.Inputs
	Key      = input.Key
	Modifier = input.Modifier
)

// Modifier bits, re-exported from internal/input.
const (
	ModNone    = input.ModNone
	ModControl = input.ModControl
	ModAlt     = input.ModAlt
	ModShift   = input.ModShift
)

// Key codes, re-exported from internal/input.
const (
	KeyRune      = input.KeyRune
	KeyEscape    = input.KeyEscape
	KeyCR        = input.KeyCR
	KeyTab       = input.KeyTab
	KeyBackspace = input.KeyBackspace
	KeyUp        = input.KeyUp
	KeyDown      = input.KeyDown
	KeyLeft      = input.KeyLeft
	KeyRight     = input.KeyRight
	KeyHome      = input.KeyHome
	KeyEnd       = input.KeyEnd
	KeyPageUp    = input.KeyPageUp
	KeyPageDown  = input.KeyPageDown
	KeySpace     = input.KeySpace
)

// ParseInputs parses Vim key notation into an Inputs sequence (see
// internal/input for the accepted grammar).
func ParseInputs(s string) (Inputs, error) {
	return input.ParseInputs(s)
}

// Range, BracketMatch and OptionalQuitRequester are re-exported for the
// same reason as Message and Input above: a host.Bridge implementation
// outside this module needs these types without reaching into
// internal/edit or internal/host directly.
type (
	Range                 = edit.Range
	BracketMatch          = host.BracketMatch
	OptionalQuitRequester = host.OptionalQuitRequester
)

// Range modes, re-exported from internal/edit.
const (
	RangeChar          = edit.Char
	RangeLine          = edit.Line
	RangeLineExclusive = edit.LineExclusive
	RangeBlock         = edit.Block
	RangeBlockAndTail  = edit.BlockAndTail
)
