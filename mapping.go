package fakevim

import "github.com/fakevim/fakevim/internal/input"

// ModeCode identifies which mapping table a call affects, mirroring
// :map's mode-letter suffixes (":nmap", ":vmap", ...).
type ModeCode = input.ModeCode

// Mapping mode codes, re-exported so callers need not import
// internal/input directly.
const (
	ModeNormal   = input.ModeNormal
	ModeInsert   = input.ModeInsert
	ModeVisual   = input.ModeVisual
	ModeVisBlock = input.ModeVisBlock
	ModeOpPend   = input.ModeOpPend
	ModeSelect   = input.ModeSelect
	ModeLangmap  = input.ModeLangmap
	ModeCmdline  = input.ModeCmdline
)

// AddMapping installs a key mapping in Vim notation (e.g. "jj" ->
// "<Esc>") for mc, the programmatic equivalent of `:map`/`:noremap`.
// recursive selects :map (true, the lhs re-expands through the table)
// versus :noremap (false, literal replay) semantics.
func (e *Engine) AddMapping(mc ModeCode, lhs, rhs string, recursive bool) error {
	l, err := input.ParseInputs(lhs)
	if err != nil {
		return err
	}
	r, err := input.ParseInputs(rhs)
	if err != nil {
		return err
	}
	e.globals.Mappings.Set(mc, l, r, recursive)
	return nil
}

// RemoveMapping removes a mapping previously installed by AddMapping
// or `:map`/`:noremap`, the programmatic equivalent of `:unmap`.
func (e *Engine) RemoveMapping(mc ModeCode, lhs string) error {
	l, err := input.ParseInputs(lhs)
	if err != nil {
		return err
	}
	e.globals.Mappings.Unset(mc, l)
	return nil
}

// ClearMappings removes every mapping installed for mc.
func (e *Engine) ClearMappings(mc ModeCode) {
	e.globals.Mappings.Clear(mc)
}
