package fakevim

import (
	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/input"
)

// EngineGlobals holds the state spec.md's REDESIGN FLAGS section
// singles out as process-global in the original (a single static
// GlobalData struct for registers and the mapping table): registers
// a-z/0-9/"/+/* and uppercase marks A-Z, plus the shared :map table.
// An application constructs exactly one and passes it by reference
// into every per-buffer Engine it creates, rather than relying on a
// package-level variable — safe to do even though the engine itself is
// single-threaded, per spec.md's explicit redesign note.
type EngineGlobals struct {
	Registers   *edit.Registers
	GlobalMarks *edit.GlobalMarks
	Mappings    *input.Table
}

// NewEngineGlobals returns a fresh EngineGlobals. clip is consulted for
// the '+'/'*' clipboard registers; pass nil if the embedding has no
// system clipboard to offer.
func NewEngineGlobals(clip edit.ClipboardHost) *EngineGlobals {
	return &EngineGlobals{
		Registers:   edit.NewRegisters(clip),
		GlobalMarks: edit.NewGlobalMarks(),
		Mappings:    input.NewTable(),
	}
}
