// Package fakevim is an embeddable, Vim-compatible modal editing
// engine. It owns no text storage and no terminal I/O; an embedder
// supplies a host.Bridge and drives the engine by feeding it key
// events, the same callback-interface shape the teacher's own
// readline engine uses for its line buffer and terminal output.
//
// A typical embedder constructs one EngineGlobals per process (the
// state Vim itself keeps as process-global: registers, marks A-Z, the
// :map table) and one Engine per open buffer, sharing the globals:
//
//	globals := fakevim.NewEngineGlobals(hostBridge)
//	eng := fakevim.New(hostBridge, globals)
//	for event := range keyEvents {
//		msgs := eng.HandleInput(event)
//		// show msgs on the status line
//	}
//
// See cmd/fakevim-demo for a complete, minimal terminal embedding.
package fakevim
