package input

import "time"

// FlushTimeout is the duration the pipeline waits for more input before
// assuming "no further input coming" and flushing a pending, ambiguous
// sequence to the sink as literal input (see onTimeout); the flush
// does not consult the mapping table again.
const FlushTimeout = 1000 * time.Millisecond

// Sink receives the fully-resolved Input stream, one Input at a time,
// in strict arrival order.
type Sink interface {
	Dispatch(Input)
}

// Pipeline buffers raw key events, resolves them against a mapping
// Table, and times out ambiguous partial sequences. It is the
// InputPipeline of the engine: single-threaded, cooperative, and the
// only piece of engine state that crosses event boundaries without
// being owned by a call frame (the pending buffer).
type Pipeline struct {
	table *Table
	sink  Sink

	pending Inputs
	timer   *time.Timer

	// passing, when true, forwards exactly the next keystroke to the
	// host without modal processing, then clears itself.
	passing bool

	// PassControlKey mirrors the "passControlKey" setting: when true,
	// shortcut override arbitration yields every control-like key to
	// the host instead of the engine.
	PassControlKey bool

	// ModeCode is consulted on every Feed to select the mapping table;
	// the owner (ModeMachine) updates it as modes change.
	ModeCode func() ModeCode
}

// NewPipeline constructs a Pipeline dispatching resolved Inputs to sink
// using table for mapping resolution.
func NewPipeline(table *Table, sink Sink) *Pipeline {
	return &Pipeline{table: table, sink: sink, ModeCode: func() ModeCode { return ModeNormal }}
}

// WantsOverride performs shortcut override arbitration for a
// control-like key (Ctrl-A..Z except Ctrl-K, plus Ctrl-[ / Ctrl-]):
// the engine claims it unless PassControlKey is set or the pipeline is
// currently in a passing turn.
func (p *Pipeline) WantsOverride(in Input) bool {
	if in.Mod&ModControl == 0 {
		return false
	}

	if !isControlLike(in) {
		return false
	}

	if p.passing {
		return false
	}

	return !p.PassControlKey
}

func isControlLike(in Input) bool {
	if len(in.Text) != 1 {
		return false
	}
	c := in.Text[0]
	if c == '[' || c == ']' {
		return true
	}
	lower := c | 0x20
	if lower == 'k' {
		return false
	}
	return lower >= 'a' && lower <= 'z'
}

// BeginPassing arms a one-shot passthrough: the very next keystroke fed
// to the pipeline is forwarded to the sink raw, bypassing mapping
// resolution, and the flag self-clears.
func (p *Pipeline) BeginPassing() {
	p.passing = true
}

// Feed appends a raw key event to the pending buffer and attempts
// resolution. It returns nothing; resolved Inputs reach the caller only
// through sink.Dispatch.
func (p *Pipeline) Feed(in Input) {
	if p.passing {
		p.passing = false
		p.stopTimer()
		p.sink.Dispatch(in)
		return
	}

	p.pending = append(p.pending, in)
	p.resolve()
}

// resolve drives the mapping resolver against the pending buffer until
// it is either fully dispatched or left undecided awaiting more input.
func (p *Pipeline) resolve() {
	for len(p.pending) > 0 {
		status, result := Resolve(p.table, p.ModeCode(), p.pending)

		switch status {
		case StatusResolved:
			p.pending = nil
			p.stopTimer()
			for _, r := range result {
				p.sink.Dispatch(r)
			}
			return

		case StatusUndecided:
			p.armTimer()
			return

		case StatusPassthrough:
			head := p.pending[0]
			p.pending = p.pending[1:]
			p.sink.Dispatch(head)
			// Loop again: the remainder is reconsidered from scratch.
		}
	}

	p.stopTimer()
}

// armTimer (re)starts the single-shot flush timer.
func (p *Pipeline) armTimer() {
	p.stopTimer()
	p.timer = time.AfterFunc(FlushTimeout, p.onTimeout)
}

func (p *Pipeline) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// onTimeout is the timer callback: it re-enters the pipeline with a
// "flush pending" signal, assuming no further input is coming, and
// dispatches the pending buffer as literal (unmapped) input.
func (p *Pipeline) onTimeout() {
	pending := p.pending
	p.pending = nil
	p.timer = nil

	for _, in := range pending {
		p.sink.Dispatch(in)
	}
}

// Flush forces an immediate timeout-equivalent flush, for hosts/tests
// that don't want to wait out FlushTimeout.
func (p *Pipeline) Flush() {
	p.stopTimer()
	p.onTimeout()
}

// Pending returns a copy of the currently buffered, unresolved input.
func (p *Pipeline) Pending() Inputs {
	out := make(Inputs, len(p.pending))
	copy(out, p.pending)
	return out
}
