// Package ex implements the ExInterpreter (spec.md §4.7): parsing a
// `:`-prefixed command line into a range, command word and arguments,
// and dispatching it against the same Executor/Model/Search/Settings
// instances the normal-mode CommandExecutor uses.
package ex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/exec"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
	"github.com/fakevim/fakevim/internal/settings"
)

// ExCommandHost is an optional host capability: a hook for commands
// this interpreter does not itself understand, per spec.md §4.7's
// "unknown commands are delegated to the host". Checked with a type
// assertion, like host.OptionalQuitRequester.
type ExCommandHost interface {
	HandleExCommand(name, args string) (handled bool, err error)
}

// Interpreter is the ExInterpreter. One is constructed per buffer,
// sharing its Executor with the CommandExecutor driving normal-mode
// input (the root package wires the two together).
type Interpreter struct {
	Ex       *exec.Executor
	Mappings *input.Table
	History  []string

	lastSubPattern string
	lastSubRepl    string
	lastSubFlags   string
}

// New returns an Interpreter around ex, with an empty mapping table.
func New(ex *exec.Executor) *Interpreter {
	return &Interpreter{Ex: ex, Mappings: input.NewTable()}
}

// Execute parses and runs one ex command line (without its leading
// `:`). It satisfies exec.ExRunner, so internal/exec can call back into
// `:normal`'s interpreter without importing this package.
func (i *Interpreter) Execute(line string) error {
	if line == "" {
		return nil
	}
	i.History = append(i.History, line)

	if strings.HasPrefix(strings.TrimSpace(line), `"`) {
		return nil // comment line, e.g. inside a sourced rc file
	}

	pc, err := parseLine(i, line)
	if err != nil {
		return err
	}

	return i.run(pc)
}

func (i *Interpreter) currentLine() int {
	return i.lineOf(i.Ex.Host.CursorGet())
}

func (i *Interpreter) lastLine() int {
	return i.Ex.Host.LineCount()
}

func (i *Interpreter) markLine(name byte) (int, bool) {
	mk, err := i.Ex.Model.Marks.Get(name)
	if err != nil {
		return 0, false
	}
	return i.lineOf(mk.Pos), true
}

func (i *Interpreter) lineOf(pos int) int {
	n := i.Ex.Host.LineCount()
	for line := 1; line <= n; line++ {
		if pos >= i.Ex.Host.LineStart(line) && pos <= i.Ex.Host.LineEnd(line) {
			return line
		}
	}
	return n
}

func (i *Interpreter) rangeOf(pc ParsedCommand) edit.Range {
	begin := i.Ex.Host.LineStart(pc.Line1)
	end := i.Ex.Host.LineEnd(pc.Line2)
	if pc.Line2 < i.lastLine() {
		end++
	}
	return edit.NewRange(begin, end, edit.Line)
}

func (i *Interpreter) message(level host.MessageLevel, text string) {
	i.Ex.Host.ShowMessage(host.Message{Level: level, Text: text})
}

// run dispatches a parsed command. Bare goto-line (":42", no command
// word) and the punctuation commands are handled directly; everything
// else goes through the prefix-abbreviation table.
func (i *Interpreter) run(pc ParsedCommand) error {
	if pc.Name == "" {
		if !pc.HasRange {
			return nil
		}
		i.Ex.Host.CursorSet(i.Ex.Host.LineStart(pc.Line2))
		return nil
	}

	switch pc.Name {
	case "!":
		return i.cmdBang(pc)
	case "<":
		return i.cmdShift(pc, mode.OpShiftLeft)
	case ">":
		return i.cmdShift(pc, mode.OpShiftRight)
	case "&", "&&":
		return i.cmdSubstituteRepeat(pc)
	}

	if mc, isUnmap, recursive, ok := parseMapCommand(pc.Name); ok {
		return i.cmdMap(pc, mc, isUnmap, recursive)
	}

	spec, ok := lookupCommand(pc.Name)
	if !ok {
		if hook, ok := i.Ex.Host.(ExCommandHost); ok {
			handled, err := hook.HandleExCommand(pc.Name, pc.Args)
			if handled {
				return err
			}
		}
		i.message(host.Error, fmt.Sprintf("Not an editor command: %s", pc.Name))
		return nil
	}

	return spec.run(i, pc)
}

type cmdSpec struct {
	full      string
	minAbbrev int
	run       func(i *Interpreter, pc ParsedCommand) error
}

var commandTable = []cmdSpec{
	{"substitute", 1, (*Interpreter).cmdSubstitute},
	{"write", 1, (*Interpreter).cmdWrite},
	{"read", 1, (*Interpreter).cmdRead},
	{"delete", 1, (*Interpreter).cmdDelete},
	{"yank", 1, (*Interpreter).cmdYank},
	{"set", 2, (*Interpreter).cmdSet},
	{"registers", 3, (*Interpreter).cmdRegisters},
	{"display", 4, (*Interpreter).cmdRegisters},
	{"history", 3, (*Interpreter).cmdHistory},
	{"source", 2, (*Interpreter).cmdSource},
	{"normal", 4, (*Interpreter).cmdNormal},
	{"nohlsearch", 2, (*Interpreter).cmdNohlsearch},
	{"redo", 3, (*Interpreter).cmdRedo},
	{"undo", 1, (*Interpreter).cmdUndo},
	{"echo", 2, (*Interpreter).cmdEcho},
}

// lookupCommand resolves a command word against commandTable's
// prefix-abbreviation rule, per spec.md §4.7: name must be a prefix of
// full and at least minAbbrev characters long.
func lookupCommand(name string) (cmdSpec, bool) {
	lower := strings.ToLower(name)
	for _, c := range commandTable {
		if len(lower) >= c.minAbbrev && strings.HasPrefix(c.full, lower) {
			return c, true
		}
	}
	return cmdSpec{}, false
}

func (i *Interpreter) cmdWrite(pc ParsedCommand) error {
	path := strings.TrimSpace(pc.Args)
	if path == "" {
		path = i.Ex.Host.CurrentFileName()
	}
	if path == "" {
		i.message(host.Error, "E32: No file name")
		return nil
	}

	r := edit.NewRange(0, i.Ex.Host.LineEnd(i.lastLine()), edit.Char)
	if pc.HasRange {
		r = i.rangeOf(pc)
	}
	if err := i.Ex.Host.WriteFile(path, r); err != nil {
		i.message(host.Error, err.Error())
	}
	return nil
}

func (i *Interpreter) cmdRead(pc ParsedCommand) error {
	path := strings.TrimSpace(pc.Args)
	if path == "" {
		i.message(host.Error, "E32: No file name")
		return nil
	}
	text, err := i.Ex.Host.ReadFile(path)
	if err != nil {
		i.message(host.Error, err.Error())
		return nil
	}

	at := i.Ex.Host.LineEnd(pc.Line2)
	if at < i.Ex.Host.LineEnd(i.lastLine()) {
		at++
	}
	if _, err := i.Ex.Model.Apply(edit.NewRange(at, at, edit.Char), edit.ReplaceByString(text)); err != nil {
		i.message(host.Error, err.Error())
	}
	return nil
}

func (i *Interpreter) cmdDelete(pc ParsedCommand) error {
	register := byte('"')
	args := strings.Fields(pc.Args)
	if len(args) > 0 && len(args[0]) == 1 && isWordRune(rune(args[0][0])) {
		register = args[0][0]
	}

	r := i.rangeOf(pc)
	if _, err := i.Ex.ApplyOperatorRange(mode.OpDelete, r, register); err != nil {
		i.message(host.Error, err.Error())
	}
	return nil
}

func (i *Interpreter) cmdYank(pc ParsedCommand) error {
	register := byte('"')
	args := strings.Fields(pc.Args)
	if len(args) > 0 && len(args[0]) == 1 && isWordRune(rune(args[0][0])) {
		register = args[0][0]
	}

	r := i.rangeOf(pc)
	if _, err := i.Ex.ApplyOperatorRange(mode.OpYank, r, register); err != nil {
		i.message(host.Error, err.Error())
	}
	return nil
}

func (i *Interpreter) cmdShift(pc ParsedCommand, sub mode.SubMode) error {
	r := i.rangeOf(pc)
	newCursor, err := i.Ex.ApplyOperatorRange(sub, r, '"')
	if err != nil {
		i.message(host.Error, err.Error())
		return nil
	}
	i.Ex.Host.CursorSet(newCursor)
	return nil
}

func (i *Interpreter) cmdBang(pc ParsedCommand) error {
	cmdText := strings.TrimSpace(pc.Args)
	if cmdText == "" {
		return nil
	}

	if !pc.HasRange {
		out, err := i.Ex.Host.SpawnProcess(cmdText, "")
		if err != nil {
			i.message(host.Error, err.Error())
			return nil
		}
		i.message(host.Info, out)
		return nil
	}

	r := i.rangeOf(pc)
	text, err := i.Ex.Host.BufferRead(r)
	if err != nil {
		return err
	}
	out, err := i.Ex.Host.SpawnProcess(cmdText, text)
	if err != nil {
		i.message(host.Error, err.Error())
		return nil
	}
	_, err = i.Ex.Model.Apply(r, edit.ReplaceByString(out))
	return err
}

func (i *Interpreter) cmdSet(pc ParsedCommand) error {
	tokens := strings.Fields(pc.Args)
	if len(tokens) == 0 {
		return nil
	}

	for _, tok := range tokens {
		if err := i.setOne(tok); err != nil {
			i.message(host.Error, err.Error())
		}
	}
	return nil
}

func (i *Interpreter) setOne(tok string) error {
	st := i.Ex.Settings

	if eq := strings.IndexByte(tok, '='); eq >= 0 {
		name, val := tok[:eq], tok[eq+1:]
		if !st.Has(name) {
			return fmt.Errorf("settings: unknown option %q", name)
		}
		if n, err := strconv.Atoi(val); err == nil {
			return st.SetInt(name, n)
		}
		return st.SetString(name, val)
	}

	if strings.HasSuffix(tok, "?") {
		name := strings.TrimSuffix(tok, "?")
		i.message(host.Info, formatOption(st, name))
		return nil
	}

	if strings.HasSuffix(tok, "!") {
		return st.Toggle(strings.TrimSuffix(tok, "!"))
	}

	if strings.HasPrefix(tok, "no") && st.Has(strings.TrimPrefix(tok, "no")) {
		return st.SetBool(strings.TrimPrefix(tok, "no"), false)
	}

	if st.Has(tok) {
		return st.SetBool(tok, true)
	}

	return fmt.Errorf("settings: unknown option %q", tok)
}

func formatOption(st *settings.Settings, name string) string {
	kind, ok := st.KindOf(name)
	if !ok {
		return fmt.Sprintf("E518: Unknown option: %s", name)
	}
	switch kind {
	case settings.Bool:
		if st.Bool(name) {
			return name
		}
		return "no" + name
	case settings.Int:
		return fmt.Sprintf("%s=%d", name, st.Int(name))
	default:
		return fmt.Sprintf("%s=%s", name, st.String(name))
	}
}

func (i *Interpreter) cmdRegisters(pc ParsedCommand) error {
	all := i.Ex.Model.Registers.All()
	names := make([]byte, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Slice(names, func(a, b int) bool { return names[a] < names[b] })

	var b strings.Builder
	b.WriteString("--- Registers ---\n")
	for _, n := range names {
		fmt.Fprintf(&b, "\"%c   %s\n", n, renderUnprintable(all[n].Contents))
	}
	i.message(host.Info, b.String())
	return nil
}

func renderUnprintable(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString("^J")
		case r == '\t':
			b.WriteString("^I")
		case r < 0x20:
			b.WriteByte('^')
			b.WriteRune(r + '@')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (i *Interpreter) cmdHistory(pc ParsedCommand) error {
	var b strings.Builder
	b.WriteString("--- Command History ---\n")
	for n, h := range i.History {
		fmt.Fprintf(&b, "%d %s\n", n+1, h)
	}
	i.message(host.Info, b.String())
	return nil
}

// cmdSource reads path as an rc-file: one ex command per line, `"`
// introduces a comment, and a `function`…`endfunction` block is skipped
// as a unit rather than executed, per spec.md §4.7.
func (i *Interpreter) cmdSource(pc ParsedCommand) error {
	path := strings.TrimSpace(pc.Args)
	text, err := i.Ex.Host.ReadFile(path)
	if err != nil {
		i.message(host.Error, err.Error())
		return nil
	}

	inFunction := false
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if inFunction {
			if strings.HasPrefix(strings.ToLower(line), "endfunction") {
				inFunction = false
			}
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "function") {
			inFunction = true
			continue
		}
		if line == "" || strings.HasPrefix(line, `"`) {
			continue
		}
		if err := i.Execute(line); err != nil {
			i.message(host.Error, err.Error())
		}
	}
	return nil
}

// cmdNormal replays pc.Args as Command-mode keys. Without `!`, leading
// prefixes of the sequence are first expanded against the Normal-mode
// mapping table, matching ordinary typed input; `!` replays the literal
// keys, suppressing mapping expansion.
func (i *Interpreter) cmdNormal(pc ParsedCommand) error {
	seq, err := input.ParseInputs(pc.Args)
	if err != nil {
		return err
	}
	if !pc.Bang {
		seq = expandMappings(i.Mappings, input.ModeNormal, seq)
	}
	i.Ex.Replay(seq)
	return nil
}

// expandMappings greedily resolves seq against table: at each position
// it tries the longest remaining prefix that exactly matches some
// mapping's left-hand side, substitutes its (possibly recursively
// expanded) right-hand side, and otherwise leaves the input untouched.
func expandMappings(table *input.Table, mc input.ModeCode, seq input.Inputs) input.Inputs {
	var out input.Inputs
	for len(seq) > 0 {
		matched := false
		for tryLen := len(seq); tryLen >= 1; tryLen-- {
			status, expanded := input.Resolve(table, mc, seq[:tryLen])
			if status == input.StatusResolved {
				out = append(out, expanded...)
				seq = seq[tryLen:]
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, seq[0])
			seq = seq[1:]
		}
	}
	return out
}

func (i *Interpreter) cmdNohlsearch(ParsedCommand) error {
	i.Ex.Search.Suppress()
	return nil
}

func (i *Interpreter) cmdRedo(ParsedCommand) error {
	return i.Ex.Host.Redo()
}

func (i *Interpreter) cmdUndo(ParsedCommand) error {
	return i.Ex.Host.Undo()
}

func (i *Interpreter) cmdEcho(pc ParsedCommand) error {
	i.message(host.Info, pc.Args)
	return nil
}

// cmdSubstituteRepeat implements the bare `:&` / `:&&` forms: repeat
// the last substitution on the current range, resetting flags for `:&`
// and keeping them for `:&&`.
func (i *Interpreter) cmdSubstituteRepeat(pc ParsedCommand) error {
	flags := ""
	if pc.Name == "&&" {
		flags = i.lastSubFlags
	}
	return i.substituteWith(pc, i.lastSubPattern, i.lastSubRepl, flags)
}

// parseMapCommand recognizes :map/:noremap/:unmap and their
// mode-prefixed and `!`-suffixed variants (spec.md §4.7), returning the
// mapping-table mode code to operate on.
func parseMapCommand(name string) (mc input.ModeCode, isUnmap, recursive bool, ok bool) {
	rest := name
	prefix := byte(0)
	if len(rest) > 0 {
		switch rest[0] {
		case 'n', 'v', 'x', 'o', 'i', 'c', 'l':
			if strings.HasSuffix(rest, "map") {
				prefix = rest[0]
				rest = rest[1:]
			}
		}
	}

	bangForm := strings.HasSuffix(rest, "!") && prefix == 0
	rest = strings.TrimSuffix(rest, "!")

	switch rest {
	case "map":
		recursive = true
	case "noremap":
		recursive = false
	case "unmap":
		isUnmap = true
	default:
		return "", false, false, false
	}

	switch {
	case prefix != 0:
		mc = input.ModeCode(string(prefix))
	case bangForm:
		mc = input.ModeInsert
	default:
		// Vim's bare :map/:noremap/:unmap cover Normal, Visual and
		// Operator-pending at once; this engine approximates that with
		// Normal-mode mapping only (see DESIGN.md).
		mc = input.ModeNormal
	}
	return mc, isUnmap, recursive, true
}

func (i *Interpreter) cmdMap(pc ParsedCommand, mc input.ModeCode, isUnmap, recursive bool) error {
	args := strings.TrimSpace(pc.Args)
	if args == "" {
		return nil
	}

	fields := strings.SplitN(args, " ", 2)
	lhs, err := input.ParseInputs(fields[0])
	if err != nil {
		return err
	}

	if isUnmap {
		i.Mappings.Unset(mc, lhs)
		return nil
	}

	if len(fields) < 2 {
		return nil
	}
	rhs, err := input.ParseInputs(strings.TrimSpace(fields[1]))
	if err != nil {
		return err
	}
	i.Mappings.Set(mc, lhs, rhs, recursive)
	return nil
}
