// Package settings is the engine's typed option registry (the Settings
// component, spec.md §6): booleans, integers and strings keyed by both
// their long and short :set names, with validation and a YAML snapshot
// for hosts that want to persist option state across sessions.
package settings

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Kind distinguishes the three option value types :set accepts.
type Kind int

// Option value kinds.
const (
	Bool Kind = iota
	Int
	String
)

// Option is one entry of the registry: its canonical long name, an
// optional short alias, its kind, and its current value.
type Option struct {
	Long  string
	Short string
	Kind  Kind

	boolVal   bool
	intVal    int
	stringVal string
}

// Settings holds every option the engine recognizes, indexed by both
// long and short name.
type Settings struct {
	byName map[string]*Option
	order  []string
}

// defaults mirrors Vim's compiled-in defaults for the options this
// engine models, per spec.md §6's option list.
var defaults = []Option{
	{Long: "hlsearch", Short: "hls", Kind: Bool, boolVal: false},
	{Long: "ignorecase", Short: "ic", Kind: Bool, boolVal: false},
	{Long: "smartcase", Short: "scs", Kind: Bool, boolVal: false},
	{Long: "wrapscan", Short: "ws", Kind: Bool, boolVal: true},
	{Long: "expandtab", Short: "et", Kind: Bool, boolVal: false},
	{Long: "autoindent", Short: "ai", Kind: Bool, boolVal: false},
	{Long: "incsearch", Short: "is", Kind: Bool, boolVal: true},
	{Long: "startofline", Short: "sol", Kind: Bool, boolVal: true},
	{Long: "showcmd", Short: "sc", Kind: Bool, boolVal: true},
	{Long: "relativenumber", Short: "rnu", Kind: Bool, boolVal: false},
	{Long: "tildeop", Short: "top", Kind: Bool, boolVal: false},
	{Long: "smarttab", Short: "sta", Kind: Bool, boolVal: false},
	{Long: "smartindent", Short: "si", Kind: Bool, boolVal: false},
	{Long: "tabstop", Short: "ts", Kind: Int, intVal: 8},
	{Long: "shiftwidth", Short: "sw", Kind: Int, intVal: 8},
	{Long: "scrolloff", Short: "so", Kind: Int, intVal: 0},
	{Long: "backspace", Short: "bs", Kind: String, stringVal: ""},
	{Long: "iskeyword", Short: "isk", Kind: String, stringVal: "@,48-57,_"},
	{Long: "clipboard", Short: "cb", Kind: String, stringVal: ""},
	{Long: "formatoptions", Short: "fo", Kind: String, stringVal: "tcq"},
}

// New returns a Settings table populated with Vim-compatible defaults.
func New() *Settings {
	s := &Settings{byName: make(map[string]*Option)}
	for _, d := range defaults {
		opt := d
		s.byName[opt.Long] = &opt
		if opt.Short != "" {
			s.byName[opt.Short] = &opt
		}
		s.order = append(s.order, opt.Long)
	}
	return s
}

func (s *Settings) lookup(name string) (*Option, error) {
	opt, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("settings: unknown option %q", name)
	}
	return opt, nil
}

// Bool returns the current value of a boolean option.
func (s *Settings) Bool(name string) bool {
	opt, err := s.lookup(name)
	if err != nil {
		return false
	}
	return opt.boolVal
}

// SetBool assigns a boolean option's value, or returns an error if name
// does not refer to a boolean option.
func (s *Settings) SetBool(name string, v bool) error {
	opt, err := s.lookup(name)
	if err != nil {
		return err
	}
	if opt.Kind != Bool {
		return fmt.Errorf("settings: %q is not a boolean option", name)
	}
	opt.boolVal = v
	return nil
}

// Toggle flips a boolean option (`:set opt!`).
func (s *Settings) Toggle(name string) error {
	opt, err := s.lookup(name)
	if err != nil {
		return err
	}
	if opt.Kind != Bool {
		return fmt.Errorf("settings: %q is not a boolean option", name)
	}
	opt.boolVal = !opt.boolVal
	return nil
}

// Int returns the current value of an integer option.
func (s *Settings) Int(name string) int {
	opt, err := s.lookup(name)
	if err != nil {
		return 0
	}
	return opt.intVal
}

// SetInt assigns an integer option's value. Per spec.md §6, tabstop and
// shiftwidth must be positive.
func (s *Settings) SetInt(name string, v int) error {
	opt, err := s.lookup(name)
	if err != nil {
		return err
	}
	if opt.Kind != Int {
		return fmt.Errorf("settings: %q is not a numeric option", name)
	}
	if (opt.Long == "tabstop" || opt.Long == "shiftwidth") && v <= 0 {
		return fmt.Errorf("settings: %q must be positive", opt.Long)
	}
	opt.intVal = v
	return nil
}

// String returns the current value of a string option.
func (s *Settings) String(name string) string {
	opt, err := s.lookup(name)
	if err != nil {
		return ""
	}
	return opt.stringVal
}

// SetString assigns a string option's value.
func (s *Settings) SetString(name string, v string) error {
	opt, err := s.lookup(name)
	if err != nil {
		return err
	}
	if opt.Kind != String {
		return fmt.Errorf("settings: %q is not a string option", name)
	}
	opt.stringVal = v
	return nil
}

// Has reports whether name (long or short) names a known option.
func (s *Settings) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// KindOf returns the Kind of a known option, for callers (like `:set`
// display) that must format a value without knowing its type ahead of
// time.
func (s *Settings) KindOf(name string) (Kind, bool) {
	opt, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return opt.Kind, true
}

// snapshot is the YAML-serializable shape of the option table,
// canonical-long-name keyed so a dumped file round-trips regardless of
// which alias the host last used to set an option.
type snapshot struct {
	Bools   map[string]bool   `yaml:"bools,omitempty"`
	Ints    map[string]int    `yaml:"ints,omitempty"`
	Strings map[string]string `yaml:"strings,omitempty"`
}

// MarshalYAML dumps the current option values for host-side persistence
// (spec.md §6, "Persisted state").
func (s *Settings) MarshalYAML() ([]byte, error) {
	snap := snapshot{
		Bools:   make(map[string]bool),
		Ints:    make(map[string]int),
		Strings: make(map[string]string),
	}
	for _, long := range s.order {
		opt := s.byName[long]
		switch opt.Kind {
		case Bool:
			snap.Bools[long] = opt.boolVal
		case Int:
			snap.Ints[long] = opt.intVal
		case String:
			snap.Strings[long] = opt.stringVal
		}
	}
	return yaml.Marshal(snap)
}

// UnmarshalYAML restores option values from a snapshot previously
// produced by MarshalYAML. Unknown keys are ignored rather than
// rejected, so an older snapshot still loads against a newer option
// set.
func (s *Settings) UnmarshalYAML(data []byte) error {
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("settings: decode snapshot: %w", err)
	}
	for name, v := range snap.Bools {
		_ = s.SetBool(name, v)
	}
	for name, v := range snap.Ints {
		_ = s.SetInt(name, v)
	}
	for name, v := range snap.Strings {
		_ = s.SetString(name, v)
	}
	return nil
}
