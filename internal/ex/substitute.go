package ex

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/search"
)

// cmdSubstitute implements `:substitute`, per spec.md §4.7: a delimited
// /pattern/replacement/flags triple, or a bare form that reuses the
// last pattern/replacement/flags.
func (i *Interpreter) cmdSubstitute(pc ParsedCommand) error {
	args := pc.Args
	if strings.TrimSpace(args) == "" {
		return i.substituteWith(pc, i.lastSubPattern, i.lastSubRepl, "")
	}

	first := rune(args[0])
	if unicode.IsLetter(first) || unicode.IsDigit(first) {
		// No delimiter: the whole argument text is flags (and maybe a
		// trailing count), reusing the last pattern/replacement.
		return i.substituteWith(pc, i.lastSubPattern, i.lastSubRepl, args)
	}

	parts := splitOnDelim(args[1:], first)
	pattern := i.lastSubPattern
	if len(parts) > 0 && parts[0] != "" {
		pattern = parts[0]
	}
	repl := i.lastSubRepl
	if len(parts) > 1 {
		repl = parts[1]
	}
	flags := ""
	if len(parts) > 2 {
		flags = parts[2]
	}

	return i.substituteWith(pc, pattern, repl, flags)
}

// splitOnDelim splits s on the first two unescaped occurrences of
// delim, honoring a backslash escape of delim inside a field (`\/`
// inside a `/`-delimited substitution does not end the field). The
// third element is everything after the second delimiter, taken
// verbatim (the flags-and-count tail is never delimiter-escaped).
func splitOnDelim(s string, delim rune) []string {
	runes := []rune(s)
	var fields []string
	start := 0

	i := 0
	for len(fields) < 2 && i < len(runes) {
		switch {
		case runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == delim:
			i += 2
		case runes[i] == delim:
			fields = append(fields, unescapeDelim(string(runes[start:i]), delim))
			i++
			start = i
		default:
			i++
		}
	}

	fields = append(fields, string(runes[start:]))
	return fields
}

func unescapeDelim(s string, delim rune) string {
	return strings.ReplaceAll(s, "\\"+string(delim), string(delim))
}

func (i *Interpreter) substituteWith(pc ParsedCommand, pattern, repl, flagsAndCount string) error {
	if pattern == "" {
		i.message(host.Error, "E35: No previous regular expression")
		return nil
	}

	flags, count := parseSubFlags(flagsAndCount)
	if strings.Contains(flags, "&") {
		flags = mergeFlags(flags, i.lastSubFlags)
	}

	i.lastSubPattern = pattern
	i.lastSubRepl = repl
	i.lastSubFlags = flags

	translated, caseFlag := search.Translate(pattern)
	ignoreCase := search.EffectiveIgnoreCase(caseFlag, i.Ex.Settings.Bool("ignorecase"), i.Ex.Settings.Bool("smartcase"), pattern)
	if strings.Contains(flags, "i") {
		ignoreCase = true
	}
	if ignoreCase {
		translated = "(?i)" + translated
	}

	re, err := regexp.Compile(translated)
	if err != nil {
		i.message(host.Error, "E486: Pattern not compilable")
		return nil
	}

	global := strings.Contains(flags, "g")
	converted := convertReplacement(repl)

	line1, line2 := pc.Line1, pc.Line2
	if count > 0 {
		line1 = pc.Line2
		line2 = pc.Line2 + count - 1
		if last := i.lastLine(); line2 > last {
			line2 = last
		}
	}

	total := 0
	var lastTouched int
	for line := line1; line <= line2; line++ {
		lo := i.Ex.Host.LineStart(line)
		hi := i.Ex.Host.LineEnd(line)
		text, err := i.Ex.Host.BufferRead(edit.NewRange(lo, hi, edit.Char))
		if err != nil {
			return err
		}

		replaced, n := substituteLine(re, text, converted, global)
		if n == 0 {
			continue
		}
		total += n
		lastTouched = line

		if _, err := i.Ex.Model.Apply(edit.NewRange(lo, hi, edit.Char), edit.ReplaceByString(replaced)); err != nil {
			return err
		}
	}

	if total == 0 {
		i.message(host.Error, "E486: Pattern not found: "+pattern)
		return nil
	}

	i.Ex.Host.CursorSet(i.Ex.Host.LineStart(lastTouched))
	return nil
}

// substituteLine replaces the first (or, if global, every) match of re
// in line with repl (already converted to Go's $-template syntax),
// returning the new line text and how many matches it replaced.
func substituteLine(re *regexp.Regexp, line, repl string, global bool) (string, int) {
	matches := re.FindAllSubmatchIndex([]byte(line), -1)
	if len(matches) == 0 {
		return line, 0
	}
	if !global {
		matches = matches[:1]
	}

	var buf []byte
	last := 0
	for _, m := range matches {
		buf = append(buf, line[last:m[0]]...)
		buf = re.ExpandString(buf, repl, line, m)
		last = m[1]
	}
	buf = append(buf, line[last:]...)
	return string(buf), len(matches)
}

// convertReplacement translates Vim substitute-replacement syntax
// (`\1`-`\9` backreferences, `&` for the whole match, `\&` for a
// literal ampersand) into Go regexp's `$`-template syntax consumed by
// Regexp.ExpandString.
func convertReplacement(repl string) string {
	var b strings.Builder
	runes := []rune(repl)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '$':
			b.WriteString("$$")
		case r == '&':
			b.WriteString("${0}")
		case r == '\\' && i+1 < len(runes):
			n := runes[i+1]
			switch {
			case n >= '1' && n <= '9':
				b.WriteString("${" + string(n) + "}")
			case n == '&':
				b.WriteByte('&')
			case n == '\\':
				b.WriteByte('\\')
			default:
				b.WriteRune(n)
			}
			i++
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseSubFlags splits a substitute flags-and-count tail into its flag
// letters and an optional trailing repeat count.
func parseSubFlags(s string) (flags string, count int) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	flags = s[:i]
	if i < len(s) {
		count, _ = strconv.Atoi(s[i:])
	}
	return flags, count
}

func mergeFlags(flags, previous string) string {
	set := map[rune]bool{}
	for _, r := range flags {
		if r != '&' {
			set[r] = true
		}
	}
	for _, r := range previous {
		set[r] = true
	}
	var b strings.Builder
	for r := range set {
		b.WriteRune(r)
	}
	return b.String()
}
