package edit

// DotCommand records the minimal replay sequence for the last
// change-producing command, the target of `.`. It is rebuilt at the
// completion of each change and includes any typed insertion concluded
// by <Esc>.
type DotCommand struct {
	keys     string
	count    int
	building bool
	buf      []rune
}

// Begin starts recording a new dot command, discarding whatever was
// being recorded (a command that never completes does not become the
// new dot command).
func (d *DotCommand) Begin() {
	d.building = true
	d.buf = d.buf[:0]
}

// Record appends raw input text to the command currently being built.
// It is a no-op if Begin was not called for this command.
func (d *DotCommand) Record(text string) {
	if !d.building {
		return
	}
	d.buf = append(d.buf, []rune(text)...)
}

// Commit finalizes the command currently being recorded with the count
// that was in effect, and makes it the new dot command.
func (d *DotCommand) Commit(count int) {
	if !d.building {
		return
	}
	d.keys = string(d.buf)
	d.count = count
	d.building = false
}

// Abandon discards the command currently being recorded without
// replacing the existing dot command (used on Escape-before-commit).
func (d *DotCommand) Abandon() {
	d.building = false
	d.buf = d.buf[:0]
}

// Keys returns the recorded replay sequence for `.`.
func (d *DotCommand) Keys() string {
	return d.keys
}

// Count returns the count recorded with the dot command.
func (d *DotCommand) Count() int {
	if d.count == 0 {
		return 1
	}
	return d.count
}

// HasCommand reports whether a dot command has ever been recorded.
func (d *DotCommand) HasCommand() bool {
	return d.keys != ""
}

// WithCount returns the keys to replay with count substituted for the
// recorded count when the caller supplied an explicit override count,
// per spec.md's "the repeat count of the dot command replaces (not
// multiplies) the recorded count".
//
// The override only affects the leading numeric prefix of the replayed
// command; callers that need to inject the digits should prepend them
// to the returned (possibly prefix-stripped) keys themselves, since the
// command-grammar digit parsing lives in the mode machine, not here.
func (d *DotCommand) WithCount(override int) (keys string, count int) {
	if override > 0 {
		return d.keys, override
	}
	return d.keys, d.Count()
}
