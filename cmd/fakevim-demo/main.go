package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/fakevim/fakevim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fakevim-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	seed := "Hello, fakevim.\nThis is a minimal demo buffer.\nPress i to insert, Esc to leave, ZZ to quit.\n"
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err == nil {
			seed = string(data)
		}
	}

	buf := newMemBuffer(seed)
	globals := fakevim.NewEngineGlobals(buf)
	engine := fakevim.New(buf, globals)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	reader := bufio.NewReader(os.Stdin)
	render(buf, engine)

	for !buf.quit {
		b, err := reader.ReadByte()
		if err != nil {
			return err
		}

		// Ctrl-C always quits, regardless of mode, since there is no
		// terminal-level SIGINT delivery once raw mode has disabled it.
		if b == 0x03 {
			break
		}

		msgs := engine.HandleInput(decodeByte(b))
		for _, m := range msgs {
			buf.statusLine = m.Text
		}
		render(buf, engine)
	}

	return nil
}

// render redraws the whole screen each keystroke. A real embedding
// would diff against the previous frame; a demo harness does not need
// to.
func render(buf *memBuffer, engine *fakevim.Engine) {
	fmt.Print("\033[2J\033[H")
	fmt.Print(buf.String())
	fmt.Printf("\r\n\033[7m%-10s %s\033[0m\r\n", engine.Mode(), engine.ShowCmd())
	if buf.cmdLine != "" {
		fmt.Printf("%s\r\n", buf.cmdLine)
	} else if buf.statusLine != "" {
		fmt.Printf("%s\r\n", buf.statusLine)
	}
}
