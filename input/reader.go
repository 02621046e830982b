package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the operator interrupts a pending read.
var ErrInterrupted = readline.ErrInterrupt

// LineReader obtains one line of operator input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PromptReader reads through the readline editor when available and falls
// back to a plain buffered read otherwise. Interrupt and end-of-input are
// never swallowed; any other editor failure triggers exactly one fallback
// read for that call.
type PromptReader struct {
	rl    *readline.Instance
	basic *bufio.Reader
	out   io.Writer
}

// NewPromptReader initializes the editor once. If that fails the reader
// runs basic-only for the rest of the process.
func NewPromptReader() *PromptReader {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "",
		HistoryFile:       filepath.Join(os.TempDir(), ".difyprobe_history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		rl = nil
	}
	return &PromptReader{rl: rl, basic: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (r *PromptReader) Close() error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func (r *PromptReader) ReadLine(prompt string) (string, error) {
	if r.rl != nil {
		r.rl.SetPrompt(prompt)
		line, err := r.rl.Readline()
		switch err {
		case nil:
			return line, nil
		case readline.ErrInterrupt:
			return "", ErrInterrupted
		case io.EOF:
			return "", io.EOF
		}
		// Editor failed for some other reason; fall through to one basic
		// read for this call.
	}
	fmt.Fprint(r.out, prompt)
	line, err := r.basic.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
