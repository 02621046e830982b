package input

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// TokenProvider returns the live switch-token set: command literal
// (":"+lowercased alias) to target alias. It is consulted on every
// classification so registry changes take effect immediately.
type TokenProvider func() map[string]string

// Source turns raw operator lines into classified commands, routed by the
// current input mode.
type Source struct {
	reader LineReader
	mode   *ModeState
	tokens TokenProvider
	out    io.Writer
}

func NewSource(reader LineReader, mode *ModeState, tokens TokenProvider, out io.Writer) *Source {
	return &Source{reader: reader, mode: mode, tokens: tokens, out: out}
}

const (
	promptSingle     = "user_input (or command): "
	promptMultiFirst = "user_input (multi-line): "
	promptMultiCont  = "... "
)

// Next produces one classified command. ErrInterrupted and io.EOF from the
// reader pass through untouched.
func (s *Source) Next() (Command, error) {
	if s.mode.Multiline() {
		return s.collect("", false)
	}
	return s.single()
}

func (s *Source) single() (Command, error) {
	line, err := s.reader.ReadLine(promptSingle)
	if err != nil {
		return Command{}, err
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Command{Kind: KindNone}, nil
	}
	if cmd, ok := s.classify(trimmed); ok {
		return cmd, nil
	}

	left := strings.TrimLeft(line, " \t")
	if len(left) >= len(TokenPaste) && strings.EqualFold(left[:len(TokenPaste)], TokenPaste) {
		// Content typed right after the trigger seeds the multi-line
		// buffer: one separating space is consumed, nothing else.
		seed := left[len(TokenPaste):]
		seed = strings.TrimPrefix(seed, " ")
		seed = strings.TrimRight(seed, "\n")
		return s.collect(seed, true)
	}
	return Command{Kind: KindText, Text: trimmed}, nil
}

// collect runs one multi-line entry. A non-empty seed becomes the first
// buffered line and suppresses the first-line prompt.
func (s *Source) collect(seed string, forceNotice bool) (Command, error) {
	if forceNotice || !s.mode.HintShown() {
		s.printHint()
		s.mode.MarkHintShown()
	}

	var buf []string
	if seed != "" {
		buf = append(buf, seed)
	}
	first := len(buf) == 0

	for {
		prompt := promptMultiCont
		if first {
			prompt = promptMultiFirst
		}
		line, err := s.reader.ReadLine(prompt)
		if err != nil {
			return Command{}, err
		}
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if len(buf) == 0 {
			// Escape hatch: control commands still work as the first line
			// of a fresh entry, before anything is buffered.
			if cmd, ok := s.classify(trimmed); ok {
				return cmd, nil
			}
		}
		if lower == TokenCancel {
			fmt.Fprintln(s.out, "Multi-line entry cancelled; nothing was sent.")
			return Command{Kind: KindNone}, nil
		}
		if lower == TokenEnd {
			break
		}
		// Buffer the raw line so pasted formatting survives.
		buf = append(buf, line)
		first = false
	}

	joined := strings.TrimSpace(strings.Join(buf, "\n"))
	if joined == "" {
		fmt.Fprintln(s.out, "No content entered; multi-line entry discarded.")
		return Command{Kind: KindNone}, nil
	}
	return Command{Kind: KindText, Text: joined}, nil
}

// classify matches a whole trimmed line against the reserved and switch
// tokens.
func (s *Source) classify(trimmed string) (Command, bool) {
	lower := strings.ToLower(trimmed)
	switch lower {
	case "exit", "quit":
		return Command{Kind: KindExit}, true
	case "reset":
		return Command{Kind: KindReset}, true
	case "config":
		return Command{Kind: KindShowConfig}, true
	case TokenToggle:
		return Command{Kind: KindModeToggle}, true
	}
	if alias, ok := s.tokens()[lower]; ok {
		return Command{Kind: KindSwitch, Target: alias}, true
	}
	return Command{}, false
}

func (s *Source) printHint() {
	fmt.Fprintf(s.out, "Multi-line mode: finish with '%s', cancel with '%s', switch to single-line with '%s'.\n",
		TokenEnd, TokenCancel, TokenToggle)
	tokens := s.tokens()
	if len(tokens) > 1 {
		literals := make([]string, 0, len(tokens))
		for literal := range tokens {
			literals = append(literals, literal)
		}
		sort.Strings(literals)
		fmt.Fprintf(s.out, "Switch agents with %s.\n", strings.Join(literals, ", "))
	}
}
