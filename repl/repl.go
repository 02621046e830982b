// Package repl drives the interactive session: one operator turn at a time
// against the active agent, with every turn-local failure absorbed at the
// loop boundary.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/keyishen/difyprobe/dify"
	"github.com/keyishen/difyprobe/input"
	"github.com/keyishen/difyprobe/registry"
	"github.com/keyishen/difyprobe/render"
)

// REPL owns the per-process session state and the collaborators one turn
// needs. Everything runs on the calling goroutine; at most one blocking
// wait (input or HTTP) exists at a time.
type REPL struct {
	registry *registry.Registry
	mode     *input.ModeState
	source   *input.Source
	caller   dify.Caller
	out      io.Writer
}

func New(reg *registry.Registry, reader input.LineReader, caller dify.Caller, out io.Writer) *REPL {
	mode := input.NewModeState()
	return &REPL{
		registry: reg,
		mode:     mode,
		source:   input.NewSource(reader, mode, reg.SwitchTokens, out),
		caller:   caller,
		out:      out,
	}
}

// Run executes turns until the operator exits, interrupts, or input ends.
// Those three all end the loop cleanly; nothing from a single turn does.
func (r *REPL) Run(ctx context.Context) error {
	r.banner()
	for {
		cmd, err := r.source.Next()
		if err == input.ErrInterrupted {
			fmt.Fprintln(r.out, "\nInterrupted. Goodbye!")
			return nil
		}
		if err == io.EOF {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintln(r.out, render.Error(fmt.Sprintf("unexpected input error: %v", err)))
			continue
		}

		switch cmd.Kind {
		case input.KindNone:
			continue
		case input.KindModeToggle:
			fmt.Fprintf(r.out, "Switched to %s mode.\n\n", r.mode.Toggle())
		case input.KindSwitch:
			r.switchAgent(cmd.Target)
		case input.KindReset:
			r.registry.ResetConversation()
			fmt.Fprintln(r.out, render.OK("Conversation reset.")+"\n")
		case input.KindShowConfig:
			fmt.Fprintln(r.out, "\n"+render.Profiles(r.registry)+"\n")
		case input.KindExit:
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		case input.KindText:
			if err := r.turn(ctx, cmd.Text); err != nil {
				fmt.Fprintln(r.out, "\n"+render.Error(err.Error())+"\n")
			}
		}
	}
}

func (r *REPL) switchAgent(alias string) {
	switch {
	case !r.registry.Has(alias):
		fmt.Fprintln(r.out, render.Warn(fmt.Sprintf("unknown agent %q; nothing switched", alias)))
	case r.registry.Active().Alias == alias:
		fmt.Fprintln(r.out, render.Warn(fmt.Sprintf("agent %q is already active", alias)))
	default:
		a := r.registry.Switch(alias)
		fmt.Fprintln(r.out, render.OK(fmt.Sprintf("Switched to agent %q (%s).", a.Alias, a.Path)))
		if a.ConversationID != "" {
			fmt.Fprintf(r.out, "Resumed conversation %s.\n", a.ConversationID)
		}
	}
	fmt.Fprintln(r.out)
}

// turn sends one query to the active agent and renders the outcome. The
// returned conversation id, when present, is stored on that agent only.
func (r *REPL) turn(ctx context.Context, text string) error {
	agent := r.registry.Active()
	payload := dify.BuildPayload(agent.Profile, agent.ConversationID, text)

	fmt.Fprintf(r.out, "\nCalling agent %q...\n", agent.Alias)
	fmt.Fprintf(r.out, "user_input: %s\n", preview(text))
	if agent.ConversationID != "" {
		fmt.Fprintf(r.out, "Conversation ID: %s\n", agent.ConversationID)
	}

	start := time.Now()
	result, err := r.caller.ChatMessage(ctx, agent.Profile, payload)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if result.ConversationID != "" {
		agent.ConversationID = result.ConversationID
	}
	fmt.Fprintln(r.out, "\n"+render.Response(result, elapsed)+"\n")
	return nil
}

// preview truncates long queries for the call notice.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= 50 {
		return text
	}
	return string(runes[:50]) + "..."
}

func (r *REPL) banner() {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, "difyprobe — Dify agent test console")
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, "Type 'exit' or 'quit' to leave")
	fmt.Fprintln(r.out, "'reset' clears the active agent's conversation")
	fmt.Fprintln(r.out, "'config' shows the loaded profiles")
	fmt.Fprintf(r.out, "Multi-line mode is on by default ('%s' to send, '%s' to discard)\n",
		input.TokenEnd, input.TokenCancel)
	fmt.Fprintf(r.out, "'%s' toggles single/multi-line input\n", input.TokenToggle)
	fmt.Fprintf(r.out, "'%s' in single-line mode starts a one-off multi-line entry\n", input.TokenPaste)
	if r.registry.Len() > 1 {
		var literals []string
		for _, a := range r.registry.Agents() {
			literals = append(literals, ":"+strings.ToLower(a.Alias))
		}
		fmt.Fprintf(r.out, "Switch agents with %s\n", strings.Join(literals, ", "))
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out)
}
