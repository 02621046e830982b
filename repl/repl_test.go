package repl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/keyishen/difyprobe/config"
	"github.com/keyishen/difyprobe/dify"
	"github.com/keyishen/difyprobe/errors"
	"github.com/keyishen/difyprobe/registry"
)

// scriptReader replays fixed lines; reading past the script yields io.EOF,
// which ends the loop the same way a closed stdin would.
type scriptReader struct {
	lines []string
	next  int
}

func (s *scriptReader) ReadLine(prompt string) (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// fakeCaller records payloads and replays scripted results or errors.
type fakeCaller struct {
	results []*dify.Result
	errs    []error
	calls   []*dify.Payload
}

func (f *fakeCaller) ChatMessage(ctx context.Context, profile *config.Profile, payload *dify.Payload) (*dify.Result, error) {
	i := len(f.calls)
	f.calls = append(f.calls, payload)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &dify.Result{Answer: "ok"}, nil
}

func testRegistry(names ...string) *registry.Registry {
	reg := registry.New()
	for _, name := range names {
		reg.Register("config.json", &config.Profile{
			Name:     name,
			APIKey:   "app-0123456789secret",
			BaseURL:  "https://dify.example.com/v1",
			Timezone: "UTC",
			User:     "tester",
		})
	}
	return reg
}

func run(t *testing.T, reg *registry.Registry, caller dify.Caller, lines ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	r := New(reg, &scriptReader{lines: lines}, caller, out)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestTurnStoresConversationID(t *testing.T) {
	reg := testRegistry("planner")
	caller := &fakeCaller{results: []*dify.Result{{Answer: "hi", ConversationID: "conv-1"}}}

	out := run(t, reg, caller, "hello", ":end", "exit")

	if len(caller.calls) != 1 {
		t.Fatalf("expected one remote call, got %d", len(caller.calls))
	}
	if caller.calls[0].Query.UserInput != "hello" {
		t.Errorf("query text: got %q", caller.calls[0].Query.UserInput)
	}
	if caller.calls[0].ConversationID != "" {
		t.Errorf("first turn must not carry a conversation id, got %q", caller.calls[0].ConversationID)
	}
	if reg.Active().ConversationID != "conv-1" {
		t.Errorf("returned conversation id not stored: %q", reg.Active().ConversationID)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("answer not rendered:\n%s", out)
	}
}

func TestSecondTurnCarriesConversationID(t *testing.T) {
	reg := testRegistry("planner")
	caller := &fakeCaller{results: []*dify.Result{
		{Answer: "a", ConversationID: "conv-1"},
		{Answer: "b", ConversationID: "conv-1"},
	}}

	run(t, reg, caller, "one", ":end", "two", ":end", "exit")

	if len(caller.calls) != 2 {
		t.Fatalf("expected two remote calls, got %d", len(caller.calls))
	}
	if caller.calls[1].ConversationID != "conv-1" {
		t.Errorf("second turn should reuse the stored conversation id, got %q", caller.calls[1].ConversationID)
	}
}

func TestCallerErrorDoesNotEndLoop(t *testing.T) {
	reg := testRegistry("planner")
	caller := &fakeCaller{
		errs:    []error{errors.New("request timed out after 1m0s")},
		results: []*dify.Result{nil, {Answer: "recovered"}},
	}

	out := run(t, reg, caller, "boom", ":end", "again", ":end", "exit")

	if len(caller.calls) != 2 {
		t.Fatalf("loop should continue past a failed turn, got %d calls", len(caller.calls))
	}
	if !strings.Contains(out, "timed out") {
		t.Errorf("turn error not reported:\n%s", out)
	}
	if !strings.Contains(out, "recovered") {
		t.Errorf("follow-up turn missing:\n%s", out)
	}
}

func TestResetClearsOnlyActiveAgent(t *testing.T) {
	reg := testRegistry("planner", "coach")
	agents := reg.Agents()
	agents[0].ConversationID = "conv-a"
	agents[1].ConversationID = "conv-b"

	run(t, reg, &fakeCaller{}, "reset", "exit")

	if agents[0].ConversationID != "" {
		t.Errorf("active conversation not cleared: %q", agents[0].ConversationID)
	}
	if agents[1].ConversationID != "conv-b" {
		t.Errorf("inactive conversation touched: %q", agents[1].ConversationID)
	}
}

func TestSwitchAgent(t *testing.T) {
	reg := testRegistry("planner", "coach")

	out := run(t, reg, &fakeCaller{}, ":coach", "exit")

	if reg.Active().Alias != "coach" {
		t.Errorf("active agent: got %q", reg.Active().Alias)
	}
	if !strings.Contains(out, "Switched to agent") {
		t.Errorf("switch not reported:\n%s", out)
	}
}

func TestUnknownTokenForwardedAsText(t *testing.T) {
	reg := testRegistry("planner", "coach")

	// ":stranger" is not a recognized token, so it goes to the agent as
	// plain text rather than being intercepted.
	caller := &fakeCaller{}
	run(t, reg, caller, ":stranger", ":end", "exit")

	if reg.Active().Alias != "planner" {
		t.Errorf("active agent changed: %q", reg.Active().Alias)
	}
	if len(caller.calls) != 1 || caller.calls[0].Query.UserInput != ":stranger" {
		t.Errorf("unrecognized token should be forwarded verbatim, calls: %d", len(caller.calls))
	}
}

func TestSwitchAlreadyActiveWarns(t *testing.T) {
	reg := testRegistry("planner", "coach")

	out := run(t, reg, &fakeCaller{}, ":planner", "exit")

	if !strings.Contains(out, "already active") {
		t.Errorf("expected an already-active warning:\n%s", out)
	}
	if reg.Active().Alias != "planner" {
		t.Errorf("active agent changed: %q", reg.Active().Alias)
	}
}

func TestSwitchRoutesTurnsToNewAgent(t *testing.T) {
	reg := testRegistry("planner", "coach")
	caller := &fakeCaller{results: []*dify.Result{{Answer: "x", ConversationID: "conv-coach"}}}

	run(t, reg, caller, ":coach", "hello", ":end", "exit")

	agents := reg.Agents()
	if agents[1].ConversationID != "conv-coach" {
		t.Errorf("conversation stored on wrong agent: planner=%q coach=%q",
			agents[0].ConversationID, agents[1].ConversationID)
	}
	if caller.calls[0].User != "tester" {
		t.Errorf("unexpected payload user: %q", caller.calls[0].User)
	}
}

func TestModeToggleCommand(t *testing.T) {
	reg := testRegistry("planner")
	// Toggle to single-line, send a single-line query, then exit.
	caller := &fakeCaller{}
	out := run(t, reg, caller, ":chmod", "quick question", "exit")

	if !strings.Contains(out, "single-line mode") {
		t.Errorf("mode switch not reported:\n%s", out)
	}
	if len(caller.calls) != 1 || caller.calls[0].Query.UserInput != "quick question" {
		t.Errorf("single-line turn not processed, calls: %d", len(caller.calls))
	}
}

func TestShowConfig(t *testing.T) {
	reg := testRegistry("planner")
	out := run(t, reg, &fakeCaller{}, "config", "exit")

	if !strings.Contains(out, "Active profile: planner") {
		t.Errorf("config display missing:\n%s", out)
	}
	if strings.Contains(out, "app-0123456789secret") {
		t.Errorf("unmasked key in output:\n%s", out)
	}
}

func TestEOFEndsLoopCleanly(t *testing.T) {
	reg := testRegistry("planner")
	out := run(t, reg, &fakeCaller{}) // empty script -> immediate EOF

	if !strings.Contains(out, "Goodbye") {
		t.Errorf("expected a farewell on EOF:\n%s", out)
	}
}

func TestMockCallerRoundTrip(t *testing.T) {
	reg := testRegistry("planner")
	out := run(t, reg, &dify.MockCaller{}, "ping", ":end", "exit")

	if !strings.Contains(out, "mock answer to: ping") {
		t.Errorf("mock answer missing:\n%s", out)
	}
	if reg.Active().ConversationID != "mock-conversation" {
		t.Errorf("mock conversation id not stored: %q", reg.Active().ConversationID)
	}
}

func TestBannerListsSwitchTokens(t *testing.T) {
	reg := testRegistry("planner", "planner")
	out := run(t, reg, &fakeCaller{}, "exit")

	if !strings.Contains(out, ":planner, :planner_2") {
		t.Errorf("banner should list the switch literals:\n%s", out)
	}
}
