package input

import "testing"

func TestModeDefaultsToMultiline(t *testing.T) {
	m := NewModeState()
	if !m.Multiline() {
		t.Error("initial mode should be multi-line")
	}
	if m.HintShown() {
		t.Error("hint should start un-shown")
	}
}

func TestTogglePairReturnsToOriginal(t *testing.T) {
	m := NewModeState()
	if got := m.Toggle(); got != ModeSingle {
		t.Fatalf("first toggle: got %v", got)
	}
	if got := m.Toggle(); got != ModeMulti {
		t.Fatalf("second toggle: got %v", got)
	}
	if !m.Multiline() {
		t.Error("two toggles should restore the original mode")
	}
}

func TestToggleRearmsHintOnlyOnEnteringMultiline(t *testing.T) {
	m := NewModeState()
	m.MarkHintShown()

	m.Toggle() // multi -> single
	if !m.HintShown() {
		t.Error("leaving multi-line must not touch the hint flag")
	}

	m.Toggle() // single -> multi
	if m.HintShown() {
		t.Error("entering multi-line must re-arm the hint")
	}
}

func TestModeString(t *testing.T) {
	if ModeSingle.String() != "single-line" || ModeMulti.String() != "multi-line" {
		t.Errorf("unexpected mode names: %v, %v", ModeSingle, ModeMulti)
	}
}
