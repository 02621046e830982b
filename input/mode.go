package input

// Mode selects how operator input is read.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

func (m Mode) String() string {
	if m == ModeMulti {
		return "multi-line"
	}
	return "single-line"
}

// ModeState holds the current input mode and the one-shot usage-hint flag.
// Multi-line is the initial mode.
type ModeState struct {
	mode      Mode
	hintShown bool
}

func NewModeState() *ModeState {
	return &ModeState{mode: ModeMulti}
}

// Toggle flips the input mode and returns the new mode. Entering multi-line
// re-arms the usage hint so it is shown once more.
func (s *ModeState) Toggle() Mode {
	if s.mode == ModeSingle {
		s.mode = ModeMulti
		s.hintShown = false
	} else {
		s.mode = ModeSingle
	}
	return s.mode
}

func (s *ModeState) Mode() Mode {
	return s.mode
}

func (s *ModeState) Multiline() bool {
	return s.mode == ModeMulti
}

func (s *ModeState) HintShown() bool {
	return s.hintShown
}

func (s *ModeState) MarkHintShown() {
	s.hintShown = true
}
