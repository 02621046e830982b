package input

// Kind identifies what one input cycle produced.
type Kind int

const (
	KindNone Kind = iota // nothing usable this cycle; caller loops
	KindText
	KindModeToggle
	KindSwitch
	KindReset
	KindShowConfig
	KindExit
)

// Command is the classified outcome of one input cycle.
type Command struct {
	Kind   Kind
	Text   string // query text for KindText
	Target string // agent alias for KindSwitch
}

// Fixed command literals. Agent-switch literals are dynamic; see
// TokenProvider.
const (
	TokenToggle = ":chmod"
	TokenPaste  = ":paste"
	TokenEnd    = ":end"
	TokenCancel = ":cancel"
)
