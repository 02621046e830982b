// Package input implements the interactive input multiplexer for difyprobe.
//
// A single read-loop has to disambiguate free text destined for the remote
// agent from a small set of local control commands, across two selectable
// input modes. This package owns every piece of that problem:
//
//   - LineReader / PromptReader: obtains one raw line, preferring the
//     readline editor and falling back (at most once per call) to a plain
//     buffered read when the editor fails mid-call or never initialized.
//   - ModeState: the current single-line/multi-line mode and the one-shot
//     usage-hint flag, flipped by the :chmod command.
//   - Source: classifies raw lines into Commands and runs the multi-line
//     collector.
//
// # Command literals
//
// exit, quit, reset and config are matched case-insensitively against the
// whole (trimmed) line. :chmod toggles the input mode. :paste starts a
// one-off multi-line entry from single-line mode; text after the trigger on
// the same line seeds the buffer. Inside a multi-line entry, :end submits
// and :cancel discards. Agent-switch literals (":" plus the lowercased
// alias) are not fixed: they are looked up through a TokenProvider on every
// classification, so a registry change is picked up immediately.
//
// # Multi-line collection
//
// Lines are buffered raw so interior whitespace in pasted text survives;
// only the final joined result is trimmed at the edges. While the buffer is
// still empty, a line matching a reserved or switch token is returned as
// that command instead of being buffered. This is the escape hatch that
// keeps control commands usable while multi-line is the default mode, and
// it deliberately applies only before any content has been buffered.
package input
