// Package render produces all operator-facing text: response blocks,
// profile listings with masked secrets, and the warning/error styles shared
// by the loop. Purely presentational; nothing here mutates state.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/keyishen/difyprobe/dify"
	"github.com/keyishen/difyprobe/registry"
)

var (
	sRule  = lipgloss.NewStyle().Faint(true)
	sLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	sWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	sErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	sOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

const ruleWidth = 60

func rule(ch string) string {
	return sRule.Render(strings.Repeat(ch, ruleWidth))
}

// Warn styles a warning line.
func Warn(msg string) string {
	return sWarn.Render("⚠ " + msg)
}

// Error styles an error line.
func Error(msg string) string {
	return sErr.Render("✗ " + msg)
}

// OK styles a confirmation line.
func OK(msg string) string {
	return sOK.Render("✓ " + msg)
}

// Response renders one remote result with the elapsed request time.
func Response(result *dify.Result, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(rule("=") + "\n")
	b.WriteString(sLabel.Render("Agent response:") + "\n")
	b.WriteString(rule("-") + "\n")
	b.WriteString(result.Answer + "\n")
	b.WriteString(rule("-") + "\n")
	if result.ConversationID != "" {
		fmt.Fprintf(&b, "Conversation ID: %s\n", result.ConversationID)
	}
	fmt.Fprintf(&b, "Response time: %.2fs\n", elapsed.Seconds())
	if result.Metadata.Usage.TotalTokens > 0 {
		fmt.Fprintf(&b, "Tokens used: %d\n", result.Metadata.Usage.TotalTokens)
	}
	if result.Metadata.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n", result.Metadata.Model)
	}
	b.WriteString(rule("="))
	return b.String()
}

// MaskKey hides all but a short prefix of a credential.
func MaskKey(key string) string {
	if len(key) > 10 {
		return key[:10] + "..."
	}
	return key
}

// Profiles renders the active profile in full plus a one-line-per-agent
// registry listing. Secrets are masked.
func Profiles(reg *registry.Registry) string {
	a := reg.Active()
	p := a.Profile

	var b strings.Builder
	b.WriteString(rule("=") + "\n")
	fmt.Fprintf(&b, "%s\n", sLabel.Render("Active profile: "+a.Alias))
	b.WriteString(rule("-") + "\n")
	fmt.Fprintf(&b, "API Key: %s\n", MaskKey(p.APIKey))
	fmt.Fprintf(&b, "Dify Base URL: %s\n", p.BaseURL)
	fmt.Fprintf(&b, "Timezone: %s\n", p.Timezone)
	fmt.Fprintf(&b, "User: %s\n", p.User)
	fmt.Fprintf(&b, "Current state: %s\n", compactJSON(p.CurrentState))
	fmt.Fprintf(&b, "User memory: %s\n", compactJSON(p.UserMemory))
	fmt.Fprintf(&b, "Behavioral patterns: %s\n", compactJSON(p.BehavioralPatterns))
	fmt.Fprintf(&b, "Insight: %s\n", compactJSON(p.Insight))
	fmt.Fprintf(&b, "Candidate items: %d\n", len(p.CandidateItems))
	b.WriteString(rule("-") + "\n")
	b.WriteString(sLabel.Render("Registered agents:") + "\n")
	for _, agent := range reg.Agents() {
		marker := " "
		if agent == a {
			marker = "*"
		}
		name := agent.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(&b, "%s %s  path=%s  name=%s\n", marker, agent.Alias, agent.Path, name)
	}
	b.WriteString(rule("="))
	return b.String()
}

func compactJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
