package registry

import (
	"fmt"
	"strings"

	"github.com/keyishen/difyprobe/config"
)

// Agent is one loaded profile plus its runtime conversation state. The
// conversation id lives only here; switching agents changes which Agent the
// registry's active pointer refers to, never copies the id elsewhere.
type Agent struct {
	Alias          string
	Name           string // declared preferred name, may be empty
	Path           string
	Profile        *config.Profile
	ConversationID string
}

// Registry maps aliases to agents in registration order and tracks the one
// active agent. It must hold at least one agent before the loop starts.
type Registry struct {
	order  []string
	agents map[string]*Agent
	active string
}

func New() *Registry {
	return &Registry{agents: map[string]*Agent{}}
}

// Register adds a profile under a unique alias. The alias comes from the
// profile's declared name, or a positional agentN fallback, normalized
// (spaces to underscores) and suffixed _2, _3, ... on collision. The first
// registered agent becomes active.
func (r *Registry) Register(path string, p *config.Profile) *Agent {
	preferred := p.Name
	if preferred == "" {
		preferred = fmt.Sprintf("agent%d", len(r.order)+1)
	}
	alias := normalize(preferred)
	if _, taken := r.agents[alias]; taken {
		for i := 2; ; i++ {
			candidate := fmt.Sprintf("%s_%d", alias, i)
			if _, taken := r.agents[candidate]; !taken {
				alias = candidate
				break
			}
		}
	}

	a := &Agent{Alias: alias, Name: p.Name, Path: path, Profile: p}
	r.agents[alias] = a
	r.order = append(r.order, alias)
	if r.active == "" {
		r.active = alias
	}
	return a
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Len reports the number of registered agents.
func (r *Registry) Len() int {
	return len(r.order)
}

// Agents returns all agents in registration order.
func (r *Registry) Agents() []*Agent {
	out := make([]*Agent, 0, len(r.order))
	for _, alias := range r.order {
		out = append(out, r.agents[alias])
	}
	return out
}

// Active returns the currently active agent, or nil when the registry is
// empty.
func (r *Registry) Active() *Agent {
	return r.agents[r.active]
}

// Has reports whether an agent is registered under alias.
func (r *Registry) Has(alias string) bool {
	_, ok := r.agents[alias]
	return ok
}

// Switch makes the named agent active and returns it. Unknown aliases leave
// the active pointer untouched and return nil; callers are expected to have
// checked Has first and to warn the operator themselves.
func (r *Registry) Switch(alias string) *Agent {
	a, ok := r.agents[alias]
	if !ok {
		return nil
	}
	r.active = alias
	return a
}

// ResetConversation clears the active agent's conversation id. Other
// agents' stored ids are untouched.
func (r *Registry) ResetConversation() {
	if a := r.Active(); a != nil {
		a.ConversationID = ""
	}
}

// SwitchTokens returns the current command literals for agent switching,
// keyed by ":" plus the lowercased alias. The map is rebuilt on every call
// so callers always see the live registry contents.
func (r *Registry) SwitchTokens() map[string]string {
	tokens := make(map[string]string, len(r.order))
	for _, alias := range r.order {
		tokens[":"+strings.ToLower(alias)] = alias
	}
	return tokens
}
