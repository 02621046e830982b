package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/keyishen/difyprobe/errors"
)

// Profile is one agent configuration as declared in a config*.json file.
// APIKey, BaseURL, Timezone and User are mandatory; the free-form state
// fields default to empty containers so payload construction never has to
// nil-check them.
type Profile struct {
	Name               string                 `json:"name,omitempty"`
	APIKey             string                 `json:"api_key"`
	BaseURL            string                 `json:"dify_base_url"`
	Timezone           string                 `json:"timezone"`
	User               string                 `json:"user"`
	CurrentState       map[string]interface{} `json:"current_state"`
	UserMemory         map[string]interface{} `json:"user_memory"`
	BehavioralPatterns map[string]interface{} `json:"behavioral_patterns"`
	Insight            map[string]interface{} `json:"insight"`
	CandidateItems     []interface{}          `json:"candidate_items"`
	ContextInfo        map[string]interface{} `json:"context_info,omitempty"`
}

// Load reads and validates one profile. Any failure here is fatal to the
// caller; there is no partial load.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "config file %s is not valid JSON", path)
	}
	if err := p.validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	p.applyDefaults()
	return &p, nil
}

func (p *Profile) validate() error {
	var missing []string
	if p.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if p.BaseURL == "" {
		missing = append(missing, "dify_base_url")
	}
	if p.Timezone == "" {
		missing = append(missing, "timezone")
	}
	if p.User == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (p *Profile) applyDefaults() {
	if p.CurrentState == nil {
		p.CurrentState = map[string]interface{}{}
	}
	if p.UserMemory == nil {
		p.UserMemory = map[string]interface{}{}
	}
	if p.BehavioralPatterns == nil {
		p.BehavioralPatterns = map[string]interface{}{}
	}
	if p.Insight == nil {
		p.Insight = map[string]interface{}{}
	}
	if p.CandidateItems == nil {
		p.CandidateItems = []interface{}{}
	}
}
