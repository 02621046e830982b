package dify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/keyishen/difyprobe/config"
)

// Task category and repetition labels as the backend defines them. The
// joined strings are fed to the agent so it can map free text onto these
// numeric codes.
var (
	taskCategories = map[int]string{
		1: "生活",
		2: "健康",
		3: "工作",
		4: "学习",
		5: "放松",
		6: "探索",
	}
	repetitionLabels = map[int]string{
		0: "不重复",
		1: "每日",
		2: "每周",
		3: "每月",
	}
)

// CategoryString renders the task categories as "1：生活/2：健康/...".
func CategoryString() string {
	return joinLabels(taskCategories)
}

// RepetitionString renders the repetition options as "0：不重复/1：每日/...".
func RepetitionString() string {
	return joinLabels(repetitionLabels)
}

func joinLabels(labels map[int]string) string {
	keys := make([]int, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d：%s", k, labels[k]))
	}
	return strings.Join(parts, "/")
}

// Query is the structured query object the Dify application expects.
type Query struct {
	UserInput      string                 `json:"user_input"`
	CurrentState   map[string]interface{} `json:"current_state"`
	Insight        map[string]interface{} `json:"insight"`
	CandidateItems []interface{}          `json:"candidate_items"`
	ContextInfo    map[string]interface{} `json:"context_info"`
}

// Payload is one chat-messages request body.
type Payload struct {
	Inputs         map[string]interface{} `json:"inputs"`
	Query          Query                  `json:"query"`
	ResponseMode   string                 `json:"response_mode"`
	User           string                 `json:"user"`
	ConversationID string                 `json:"conversation_id,omitempty"`
}

// BuildPayload assembles the request body for one turn. conversationID is
// included only when non-empty, so the first turn of a conversation starts
// fresh on the server side.
func BuildPayload(p *config.Profile, conversationID, userInput string) *Payload {
	return &Payload{
		Inputs: map[string]interface{}{},
		Query: Query{
			UserInput:      userInput,
			CurrentState:   p.CurrentState,
			Insight:        p.Insight,
			CandidateItems: p.CandidateItems,
			ContextInfo:    ContextInfo(p.Timezone, p.ContextInfo),
		},
		ResponseMode:   "blocking",
		User:           p.User,
		ConversationID: conversationID,
	}
}

// ContextInfo computes the per-turn environment snapshot in the profile's
// timezone. Keys present in overrides win; missing ones are filled in.
func ContextInfo(timezone string, overrides map[string]interface{}) map[string]interface{} {
	return contextInfoAt(timeIn(timezone), overrides)
}

func contextInfoAt(now time.Time, overrides map[string]interface{}) map[string]interface{} {
	info := map[string]interface{}{
		"time_of_day": timeOfDay(now.Hour()),
		"day_of_week": now.Weekday().String(),
		"weather":     nil,
		"season":      season(now.Month()),
	}
	for k, v := range overrides {
		info[k] = v
	}
	return info
}

func timeIn(timezone string) time.Time {
	if timezone == "" {
		return time.Now()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		// Invalid zone falls back to the system zone.
		return time.Now()
	}
	return time.Now().In(loc)
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// Northern-hemisphere seasons.
func season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
