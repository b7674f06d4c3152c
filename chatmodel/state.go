package chatmodel

import (
	"github.com/tmc/langchaingo/llms"
)

// State is the dialog history for one conversation, owned by the routing
// graph. Invocations read it and produce new messages; only the graph appends.
type State struct {
	Messages []llms.MessageContent `json:"messages"`
}

// Append adds messages produced by an invocation to the history.
func (s *State) Append(msgs ...llms.MessageContent) {
	s.Messages = append(s.Messages, msgs...)
}

// LastHumanInput returns the text of the most recent human message,
// or an empty string when the history has none.
func (s *State) LastHumanInput() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, p := range s.Messages[i].Parts {
			if tc, ok := p.(llms.TextContent); ok {
				return tc.Text
			}
		}
	}
	return ""
}

// Config is the per-invocation configuration supplied by the routing graph.
// It is a loose mapping on purpose: callers may send a partial or malformed
// shape and the invoker must still resolve a usable thread id.
type Config map[string]any

// ThreadID extracts configurable.thread_id. The second return is false when
// the key path is absent or any level has an unexpected type.
func (c Config) ThreadID() (string, bool) {
	if c == nil {
		return "", false
	}
	configurable, ok := c["configurable"].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := configurable["thread_id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
