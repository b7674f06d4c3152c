package pipeline

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Kind discriminates the shapes a pipeline may produce.
type Kind int

const (
	// KindTurn is a full list of messages produced during the turn.
	KindTurn Kind = iota
	// KindMessage is a single message.
	KindMessage
	// KindText is plain text to be wrapped into a synthetic AI message.
	KindText
)

// Result is the tagged return value of a pipeline invocation. Constructors
// enforce the variant; Messages resolves any variant to a non-empty message
// list.
type Result struct {
	kind     Kind
	messages []llms.MessageContent
	message  llms.MessageContent
	text     string
}

// TurnResult wraps the messages produced during one turn.
func TurnResult(msgs []llms.MessageContent) *Result {
	return &Result{kind: KindTurn, messages: msgs}
}

// MessageResult wraps a single produced message.
func MessageResult(msg llms.MessageContent) *Result {
	return &Result{kind: KindMessage, message: msg}
}

// TextResult wraps plain text; Messages renders it as one AI message.
func TextResult(text string) *Result {
	return &Result{kind: KindText, text: text}
}

func (r *Result) Kind() Kind {
	return r.kind
}

// Messages normalizes the result to an ordered, non-empty message list.
// An empty turn degrades to a single empty AI message so that callers can
// rely on the shape without nil checks.
func (r *Result) Messages() []llms.MessageContent {
	switch r.kind {
	case KindMessage:
		return []llms.MessageContent{r.message}
	case KindText:
		return []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeAI, r.text)}
	default:
		if len(r.messages) == 0 {
			return []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeAI, "")}
		}
		return r.messages
	}
}

// FromAny adapts a loose pipeline return value to a Result. This is the
// compatibility boundary for collaborators that cannot adopt the typed
// contract; new pipelines should construct Results directly.
//
// Resolution order:
//  1. a map carrying a "messages" key: its value is resolved recursively;
//  2. a single message: wrapped as one message;
//  3. a slice of messages: passed through;
//  4. a slice with non-message elements, or anything else: its string
//     representation wrapped in a synthetic AI message.
func FromAny(v any) *Result {
	switch val := v.(type) {
	case *Result:
		return val
	case map[string]any:
		if inner, ok := val["messages"]; ok {
			return FromAny(inner)
		}
		return TextResult(fmt.Sprintf("%v", val))
	case llms.MessageContent:
		return MessageResult(val)
	case []llms.MessageContent:
		return TurnResult(val)
	case []any:
		msgs := make([]llms.MessageContent, 0, len(val))
		for _, item := range val {
			msg, ok := item.(llms.MessageContent)
			if !ok {
				return TextResult(fmt.Sprintf("%v", val))
			}
			msgs = append(msgs, msg)
		}
		return TurnResult(msgs)
	default:
		return TextResult(fmt.Sprintf("%v", v))
	}
}
