package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/pkg/metricskey"
	"github.com/salesdesk-ai/salesdesk/tools"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

var logger = xlog.NewPackageLogger("github.com/salesdesk-ai/salesdesk", "pipeline")

// DefaultMaxToolRounds bounds the generate/tool-call loop for one turn.
const DefaultMaxToolRounds = 10

// Pipeline is one conversational turn: given the dialog state and the
// per-call config, produce the turn's new messages.
type Pipeline interface {
	Invoke(ctx context.Context, state *chatmodel.State, cfg chatmodel.Config) (*Result, error)
}

// Runnable binds a system prompt, a chat model, and a toolset. It implements
// Pipeline by running the generate/tool-call loop until the model answers
// without requesting tools.
type Runnable struct {
	llm    llms.Model
	prompt prompts.FormatPrompter

	toolsByName map[string]tools.ITool
	toolsNames  []string
	llmToolDefs []llms.Tool

	promptInputs  map[string]any
	callOptions   []llms.CallOption
	maxToolRounds int
	toolCallback  tools.Callback
}

var _ Pipeline = (*Runnable)(nil)

// NewRunnable binds the prompt to the model. Tools are attached with
// WithTools.
func NewRunnable(model llms.Model, prompt prompts.FormatPrompter) *Runnable {
	return &Runnable{
		llm:           model,
		prompt:        prompt,
		maxToolRounds: DefaultMaxToolRounds,
	}
}

// WithTools adds new tools to the Runnable, existing tools are not replaced.
func (r *Runnable) WithTools(list ...tools.ITool) *Runnable {
	if r.toolsByName == nil {
		r.toolsByName = make(map[string]tools.ITool)
	}
	for _, tool := range list {
		name := tool.Name()
		// use lowercase for the key
		nameLowerCase := strings.ToLower(name)
		if r.toolsByName[nameLowerCase] == nil {
			r.toolsByName[nameLowerCase] = tool
			r.toolsNames = append(r.toolsNames, name)
			r.llmToolDefs = append(r.llmToolDefs, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        name,
					Description: tool.Description(),
					Parameters:  tool.Parameters(),
				},
			})
		}
	}
	return r
}

// WithPromptInput sets default system prompt inputs.
func (r *Runnable) WithPromptInput(input map[string]any) *Runnable {
	r.promptInputs = input
	return r
}

// WithCallOptions sets model call options applied to every generation.
func (r *Runnable) WithCallOptions(opts ...llms.CallOption) *Runnable {
	r.callOptions = append(r.callOptions, opts...)
	return r
}

// WithMaxToolRounds overrides the tool round limit.
func (r *Runnable) WithMaxToolRounds(n int) *Runnable {
	if n > 0 {
		r.maxToolRounds = n
	}
	return r
}

// WithToolCallback sets a callback notified around each tool execution.
func (r *Runnable) WithToolCallback(cb tools.Callback) *Runnable {
	r.toolCallback = cb
	return r
}

// Tools returns the attached tools, in registration order.
func (r *Runnable) Tools() []tools.ITool {
	list := make([]tools.ITool, 0, len(r.toolsNames))
	for _, name := range r.toolsNames {
		list = append(list, r.toolsByName[strings.ToLower(name)])
	}
	return list
}

// Invoke runs one turn. The returned Result carries every message produced
// during the turn: the tool-call requests, the tool responses, and the final
// AI answer, in order.
func (r *Runnable) Invoke(ctx context.Context, state *chatmodel.State, cfg chatmodel.Config) (*Result, error) {
	systemPrompt, err := r.systemPrompt()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to format system prompt")
	}

	history := make([]llms.MessageContent, 0, len(state.Messages)+1)
	history = append(history, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	history = append(history, state.Messages...)

	// Invoke may run concurrently on a shared Runnable; never append into
	// the shared options slice.
	callOpts := make([]llms.CallOption, 0, len(r.callOptions)+1)
	callOpts = append(callOpts, r.callOptions...)
	if len(r.llmToolDefs) > 0 {
		callOpts = append(callOpts, llms.WithTools(r.llmToolDefs))
	}

	var produced []llms.MessageContent
	for round := 0; ; round++ {
		if round >= r.maxToolRounds {
			return nil, errors.Newf("pipeline: tool call rounds exceeded limit %d", r.maxToolRounds)
		}

		resp, err := r.llm.GenerateContent(ctx, history, callOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate content from LLM")
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("pipeline: LLM returned empty response with no choices")
		}
		choice := resp.Choices[0]

		if len(choice.ToolCalls) == 0 {
			produced = append(produced, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
			break
		}

		assistantMsg, responses := r.executeToolCalls(ctx, choice.ToolCalls)
		history = append(history, assistantMsg)
		history = append(history, responses...)
		produced = append(produced, assistantMsg)
		produced = append(produced, responses...)
	}

	return TurnResult(produced), nil
}

func (r *Runnable) systemPrompt() (string, error) {
	inputs := map[string]any{
		"time": time.Now().Format(time.RFC1123),
	}
	for k, v := range r.promptInputs {
		inputs[k] = v
	}
	// drop inputs the template does not declare
	declared := make(map[string]bool)
	for _, v := range r.prompt.GetInputVariables() {
		declared[v] = true
	}
	for k := range inputs {
		if !declared[k] {
			delete(inputs, k)
		}
	}
	pv, err := r.prompt.FormatPrompt(inputs)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(pv.String(), "\n"), nil
}

// executeToolCalls runs the requested tool calls in parallel and returns the
// assistant message carrying the requests plus one tool response message per
// call, in request order. Failures become response content, never errors:
// the model gets the chance to recover.
func (r *Runnable) executeToolCalls(ctx context.Context, toolCalls []llms.ToolCall) (llms.MessageContent, []llms.MessageContent) {
	assistantMsg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	for i := range toolCalls {
		if toolCalls[i].ID == "" {
			toolCalls[i].ID = fmt.Sprintf("%s_%s", toolCalls[i].FunctionCall.Name, uuid.NewString())
		}
		toolCalls[i].Type = values.StringsCoalesce(toolCalls[i].Type, "function")
		assistantMsg.Parts = append(assistantMsg.Parts, toolCalls[i])
	}

	contents := make([]string, len(toolCalls))

	var wg sync.WaitGroup
	wg.Add(len(toolCalls))
	for i, toolCall := range toolCalls {
		go func(index int, tc llms.ToolCall) {
			defer wg.Done()
			contents[index] = r.executeToolCall(ctx, tc)
		}(i, toolCall)
	}
	wg.Wait()

	responses := make([]llms.MessageContent, 0, len(toolCalls))
	for i, tc := range toolCalls {
		responses = append(responses, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: tc.ID,
				Name:       tc.FunctionCall.Name,
				Content:    contents[i],
			}},
		})
	}
	return assistantMsg, responses
}

func (r *Runnable) executeToolCall(ctx context.Context, tc llms.ToolCall) string {
	toolName := tc.FunctionCall.Name
	toolArgs := tc.FunctionCall.Arguments

	tool := r.toolsByName[strings.ToLower(toolName)]
	if tool == nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)
		availableTools := strings.Join(r.toolsNames, ", ")
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool_name", toolName,
			"available_tools", availableTools,
		)
		return fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", toolName, availableTools)
	}

	if r.toolCallback != nil {
		r.toolCallback.OnToolStart(ctx, tool, toolArgs)
	}

	started := time.Now()
	res, err := tool.Call(ctx, toolArgs)
	metricskey.PerfToolCall.MeasureSince(started, toolName)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		if r.toolCallback != nil {
			r.toolCallback.OnToolError(ctx, tool, toolArgs, err)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_call_failed",
			"tool", toolName,
			"args", slices.StringUpto(toolArgs, 64),
			"err", err.Error(),
		)
		if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
			return "Failed to unmarshal input, check the JSON schema and try again."
		}
		return fmt.Sprintf("Tool call failed: %s", err.Error())
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	if r.toolCallback != nil {
		r.toolCallback.OnToolEnd(ctx, tool, toolArgs, res)
	}
	return res
}
