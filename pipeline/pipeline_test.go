package pipeline_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

// fakeModel scripts GenerateContent responses in order.
type fakeModel struct {
	responses []*llms.ContentResponse
	errs      []error
	calls     int
	history   [][]llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := m.calls
	m.calls++
	m.history = append(m.history, messages)
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if idx >= len(m.responses) {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "done"}}}, nil
	}
	return m.responses[idx], nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

// echoTool records its input and returns a canned result.
type echoTool struct {
	name   string
	result string
	err    error
	inputs []string
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "test tool " + t.name }
func (t *echoTool) Parameters() any {
	return map[string]any{"type": "object", "properties": map[string]any{"query": map[string]any{"type": "string"}}}
}

func (t *echoTool) Call(ctx context.Context, input string) (string, error) {
	t.inputs = append(t.inputs, input)
	if t.err != nil {
		return "", t.err
	}
	return t.result, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func toolCallResponse(calls ...llms.ToolCall) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{ToolCalls: calls}}}
}

func sysPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate("You are a helpful sales rep. Current time: {{.time}}.", []string{"time"})
}

func Test_Runnable_PlainAnswer(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{textResponse("Hello!")}}
	r := pipeline.NewRunnable(model, sysPrompt())

	state := &chatmodel.State{}
	state.Append(llms.TextParts(llms.ChatMessageTypeHuman, "hi"))

	res, err := r.Invoke(context.Background(), state, nil)
	require.NoError(t, err)
	msgs := res.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[0].Role)

	// system prompt was rendered with the time input
	require.NotEmpty(t, model.history)
	first := model.history[0][0]
	assert.Equal(t, llms.ChatMessageTypeSystem, first.Role)
	sys := first.Parts[0].(llms.TextContent).Text
	assert.True(t, strings.HasPrefix(sys, "You are a helpful sales rep."))
	assert.NotContains(t, sys, "{{.time}}")
}

func Test_Runnable_ToolRound(t *testing.T) {
	tool := &echoTool{name: "ProductSearch", result: `{"matches":1}`}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(llms.ToolCall{
			ID:   "call_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "ProductSearch",
				Arguments: `{"query":"keyboard"}`,
			},
		}),
		textResponse("Found one keyboard."),
	}}
	r := pipeline.NewRunnable(model, sysPrompt()).WithTools(tool)

	state := &chatmodel.State{}
	state.Append(llms.TextParts(llms.ChatMessageTypeHuman, "find keyboards"))

	res, err := r.Invoke(context.Background(), state, nil)
	require.NoError(t, err)
	msgs := res.Messages()
	// tool-call request, tool response, final answer
	require.Len(t, msgs, 3)
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeTool, msgs[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[2].Role)

	resp := msgs[1].Parts[0].(llms.ToolCallResponse)
	assert.Equal(t, "call_1", resp.ToolCallID)
	assert.Equal(t, `{"matches":1}`, resp.Content)
	assert.Equal(t, []string{`{"query":"keyboard"}`}, tool.inputs)
}

func Test_Runnable_ToolNotFound(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(llms.ToolCall{
			ID:           "call_1",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "NoSuchTool", Arguments: `{}`},
		}),
		textResponse("Sorry about that."),
	}}
	tool := &echoTool{name: "ProductSearch", result: "ok"}
	r := pipeline.NewRunnable(model, sysPrompt()).WithTools(tool)

	state := &chatmodel.State{}
	res, err := r.Invoke(context.Background(), state, nil)
	require.NoError(t, err)

	msgs := res.Messages()
	require.Len(t, msgs, 3)
	resp := msgs[1].Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, resp.Content, "not found")
	assert.Contains(t, resp.Content, "ProductSearch")
}

func Test_Runnable_ToolErrorBecomesContent(t *testing.T) {
	tool := &echoTool{name: "Cart", err: errors.New("store offline")}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(llms.ToolCall{
			ID:           "call_1",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "Cart", Arguments: `{}`},
		}),
		textResponse("I could not update the cart."),
	}}
	r := pipeline.NewRunnable(model, sysPrompt()).WithTools(tool)

	res, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
	require.NoError(t, err)
	resp := res.Messages()[1].Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, resp.Content, "Tool call failed")
	assert.Contains(t, resp.Content, "store offline")
}

func Test_Runnable_UnmarshalErrorHint(t *testing.T) {
	tool := &echoTool{name: "Cart", err: chatmodel.ErrFailedUnmarshalInput}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(llms.ToolCall{
			ID:           "call_1",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "Cart", Arguments: `not json`},
		}),
		textResponse("Let me try again."),
	}}
	r := pipeline.NewRunnable(model, sysPrompt()).WithTools(tool)

	res, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
	require.NoError(t, err)
	resp := res.Messages()[1].Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, resp.Content, "check the JSON schema")
}

func Test_Runnable_ModelErrorPropagates(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("rate limited")}}
	r := pipeline.NewRunnable(model, sysPrompt())

	_, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func Test_Runnable_RoundLimit(t *testing.T) {
	call := llms.ToolCall{
		ID:           "call_1",
		Type:         "function",
		FunctionCall: &llms.FunctionCall{Name: "ProductSearch", Arguments: `{}`},
	}
	// model keeps requesting tools forever
	var responses []*llms.ContentResponse
	for i := 0; i < 20; i++ {
		responses = append(responses, toolCallResponse(call))
	}
	tool := &echoTool{name: "ProductSearch", result: "ok"}
	r := pipeline.NewRunnable(&fakeModel{responses: responses}, sysPrompt()).
		WithTools(tool).
		WithMaxToolRounds(3)

	_, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded limit")
}

func Test_Runnable_SynthesizesToolCallID(t *testing.T) {
	tool := &echoTool{name: "ProductSearch", result: "ok"}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(llms.ToolCall{
			FunctionCall: &llms.FunctionCall{Name: "ProductSearch", Arguments: `{}`},
		}),
		textResponse("done"),
	}}
	r := pipeline.NewRunnable(model, sysPrompt()).WithTools(tool)

	res, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
	require.NoError(t, err)
	resp := res.Messages()[1].Parts[0].(llms.ToolCallResponse)
	assert.True(t, strings.HasPrefix(resp.ToolCallID, "ProductSearch_"))
}

// lockedModel answers every call with a plain text response and is safe
// for parallel use.
type lockedModel struct {
	mu    sync.Mutex
	calls int
}

func (m *lockedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return textResponse("done"), nil
}

func (m *lockedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func Test_Runnable_ConcurrentInvoke(t *testing.T) {
	tool := &echoTool{name: "ProductSearch", result: "ok"}
	model := &lockedModel{}
	// base call options leave spare capacity, tools bound so each Invoke
	// extends the option list
	r := pipeline.NewRunnable(model, sysPrompt()).
		WithTools(tool).
		WithCallOptions(llms.WithTemperature(0.2), llms.WithMaxTokens(256))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.Invoke(context.Background(), &chatmodel.State{}, nil)
			if err != nil {
				errs[i] = err
				return
			}
			if len(res.Messages()) == 0 {
				errs[i] = errors.New("empty result")
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, workers, model.calls)
}
