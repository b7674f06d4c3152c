package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/salesdesk-ai/salesdesk/assistants"
	"github.com/salesdesk-ai/salesdesk/callbacks"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

type fakeAssistant struct {
	name string
}

func (a *fakeAssistant) Name() string          { return a.name }
func (a *fakeAssistant) Description() string   { return "fake" }
func (a *fakeAssistant) Role() assistants.Role { return assistants.RoleSales }
func (a *fakeAssistant) Invoke(ctx context.Context, state *chatmodel.State, cfg chatmodel.Config) (*assistants.Turn, error) {
	return &assistants.Turn{}, nil
}

type fakeTool struct {
	name string
}

func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) Description() string { return "fake" }
func (t *fakeTool) Parameters() any     { return nil }
func (t *fakeTool) Call(ctx context.Context, input string) (string, error) {
	return "", nil
}

func TestCallback(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	ast := &fakeAssistant{name: "test-assistant"}
	tool := &fakeTool{name: "test-tool"}

	turn := &assistants.Turn{
		Messages: []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeAI, "test output"),
		},
	}

	cb.OnAssistantStart(context.Background(), ast, "test input")
	cb.OnAssistantEnd(context.Background(), ast, "test input", turn)
	cb.OnAssistantError(context.Background(), ast, "test input", errors.New("test error"))
	cb.OnToolStart(context.Background(), tool, "test input")
	cb.OnToolEnd(context.Background(), tool, "test input", "test output")
	cb.OnToolError(context.Background(), tool, "test input", errors.New("test error"))

	res := buf.String()
	assert.Contains(t, res, "Assistant Start: test-assistant")
	assert.Contains(t, res, "Input: test input")
	assert.Contains(t, res, "Assistant End: test-assistant")
	assert.Contains(t, res, "test output")
	assert.Contains(t, res, "Assistant Error: test-assistant: test error")
	assert.Contains(t, res, "Tool Start: test-tool")
	assert.Contains(t, res, "Tool End: test-tool")
	assert.Contains(t, res, "Output: test output")
	assert.Contains(t, res, "Tool Error: test-tool: test error")
}

func TestFanout(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	fan := callbacks.NewFanout(callbacks.NewPrinter(&buf1, callbacks.ModeDefault))
	fan.Add(callbacks.NewPrinter(&buf2, callbacks.ModeVerbose))

	ast := &fakeAssistant{name: "test-assistant"}
	tool := &fakeTool{name: "test-tool"}

	fan.OnAssistantStart(context.Background(), ast, "test input")
	fan.OnAssistantEnd(context.Background(), ast, "test input", &assistants.Turn{})
	fan.OnAssistantError(context.Background(), ast, "test input", errors.New("test error"))
	fan.OnToolStart(context.Background(), tool, "test input")
	fan.OnToolEnd(context.Background(), tool, "test input", "test output")
	fan.OnToolError(context.Background(), tool, "test input", errors.New("test error"))

	for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
		res := buf.String()
		assert.Contains(t, res, "Assistant Start: test-assistant")
		assert.Contains(t, res, "Tool End: test-tool")
	}
	// verbose printer includes tool output, the default one does not
	assert.NotContains(t, buf1.String(), "Output: test output")
	assert.Contains(t, buf2.String(), "Output: test output")
}

func TestNoop(t *testing.T) {
	cb := callbacks.NewNoop()
	ast := &fakeAssistant{name: "test-assistant"}
	tool := &fakeTool{name: "test-tool"}

	cb.OnAssistantStart(context.Background(), ast, "test input")
	cb.OnAssistantEnd(context.Background(), ast, "test input", &assistants.Turn{})
	cb.OnAssistantError(context.Background(), ast, "test input", errors.New("test error"))
	cb.OnToolStart(context.Background(), tool, "test input")
	cb.OnToolEnd(context.Background(), tool, "test input", "test output")
	cb.OnToolError(context.Background(), tool, "test input", errors.New("test error"))
}
