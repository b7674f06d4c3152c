// Package pipeline binds a role prompt, a chat model, and a toolset into a
// single invocable unit, one invocation per conversational turn. The Result
// type is the typed return contract between a pipeline and the assistant
// node that invokes it; FromAny adapts collaborators that still return loose
// shapes.
package pipeline
