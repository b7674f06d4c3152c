// Package tools defines the Tool interface for the assistant agents,
// including naming, parameter schema, and invocation. Tools let the model
// act on the catalog, the cart, routing, and web search in a structured way.
package tools
