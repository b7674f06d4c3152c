// Package websearch loads the Brave web-search tools for the assistants.
// The loader inspects credential presence and the reachability of the Brave
// MCP server and returns a usable toolset in every case: a live integration
// when the server is up, a stub when it exposes nothing relevant, and
// placeholder tools when the credential is missing or the server cannot be
// reached. It never returns an error and never leaves the caller without a
// callable tool.
package websearch
