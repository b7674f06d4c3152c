// Package assistants provides the sales and support conversational node
// functions for the routing graph. An assistant resolves the thread/user
// context for the turn, invokes its bound pipeline, and returns the turn's
// messages in a canonical shape.
package assistants
