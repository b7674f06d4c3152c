// Package chatmodel defines the conversational data model shared by the
// assistant nodes: the dialog state passed in by the routing graph, the
// per-invocation configuration, and the request-scoped thread/user context
// that tools resolve during a turn.
package chatmodel
