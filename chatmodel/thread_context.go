package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

const (
	// DefaultThreadID is used when the invocation config does not carry a
	// well-formed thread id.
	DefaultThreadID = "default-thread"
	// DefaultUserID identifies anonymous shoppers until authentication is
	// wired into the routing graph.
	DefaultUserID = "guest"
)

// ThreadContext scopes one conversation turn: the thread id identifying the
// session and the user id owning it. It is carried in context.Context and
// read by tool implementations, so concurrent invocations never observe each
// other's identifiers.
type ThreadContext interface {
	GetThreadID() string
	GetUserID() string
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type threadContext struct {
	threadID string
	userID   string
	metadata sync.Map
}

func (c *threadContext) GetThreadID() string {
	return c.threadID
}

func (c *threadContext) GetUserID() string {
	return c.userID
}

func (c *threadContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *threadContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// NewThreadContext creates a ThreadContext with the given ids,
// falling back to generated/default values when empty.
func NewThreadContext(threadID, userID string) ThreadContext {
	return &threadContext{
		threadID: values.StringsCoalesce(threadID, NewThreadID()),
		userID:   values.StringsCoalesce(userID, DefaultUserID),
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithThreadContext returns a new context carrying the ThreadContext.
func WithThreadContext(ctx context.Context, tc ThreadContext) context.Context {
	return context.WithValue(ctx, keyContext, tc)
}

// GetThreadContext retrieves the ThreadContext from the context,
// or nil if none is set.
func GetThreadContext(ctx context.Context) ThreadContext {
	if v, ok := ctx.Value(keyContext).(ThreadContext); ok {
		return v
	}
	return nil
}

// GetThreadID returns the thread id from the context,
// or DefaultThreadID when no ThreadContext is set.
func GetThreadID(ctx context.Context) string {
	if v, ok := ctx.Value(keyContext).(ThreadContext); ok {
		return v.GetThreadID()
	}
	return DefaultThreadID
}

// GetUserID returns the user id from the context,
// or DefaultUserID when no ThreadContext is set.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(keyContext).(ThreadContext); ok {
		return v.GetUserID()
	}
	return DefaultUserID
}

// NewThreadID generates a new thread ID using the flake ID generator.
func NewThreadID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
