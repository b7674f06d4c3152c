package chatmodel

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrFailedUnmarshalInput is returned by tools when the model-supplied
	// arguments do not match the tool's input schema. The pipeline converts
	// it to a correction message rather than aborting the turn.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
)
