package adapters

import (
	"context"
)

// Param is a single named argument of an upstream operation. Order matters on the wire.
type Param struct {
	Name  string
	Value string
}

// Reply is the decoded body of an operation response. Values are nested
// map[string]any, []any, string or nil.
type Reply map[string]any

type SOAPClient interface {
	Call(ctx context.Context, operation string, params ...Param) (Reply, error)
}
