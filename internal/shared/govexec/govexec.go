// Package govexec carries the governance-execution authority marker.
//
// The marker distinguishes "called directly by an external account" from
// "called while executing a passed motion's actions". Only the lifecycle
// controller's execute path attaches it; transport layers never do, so a
// request context arriving over HTTP can never carry the authority.
package govexec

import "context"

type ctxKey struct{}

// WithExecutionAuthority marks ctx as running inside the execution of a
// passed motion.
func WithExecutionAuthority(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, true)
}

// IsExecutionAuthority reports whether ctx carries the execution marker.
func IsExecutionAuthority(ctx context.Context) bool {
	v, ok := ctx.Value(ctxKey{}).(bool)
	return ok && v
}
