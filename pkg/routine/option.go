package routine

import "context"

// RecoverFunc handles a value recovered from a panicking goroutine
type RecoverFunc func(ctx context.Context, r interface{})

type option struct {
	recoverFunc RecoverFunc
}

// Recover replaces the default handler, which logs the panic with its stack
func Recover(f RecoverFunc) func(*option) {
	return func(o *option) { o.recoverFunc = f }
}
