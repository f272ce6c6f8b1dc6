package routine

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/crochee/actionstore/pkg/logger"
)

// Pool runs goroutines that cannot crash the process
type Pool struct {
	waitGroup sync.WaitGroup
	ctx       context.Context
	option
}

// NewPool creates a Pool.
func NewPool(ctx context.Context, opts ...func(*option)) *Pool {
	p := &Pool{
		ctx:    ctx,
		option: option{recoverFunc: defaultRecoverGoroutine},
	}
	for _, opt := range opts {
		opt(&p.option)
	}
	return p
}

// Go starts a recoverable goroutine with a context.
func (p *Pool) Go(goroutine func(context.Context)) {
	p.waitGroup.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil && p.recoverFunc != nil {
				p.recoverFunc(p.ctx, r)
			}
			p.waitGroup.Done()
		}()
		goroutine(p.ctx)
	}()
}

// Wait blocks until every started goroutine returned
func (p *Pool) Wait() {
	p.waitGroup.Wait()
}

func defaultRecoverGoroutine(ctx context.Context, r interface{}) {
	logger.From(ctx).Error("goroutine panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
}
