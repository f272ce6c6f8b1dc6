package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Option struct {
	AddrList []string
	Password string
	DB       int
}

func WithAddrs(addrs ...string) func(*Option) {
	return func(o *Option) {
		o.AddrList = addrs
	}
}

func WithPassword(password string) func(*Option) {
	return func(o *Option) {
		o.Password = password
	}
}

// New connects to a single node, or to a cluster when more than one address
// is given, and pings it once.
func New(ctx context.Context, opts ...func(*Option)) (redis.UniversalClient, error) {
	o := Option{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.AddrList) == 0 {
		return nil, fmt.Errorf("redis: no address configured")
	}
	cli := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    o.AddrList,
		Password: o.Password,
		DB:       o.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping failed.Error:%w", err)
	}
	return cli, nil
}
