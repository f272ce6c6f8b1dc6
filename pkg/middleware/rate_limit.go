package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mailgun/ttlmap"
	"golang.org/x/time/rate"

	"github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/resp"
)

// bucketTTL drops the bucket of a client idle for a minute, in seconds
const bucketTTL = 60

// RateLimit gives every client ip a token bucket refilled at limit per second
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	buckets, err := ttlmap.NewConcurrent(65536)
	if err != nil {
		panic(err)
	}
	return func(c *gin.Context) {
		source := c.ClientIP()
		var bucket *rate.Limiter
		if v, exists := buckets.Get(source); exists {
			bucket = v.(*rate.Limiter)
		} else {
			bucket = rate.NewLimiter(limit, burst)
		}
		// set on every hit so the expiry follows the client's activity
		if err := buckets.Set(source, bucket, bucketTTL); err != nil {
			resp.Error(c, code.ErrInternalServerError.WithResult("could not insert/update bucket"))
			return
		}
		if !bucket.Allow() {
			resp.Error(c, code.ErrTooManyRequests.WithResult(source))
			return
		}
		c.Next()
	}
}
