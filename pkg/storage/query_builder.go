package storage

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// SQLBuilder 将参数组装成 gorm.DB 即预处理的sql语句
type SQLBuilder interface {
	Build(ctx context.Context, query *gorm.DB) *gorm.DB
}

// SQLBuilderFunc adapts a function to SQLBuilder
type SQLBuilderFunc func(ctx context.Context, query *gorm.DB) *gorm.DB

func (f SQLBuilderFunc) Build(ctx context.Context, query *gorm.DB) *gorm.DB {
	return f(ctx, query)
}

func NewSQLBuilder(opts ...SQLBuilder) SQLBuilder {
	return sqlBuilders(opts)
}

type sqlBuilders []SQLBuilder

func (s sqlBuilders) Build(ctx context.Context, query *gorm.DB) *gorm.DB {
	for _, builder := range s {
		query = builder.Build(ctx, query)
	}
	return query
}

// Page limits a query by offset and page size, a page size <= 0 means no limit
type Page struct {
	Offset  int
	PerPage int
}

func (p *Page) Build(_ context.Context, query *gorm.DB) *gorm.DB {
	if p.PerPage <= 0 {
		if p.Offset > 0 {
			// OFFSET is only valid after a LIMIT
			return query.Limit(math.MaxInt32).Offset(p.Offset)
		}
		return query
	}
	return query.Limit(p.PerPage).Offset(p.Offset)
}
