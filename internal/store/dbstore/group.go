package dbstore

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crochee/actionstore/internal/model"
)

// groupID resolves slug, creating the group when create is set. An empty slug is group 0.
// Concurrent first use of a slug is settled by the unique index: the losing
// insert is ignored and both callers read back the winner's id.
func (s *Store) groupID(ctx context.Context, slug string, create bool) (int64, error) {
	if slug == "" {
		return 0, nil
	}
	if id, ok := s.groups.Get(slug); ok {
		return id.(int64), nil
	}
	id, err := s.lookupGroup(ctx, slug)
	if err != nil {
		return 0, err
	}
	if id == 0 && create {
		err = s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.GroupRow{Slug: slug}).Error
		if err != nil {
			return 0, s.fail(ctx, "create_group", err, zap.String("group", slug))
		}
		if id, err = s.lookupGroup(ctx, slug); err != nil {
			return 0, err
		}
	}
	if id != 0 {
		s.groups.SetDefault(slug, id)
	}
	return id, nil
}

func (s *Store) lookupGroup(ctx context.Context, slug string) (int64, error) {
	var row model.GroupRow
	err := s.conn(ctx).Where("slug = ?", slug).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, s.fail(ctx, "find_group", err, zap.String("group", slug))
	}
	return row.GroupID, nil
}
