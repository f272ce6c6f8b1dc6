package code

import "github.com/crochee/actionstore/pkg/code"

var (
	// 201 action store

	ErrActionNotFound     = code.Froze("4042010001", "action not found")
	ErrStatusInconsistent = code.Froze("5002010002", "action has an invalid status")
	ErrStorage            = code.Froze("5002010003", "action storage failure")
	ErrInvalidQueryMode   = code.Froze("4002010004", "query mode must be select or count")
	ErrClaimFailed        = code.Froze("5002010005", "unable to claim actions")
	ErrMigrate            = code.Froze("5002010006", "action migration failed")
	ErrBoundary           = code.Froze("5002010007", "demarkation boundary is not initialized")
)

func Loading() error {
	return code.AddCode(map[code.ErrorCode]struct{}{
		ErrActionNotFound:     {},
		ErrStatusInconsistent: {},
		ErrStorage:            {},
		ErrInvalidQueryMode:   {},
		ErrClaimFailed:        {},
		ErrMigrate:            {},
		ErrBoundary:           {},
	})
}
