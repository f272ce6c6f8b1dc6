package store

import (
	"github.com/pkg/errors"

	"github.com/crochee/actionstore/internal/code"
)

// NotFound is the error for an unknown action id
func NotFound(id int64) error {
	return errors.WithStack(code.ErrActionNotFound.WithResult(id))
}

// StorageFailure wraps a backend error
func StorageFailure(err error) error {
	return errors.WithStack(code.ErrStorage.WithResult(err.Error()))
}
