package litedb

import (
	"errors"

	"github.com/mwantia/litedb/data"
)

// ignoreNotExist turns the benign absence of a document into a nil error.
func ignoreNotExist(err error) error {
	if errors.Is(err, data.ErrNotExist) {
		return nil
	}
	return err
}
