package db

import "errors"

// ErrNotFound is returned by DB.GetContext in place of sql.ErrNoRows.
var ErrNotFound = errors.New("not found")

func IgnoreErrNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
