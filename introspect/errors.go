package introspect

import "errors"

var (
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)
