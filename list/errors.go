package list

import "errors"

// ErrClosed signals that a list has been closed and can no longer allocate.
var ErrClosed = errors.New("list: list has been closed")
