package arena

import "errors"

// ErrExhausted signals that an arena cannot supply another node.
var ErrExhausted = errors.New("arena: capacity exhausted")
