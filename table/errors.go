package table

import "github.com/pkg/errors"

// ErrDuplicateKey is returned by Insert when the tree already holds a row
// with the given id. It is an input error: the REPL reports it and
// continues, the row is not written, and the cursor that produced the
// lookup is not advanced.
var ErrDuplicateKey = errors.New("duplicate key")
