package spec

import "errors"

// ErrInvalid is wrapped by errors returned when an AST value is
// well-formed syntactically but violates an RFC 9535 static constraint:
// a slice step of 0, an index outside [-(2^53)+1, (2^53)-1], or a
// function call whose arguments don't type-check against its declared
// parameter types.
var ErrInvalid = errors.New("jsonpath: invalid")
