package source

import "errors"

// ErrSourceUnavailable is returned when the input cannot be read or parsed as
// a sequence of test cases. No records are returned alongside it.
var ErrSourceUnavailable = errors.New("test case source unavailable")
