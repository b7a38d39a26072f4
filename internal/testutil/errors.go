package testutil

import "errors"

// ErrSimulated is returned by test doubles that emulate a failing store.
var ErrSimulated = errors.New("simulated store failure")
