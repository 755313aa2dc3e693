package domain

import "errors"

// ErrCombinationNotFound is returned when a combination ID cannot be found in the store.
var ErrCombinationNotFound = errors.New("combination not found")

// ErrInvalidCoefficient is returned when a coefficient is NaN or infinite.
var ErrInvalidCoefficient = errors.New("coefficient must be a finite number")

// ErrNoEditSession is returned when an event targets a combination that is not in direct-entry mode.
var ErrNoEditSession = errors.New("combination is not in direct-entry mode")
