package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrDuplicateKey = errors.New("Duplicate key")
var ErrValidation = errors.New("Validation failed")
var ErrDownstreamUnavailable = errors.New("Downstream service unavailable")
