package services

import "errors"

// Domain errors. Handlers map these onto the HTTP taxonomy: precondition
// violations to 422, validation failures to 400, missing configuration to
// 503 and lookups to 404.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidDrawStatus  = errors.New("draw is not in the required status for this transition")
	ErrMissingResult      = errors.New("draw has no recorded winning combination")
	ErrAlreadySettled     = errors.New("draw is already settled")
	ErrBetAlreadyResolved = errors.New("bet is already resolved")
	ErrNoActiveConfig     = errors.New("no active game configuration")
	ErrNumberOutOfRange   = errors.New("number is outside the configured range")
	ErrDuplicateDraw      = errors.New("a draw already exists for this date and type")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPayout      = errors.New("payout is not in the required status for this transition")
)
