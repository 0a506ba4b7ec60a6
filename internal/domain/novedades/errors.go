package novedades

import "errors"

var (
	ErrTerminationExists    = errors.New("contract already has a termination")
	ErrConfirmationRequired = errors.New("termination requires explicit confirmation")
	ErrContractDraft        = errors.New("draft contracts are edited directly, not amended")
	ErrUsePeriodExtension   = errors.New("fixed-term contracts are extended through /periods/extend")
)
