package periods

import "errors"

var (
	ErrNoPeriods          = errors.New("contract has no periods")
	ErrBrokenSequence     = errors.New("period sequence is inconsistent")
	ErrEndNotAfterCurrent = errors.New("new end date must be after the current period end")
	ErrExtensionTooShort  = errors.New("extension is shorter than the legal minimum")
	ErrMustBeIndefinite   = errors.New("contract exceeds the fixed-term limit and must become indefinite")
	ErrInvalidTipo        = errors.New("invalid period type for an extension")
	ErrContractDraft      = errors.New("draft contracts have no periods")
	ErrContractTerminated = errors.New("terminated contracts cannot be extended")
)
