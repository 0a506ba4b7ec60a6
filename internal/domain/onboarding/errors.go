package onboarding

import "errors"

var (
	ErrUnknownField         = errors.New("unknown onboarding field")
	ErrDependencyNotMet     = errors.New("prerequisite is not marked")
	ErrDependentsMarked     = errors.New("dependent fields are still marked")
	ErrConfirmationRequired = errors.New("unmarking confirmed data requires confirmation")
	ErrToggleInProgress     = errors.New("another change to this checklist is in progress")
)
