package contracts

import "errors"

var (
	ErrNotFound         = errors.New("contract not found")
	ErrContractApproved = errors.New("contract is approved and can no longer be modified")
	ErrNotFixedTerm     = errors.New("contract is not fixed-term")
)
