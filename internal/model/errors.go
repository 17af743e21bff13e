package model

import "fmt"

// InsufficientFundsError reports a spin batch whose cost exceeds the
// account balance. It carries the exact shortfall so callers can surface it.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient tokens: need %d, have %d (short %d)",
		e.Required, e.Available, e.Shortfall())
}

// Shortfall returns how many tokens are missing.
func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Required - e.Available
}
