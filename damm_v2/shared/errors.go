package shared

import (
	"errors"
	"fmt"
)

// ProgramError is an error carrying the numeric code the cp-amm program
// reports for the same condition.
type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

var (
	ErrMathOverflow          = &ProgramError{6000, "MathOverflow", "math operation overflow"}
	ErrInvalidFee            = &ProgramError{6001, "InvalidFee", "invalid fee setup"}
	ErrFeeCalculationFailure = &ProgramError{6003, "FeeCalculationFailure", "fee calculation failure"}
	ErrConversionError       = &ProgramError{6007, "ConversionError", "conversion error"}
	ErrPoolDisabled          = &ProgramError{6015, "PoolDisabled", "pool disabled"}
	ErrAmountIsZero          = &ProgramError{6041, "AmountIsZero", "amount is zero"}
	ErrTypeCastFailed        = &ProgramError{6042, "TypeCastFailed", "type cast error"}
	ErrInvalidActivationType = &ProgramError{6048, "InvalidActivationType", "invalid activation type"}
	ErrInvalidPriceRange     = &ProgramError{6054, "InvalidPriceRange", "invalid price range"}
	ErrPriceRangeViolation   = &ProgramError{6055, "PriceRangeViolation", "trade is over price range"}
	ErrInvalidParameters     = &ProgramError{6056, "InvalidParameters", "invalid parameters"}
	ErrInvalidCollectFeeMode = &ProgramError{6057, "InvalidCollectFeeMode", "invalid collect fee mode"}
	ErrInvalidInput          = &ProgramError{6058, "InvalidInput", "invalid input"}
)

// CodeOf returns the program error code wrapped in err, if any.
func CodeOf(err error) (uint32, bool) {
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
