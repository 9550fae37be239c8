package dammv2

import (
	"fmt"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// Validate checks the parts of the snapshot that curve math assumes.
func (p Pool) Validate() error {
	if _, err := shared.ParseActivationType(p.ActivationType); err != nil {
		return err
	}
	if _, err := shared.ParseCollectFeeMode(p.CollectFeeMode); err != nil {
		return err
	}
	if u128.IsZero(p.SqrtPrice) {
		return fmt.Errorf("sqrt price is zero: %w", shared.ErrInvalidInput)
	}
	if u128.IsZero(p.Liquidity) {
		return fmt.Errorf("liquidity is zero: %w", shared.ErrInvalidInput)
	}
	if u128.Cmp(p.SqrtMinPrice, p.SqrtMaxPrice) >= 0 {
		return fmt.Errorf("sqrt price bounds [%s, %s]: %w",
			u128.String(p.SqrtMinPrice), u128.String(p.SqrtMaxPrice), shared.ErrInvalidPriceRange)
	}
	if u128.Cmp(p.SqrtPrice, p.SqrtMinPrice) < 0 || u128.Cmp(p.SqrtPrice, p.SqrtMaxPrice) > 0 {
		return fmt.Errorf("sqrt price %s outside [%s, %s]: %w", u128.String(p.SqrtPrice),
			u128.String(p.SqrtMinPrice), u128.String(p.SqrtMaxPrice), shared.ErrInvalidPriceRange)
	}
	return nil
}

// ValidateFees checks the fee parameters against the bounds the program
// enforces at pool creation. Quoting does not require it.
func (p Pool) ValidateFees() error {
	if err := p.PoolFees.Validate(); err != nil {
		return fmt.Errorf("pool %s fees: %w", p.Address, err)
	}
	return nil
}
