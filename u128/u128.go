package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errors.New("value overflows Uint128")
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	u.Endianness = binary.LE
	return nil
}

// New builds a little-endian Uint128 from its two limbs.
func New(lo, hi uint64) binary.Uint128 {
	return binary.Uint128{Lo: lo, Hi: hi, Endianness: binary.LE}
}

func FromUint64(v uint64) binary.Uint128 {
	return New(v, 0)
}

// FromString parses a base-10 string.
func FromString(num string) (binary.Uint128, error) {
	var u Uint128
	if _, err := fmt.Sscan(num, &u); err != nil {
		return binary.Uint128{}, fmt.Errorf("parse u128 %q: %w", num, err)
	}
	return binary.Uint128(u), nil
}

func MustFromString(num string) binary.Uint128 {
	u, err := FromString(num)
	if err != nil {
		panic(err)
	}
	return u
}

// ToUint256 widens v for 256-bit arithmetic.
func ToUint256(v binary.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

// FromUint256 narrows z, reporting false when it does not fit in 128 bits.
func FromUint256(z *uint256.Int) (binary.Uint128, bool) {
	if z.BitLen() > 128 {
		return binary.Uint128{}, false
	}
	return New(z[0], z[1]), true
}

func Cmp(a, b binary.Uint128) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	default:
		return 0
	}
}

func IsZero(v binary.Uint128) bool {
	return v.Lo == 0 && v.Hi == 0
}

func String(v binary.Uint128) string {
	return ToUint256(v).Dec()
}
