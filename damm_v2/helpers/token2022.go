package helpers

import (
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

const maxFeeBasisPoints = 10_000

// Token-2022 mint layout: the base mint is padded to the token account size,
// followed by one account type byte and the TLV extension area.
const (
	MintBaseSize           = 82
	TokenAccountSize       = 165
	accountTypeMint        = 1
	ExtTransferFeeConfig   = 1
	ExtTransferHook        = 14
	transferFeeConfigSize  = 108
	tlvHeaderSize          = 4
	transferFeeEpochLength = 18
)

var ErrMalformedMint = errors.New("malformed token-2022 mint")

type TransferFeeIncludedAmount struct {
	Amount      uint64
	TransferFee uint64
}

type TransferFeeExcludedAmount struct {
	Amount      uint64
	TransferFee uint64
}

// TransferFee is one epoch entry of the transfer fee extension.
type TransferFee struct {
	Epoch                  uint64
	MaximumFee             uint64
	TransferFeeBasisPoints uint16
}

// Fee returns ceil(amount * bps / 10000) capped at MaximumFee.
func (f TransferFee) Fee(amount uint64) uint64 {
	if f.TransferFeeBasisPoints == 0 || amount == 0 {
		return 0
	}
	fee := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(uint64(f.TransferFeeBasisPoints)))
	fee.AddUint64(fee, maxFeeBasisPoints-1)
	fee.Div(fee, uint256.NewInt(maxFeeBasisPoints))
	if !fee.IsUint64() || fee.Uint64() > f.MaximumFee {
		return f.MaximumFee
	}
	return fee.Uint64()
}

// PreFeeAmount returns the smallest amount whose transfer delivers postFeeAmount.
func (f TransferFee) PreFeeAmount(postFeeAmount uint64) (uint64, error) {
	switch {
	case f.TransferFeeBasisPoints == 0:
		return postFeeAmount, nil
	case postFeeAmount == 0:
		return 0, nil
	case f.TransferFeeBasisPoints == maxFeeBasisPoints:
		return addU64(postFeeAmount, f.MaximumFee)
	}
	numerator := new(uint256.Int).Mul(uint256.NewInt(postFeeAmount), uint256.NewInt(maxFeeBasisPoints))
	denominator := uint256.NewInt(maxFeeBasisPoints - uint64(f.TransferFeeBasisPoints))
	raw := new(uint256.Int).Add(numerator, denominator)
	raw.SubUint64(raw, 1)
	raw.Div(raw, denominator)

	fee := new(uint256.Int).Sub(raw, uint256.NewInt(postFeeAmount))
	if fee.CmpUint64(f.MaximumFee) >= 0 {
		return addU64(postFeeAmount, f.MaximumFee)
	}
	if !raw.IsUint64() {
		return 0, fmt.Errorf("pre fee amount: %w", shared.ErrMathOverflow)
	}
	return raw.Uint64(), nil
}

func addU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("pre fee amount: %w", shared.ErrMathOverflow)
	}
	return sum, nil
}

type TransferFeeConfig struct {
	TransferFeeConfigAuthority *solanago.PublicKey
	WithdrawWithheldAuthority  *solanago.PublicKey
	WithheldAmount             uint64
	OlderTransferFee           TransferFee
	NewerTransferFee           TransferFee
}

// FeeForEpoch picks the newer entry once its epoch has started.
func (c *TransferFeeConfig) FeeForEpoch(currentEpoch uint64) TransferFee {
	if currentEpoch >= c.NewerTransferFee.Epoch {
		return c.NewerTransferFee
	}
	return c.OlderTransferFee
}

func (c *TransferFeeConfig) UnmarshalWithDecoder(decoder *binary.Decoder) (err error) {
	if c.TransferFeeConfigAuthority, err = readOptionalNonZeroPubkey(decoder); err != nil {
		return err
	}
	if c.WithdrawWithheldAuthority, err = readOptionalNonZeroPubkey(decoder); err != nil {
		return err
	}
	if c.WithheldAmount, err = decoder.ReadUint64(binary.LE); err != nil {
		return err
	}
	if c.OlderTransferFee, err = readTransferFee(decoder); err != nil {
		return err
	}
	c.NewerTransferFee, err = readTransferFee(decoder)
	return err
}

// readOptionalNonZeroPubkey treats the all-zero key as absent.
func readOptionalNonZeroPubkey(decoder *binary.Decoder) (*solanago.PublicKey, error) {
	key, err := readPubkey(decoder)
	if err != nil {
		return nil, err
	}
	if key.IsZero() {
		return nil, nil
	}
	return &key, nil
}

func readTransferFee(decoder *binary.Decoder) (fee TransferFee, err error) {
	if fee.Epoch, err = decoder.ReadUint64(binary.LE); err != nil {
		return fee, err
	}
	if fee.MaximumFee, err = decoder.ReadUint64(binary.LE); err != nil {
		return fee, err
	}
	fee.TransferFeeBasisPoints, err = decoder.ReadUint16(binary.LE)
	return fee, err
}

// Extensions holds the mint extensions relevant to swaps.
type Extensions struct {
	TransferFeeConfig *TransferFeeConfig
	HasTransferHook   bool
}

// ParseMintExtensions walks the TLV area of a token-2022 mint account. A plain
// SPL mint yields empty extensions.
func ParseMintExtensions(data []byte) (*Extensions, error) {
	ext := &Extensions{}
	if len(data) < MintBaseSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedMint, len(data))
	}
	if len(data) <= TokenAccountSize {
		return ext, nil
	}
	if data[TokenAccountSize] != accountTypeMint {
		return nil, fmt.Errorf("%w: account type %d", ErrMalformedMint, data[TokenAccountSize])
	}
	decoder := binary.NewBorshDecoder(data[TokenAccountSize+1:])
	for decoder.Remaining() >= tlvHeaderSize {
		extType, err := decoder.ReadUint16(binary.LE)
		if err != nil {
			return nil, err
		}
		length, err := decoder.ReadUint16(binary.LE)
		if err != nil {
			return nil, err
		}
		// uninitialized tail
		if extType == 0 && length == 0 {
			break
		}
		value, err := decoder.ReadNBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: extension %d: %v", ErrMalformedMint, extType, err)
		}
		switch extType {
		case ExtTransferFeeConfig:
			if length != transferFeeConfigSize {
				return nil, fmt.Errorf("%w: transfer fee config length %d", ErrMalformedMint, length)
			}
			cfg := new(TransferFeeConfig)
			if err := cfg.UnmarshalWithDecoder(binary.NewBorshDecoder(value)); err != nil {
				return nil, err
			}
			ext.TransferFeeConfig = cfg
		case ExtTransferHook:
			ext.HasTransferHook = true
		}
	}
	return ext, nil
}

// CalculateTransferFeeExcludedAmount returns what arrives after transferring
// transferFeeIncludedAmount of the token at the given epoch.
func CalculateTransferFeeExcludedAmount(transferFeeIncludedAmount uint64, tokenInfo *TokenInfo, currentEpoch uint64) TransferFeeExcludedAmount {
	if tokenInfo == nil || tokenInfo.TransferFeeConfig == nil {
		return TransferFeeExcludedAmount{Amount: transferFeeIncludedAmount}
	}
	fee := tokenInfo.TransferFeeConfig.FeeForEpoch(currentEpoch).Fee(transferFeeIncludedAmount)
	return TransferFeeExcludedAmount{Amount: transferFeeIncludedAmount - fee, TransferFee: fee}
}

// CalculateTransferFeeIncludedAmount returns what must be sent so that
// transferFeeExcludedAmount arrives.
func CalculateTransferFeeIncludedAmount(transferFeeExcludedAmount uint64, tokenInfo *TokenInfo, currentEpoch uint64) (TransferFeeIncludedAmount, error) {
	if transferFeeExcludedAmount == 0 {
		return TransferFeeIncludedAmount{}, nil
	}
	if tokenInfo == nil || tokenInfo.TransferFeeConfig == nil {
		return TransferFeeIncludedAmount{Amount: transferFeeExcludedAmount}, nil
	}
	epochFee := tokenInfo.TransferFeeConfig.FeeForEpoch(currentEpoch)
	preFee, err := epochFee.PreFeeAmount(transferFeeExcludedAmount)
	if err != nil {
		return TransferFeeIncludedAmount{}, err
	}
	return TransferFeeIncludedAmount{Amount: preFee, TransferFee: preFee - transferFeeExcludedAmount}, nil
}
