package helpers

import (
	solanago "github.com/gagliardetto/solana-go"
)

// TokenInfo describes a pool mint as far as quoting needs it.
type TokenInfo struct {
	Mint              solanago.PublicKey
	Decimals          uint8
	TransferFeeConfig *TransferFeeConfig
	HasTransferHook   bool
}

// TokenInfoFromMint decodes decimals and extensions from raw mint account data.
func TokenInfoFromMint(mint solanago.PublicKey, data []byte) (*TokenInfo, error) {
	ext, err := ParseMintExtensions(data)
	if err != nil {
		return nil, err
	}
	return &TokenInfo{
		Mint:              mint,
		Decimals:          data[mintDecimalsOffset],
		TransferFeeConfig: ext.TransferFeeConfig,
		HasTransferHook:   ext.HasTransferHook,
	}, nil
}

// mint_authority COption<Pubkey> (36) + supply u64 (8)
const mintDecimalsOffset = 44

// FlatTransferFee builds a config that charges the same fee in every epoch.
func FlatTransferFee(basisPoints uint16, maximumFee uint64) *TransferFeeConfig {
	fee := TransferFee{MaximumFee: maximumFee, TransferFeeBasisPoints: basisPoints}
	return &TransferFeeConfig{OlderTransferFee: fee, NewerTransferFee: fee}
}
