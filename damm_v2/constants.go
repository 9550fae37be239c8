package dammv2

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var (
	CpAmmProgramID = solanago.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

	MinSqrtPrice = u128.MustFromString(shared.MinSqrtPrice)
	MaxSqrtPrice = u128.MustFromString(shared.MaxSqrtPrice)
)
