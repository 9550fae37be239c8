package pool_fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

func flatFees(cliffFeeNumerator uint64) PoolFees {
	return PoolFees{
		BaseFee:            BaseFee{CliffFeeNumerator: cliffFeeNumerator},
		ProtocolFeePercent: 20,
		PartnerFeePercent:  10,
		ReferralFeePercent: 20,
	}
}

func TestFeeOnAmountSplit(t *testing.T) {
	tests := []struct {
		name       string
		fees       PoolFees
		amount     uint64
		isReferral bool
		want       FeeOnAmountResult
	}{
		{
			name:       "referral and partner",
			fees:       flatFees(2_500_000),
			amount:     1_000_000,
			isReferral: true,
			want:       FeeOnAmountResult{Amount: 997_500, LpFee: 2_000, ProtocolFee: 360, PartnerFee: 40, ReferralFee: 100},
		},
		{
			name:   "no partner no referral",
			fees:   PoolFees{BaseFee: BaseFee{CliffFeeNumerator: 2_500_000}, ProtocolFeePercent: 20, ReferralFeePercent: 20},
			amount: 1_000_000,
			want:   FeeOnAmountResult{Amount: 997_500, LpFee: 2_000, ProtocolFee: 500},
		},
		{
			name:       "fee rounds up on dust",
			fees:       PoolFees{BaseFee: BaseFee{CliffFeeNumerator: 1_000_000}, ProtocolFeePercent: 20, PartnerFeePercent: 50, ReferralFeePercent: 20},
			amount:     999,
			isReferral: true,
			want:       FeeOnAmountResult{Amount: 998, LpFee: 1},
		},
		{
			name:   "zero fee",
			fees:   flatFees(0),
			amount: 12_345,
			want:   FeeOnAmountResult{Amount: 12_345},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fees.FeeOnAmount(tt.amount, true, tt.isReferral, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.amount, got.Amount+got.TotalFee())
		})
	}
}

func TestFeeOnAmountWithoutPartner(t *testing.T) {
	fees := flatFees(2_500_000)
	fees.PartnerFeePercent = 50

	got, err := fees.FeeOnAmount(1_000_000, false, false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, FeeOnAmountResult{Amount: 997_500, LpFee: 2_000, ProtocolFee: 500}, got)

	got, err = fees.FeeOnAmount(1_000_000, true, false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, FeeOnAmountResult{Amount: 997_500, LpFee: 2_000, ProtocolFee: 250, PartnerFee: 250}, got)

	split, err := fees.SplitFees(2_500, false, true)
	require.NoError(t, err)
	assert.Equal(t, FeeOnAmountResult{LpFee: 2_000, ProtocolFee: 400, ReferralFee: 100}, split)
}

func TestFeeOnAmountConservation(t *testing.T) {
	for _, numerator := range []uint64{0, 1, 100_000, 2_500_000, 10_000_000, 123_456_789, shared.MaxFeeNumerator} {
		fees := flatFees(numerator)
		for _, amount := range []uint64{1, 3, 1_000, 999_999_999, 1 << 62, ^uint64(0)} {
			for _, isReferral := range []bool{true, false} {
				got, err := fees.FeeOnAmount(amount, true, isReferral, 0, 0)
				require.NoError(t, err)
				assert.Equal(t, amount, got.Amount+got.TotalFee(), "numerator %d amount %d", numerator, amount)
			}
		}
	}
}

func TestFeeOnAmountInvalidPercent(t *testing.T) {
	fees := flatFees(2_500_000)
	fees.ProtocolFeePercent = 101
	_, err := fees.FeeOnAmount(1_000_000, true, false, 0, 0)
	require.ErrorIs(t, err, shared.ErrFeeCalculationFailure)
}

func TestTotalTradingFeeNumeratorClamp(t *testing.T) {
	fees := flatFees(100_000_000)
	fees.DynamicFee = DynamicFee{
		Initialized:           1,
		BinStep:               100,
		VariableFeeControl:    2_000_000,
		VolatilityAccumulator: u128.FromUint64(100_000),
	}
	got, err := fees.TotalTradingFeeNumerator(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(shared.MaxFeeNumerator), got)

	fees.DynamicFee.Initialized = 0
	got, err = fees.TotalTradingFeeNumerator(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), got)
}

func TestBaseFeeScheduler(t *testing.T) {
	linear := BaseFee{
		CliffFeeNumerator: 100_000_000,
		FeeSchedulerMode:  shared.FeeSchedulerModeLinear,
		NumberOfPeriod:    10,
		PeriodFrequency:   5,
		ReductionFactor:   5_000,
	}
	exponential := linear
	exponential.FeeSchedulerMode = shared.FeeSchedulerModeExponential

	tests := []struct {
		name          string
		fee           BaseFee
		current       uint64
		activation    uint64
		wantNumerator uint64
	}{
		{"linear at activation", linear, 90, 90, 100_000_000},
		{"linear two periods", linear, 100, 90, 99_990_000},
		{"linear capped", linear, 10_000, 90, 99_950_000},
		{"linear before activation uses last period", linear, 10, 90, 99_950_000},
		{"exponential two periods", exponential, 100, 90, 25_000_000},
		{"exponential capped", exponential, 200, 90, 97_656},
		{"flat", BaseFee{CliffFeeNumerator: 2_500_000}, 1 << 40, 0, 2_500_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fee.CurrentBaseFeeNumerator(tt.current, tt.activation)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumerator, got)
		})
	}
}

func TestBaseFeeSchedulerUnderflow(t *testing.T) {
	fee := BaseFee{
		CliffFeeNumerator: 1_000,
		NumberOfPeriod:    10,
		PeriodFrequency:   1,
		ReductionFactor:   500,
	}
	_, err := fee.CurrentBaseFeeNumerator(100, 0)
	require.ErrorIs(t, err, shared.ErrMathOverflow)

	fee.FeeSchedulerMode = 7
	_, err = fee.CurrentBaseFeeNumerator(100, 0)
	require.ErrorIs(t, err, shared.ErrInvalidFee)
}

func TestValidate(t *testing.T) {
	require.NoError(t, flatFees(2_500_000).Validate())

	fees := flatFees(2_500_000)
	fees.PartnerFeePercent = 120
	require.ErrorIs(t, fees.Validate(), shared.ErrInvalidFee)

	fees = flatFees(shared.MaxFeeNumerator + 1)
	require.ErrorIs(t, fees.Validate(), shared.ErrInvalidFee)

	fees = flatFees(2_500_000)
	fees.BaseFee.PeriodFrequency = 10
	require.ErrorIs(t, fees.Validate(), shared.ErrInvalidFee)

	fees = flatFees(2_500_000)
	fees.DynamicFee = DynamicFee{Initialized: 1, BinStep: 1, BinStepU128: u128.FromUint64(1), FilterPeriod: 120, DecayPeriod: 10}
	require.ErrorIs(t, fees.Validate(), shared.ErrInvalidFee)
}
