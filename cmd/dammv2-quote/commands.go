package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dammv2 "github.com/krazyTry/meteora-quote/damm_v2"
	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/internal/config"
	"github.com/krazyTry/meteora-quote/internal/snapshot"
	"github.com/krazyTry/meteora-quote/u128"
)

// session is what every subcommand needs once flags and config are resolved.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	reg    *prometheus.Registry
	quoter *dammv2.Quoter
	pool   *dammv2.Pool
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger}
	opts := []dammv2.Option{dammv2.WithLogger(logger)}
	if cfg.MetricsEnabled {
		s.reg = prometheus.NewRegistry()
		opts = append(opts, dammv2.WithMetrics(s.reg))
	}
	s.quoter = dammv2.NewQuoter(opts...)

	if cfg.PoolFile == "" {
		return nil, fmt.Errorf("pool snapshot is required")
	}
	if s.pool, err = snapshot.LoadPool(cfg.PoolFile); err != nil {
		return nil, err
	}
	if err := s.pool.ValidateFees(); err != nil {
		logger.Warn("pool fees outside program bounds", zap.Error(err))
	}
	logger.Debug("pool loaded",
		zap.Stringer("pool", s.pool.Address),
		zap.Stringer("token_a", s.pool.TokenAMint),
		zap.Stringer("token_b", s.pool.TokenBMint),
		zap.String("sqrt_price", u128.String(s.pool.SqrtPrice)),
		zap.String("liquidity", u128.String(s.pool.Liquidity)),
	)
	return s, nil
}

func (s *session) close(w io.Writer) {
	if s.reg != nil {
		if err := writeMetrics(w, s.reg); err != nil {
			s.logger.Warn("write metrics", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) tokenInfo(mint solanago.PublicKey, token config.TokenConfig) (*helpers.TokenInfo, error) {
	if token.MintFile != "" {
		info, err := snapshot.LoadMint(token.MintFile)
		if err != nil {
			return nil, err
		}
		if info.Mint.IsZero() {
			info.Mint = mint
		}
		if !info.Mint.Equals(mint) {
			return nil, fmt.Errorf("mint snapshot %s does not match pool mint %s", info.Mint, mint)
		}
		if info.HasTransferHook {
			s.logger.Warn("mint has a transfer hook; the hook program may change the received amount", zap.Stringer("mint", mint))
		}
		return info, nil
	}
	info := &helpers.TokenInfo{Mint: mint, Decimals: token.Decimals}
	if token.TransferFeeBps > 0 {
		info.TransferFeeConfig = helpers.FlatTransferFee(token.TransferFeeBps, token.TransferFeeMax)
	}
	return info, nil
}

type quoteOutput struct {
	Pool              string          `json:"pool"`
	Direction         string          `json:"direction"`
	SwapInAmount      uint64          `json:"swapInAmount"`
	ConsumedInAmount  uint64          `json:"consumedInAmount"`
	SwapOutAmount     uint64          `json:"swapOutAmount"`
	MinSwapOutAmount  uint64          `json:"minSwapOutAmount"`
	TotalFee          uint64          `json:"totalFee"`
	LpFee             uint64          `json:"lpFee"`
	ProtocolFee       uint64          `json:"protocolFee"`
	PartnerFee        uint64          `json:"partnerFee"`
	ReferralFee       uint64          `json:"referralFee"`
	InputTransferFee  uint64          `json:"inputTransferFee"`
	OutputTransferFee uint64          `json:"outputTransferFee"`
	NextSqrtPrice     string          `json:"nextSqrtPrice"`
	PriceImpact       decimal.Decimal `json:"priceImpact"`
	SpotPrice         decimal.Decimal `json:"spotPrice"`
	NextPrice         decimal.Decimal `json:"nextPrice"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd.ErrOrStderr())

	pool, cfg := s.pool, s.cfg
	amount, _ := cmd.Flags().GetUint64("amount")
	inputMint := pool.TokenAMint
	if raw, _ := cmd.Flags().GetString("input-mint"); raw != "" {
		if inputMint, err = solanago.PublicKeyFromBase58(raw); err != nil {
			return fmt.Errorf("input mint: %w", err)
		}
	} else if bToA, _ := cmd.Flags().GetBool("b-to-a"); bToA {
		inputMint = pool.TokenBMint
	}

	tokenA, err := s.tokenInfo(pool.TokenAMint, cfg.TokenA)
	if err != nil {
		return err
	}
	tokenB, err := s.tokenInfo(pool.TokenBMint, cfg.TokenB)
	if err != nil {
		return err
	}
	inputToken, outputToken, direction := tokenA, tokenB, dammv2.TradeDirectionAtoB
	if inputMint.Equals(pool.TokenBMint) {
		inputToken, outputToken, direction = tokenB, tokenA, dammv2.TradeDirectionBtoA
	}

	timestamp := cfg.Timestamp
	if timestamp == 0 {
		timestamp = uint64(time.Now().Unix())
	}

	quote, err := s.quoter.GetQuote(dammv2.GetQuoteParams{
		InAmount:         amount,
		InputTokenMint:   inputMint,
		Slippage:         cfg.SlippageBps,
		Pool:             pool,
		CurrentTimestamp: timestamp,
		CurrentSlot:      cfg.Slot,
		CurrentEpoch:     cfg.Epoch,
		InputTokenInfo:   inputToken,
		OutputTokenInfo:  outputToken,
		TokenADecimal:    tokenA.Decimals,
		TokenBDecimal:    tokenB.Decimals,
		HasReferral:      cfg.Referral,
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), quoteOutput{
		Pool:              pool.Address.String(),
		Direction:         direction.String(),
		SwapInAmount:      quote.SwapInAmount,
		ConsumedInAmount:  quote.ConsumedInAmount,
		SwapOutAmount:     quote.SwapOutAmount,
		MinSwapOutAmount:  quote.MinSwapOutAmount,
		TotalFee:          quote.TotalFee,
		LpFee:             quote.SwapResult.LpFee,
		ProtocolFee:       quote.SwapResult.ProtocolFee,
		PartnerFee:        quote.SwapResult.PartnerFee,
		ReferralFee:       quote.SwapResult.ReferralFee,
		InputTransferFee:  quote.InputTransferFee,
		OutputTransferFee: quote.OutputTransferFee,
		NextSqrtPrice:     u128.String(quote.SwapResult.NextSqrtPrice),
		PriceImpact:       quote.PriceImpact,
		SpotPrice:         quote.SpotPrice,
		NextPrice:         quote.NextPrice,
	})
}

type auditOutput struct {
	Pool          string `json:"pool"`
	Direction     string `json:"direction"`
	AmountIn      uint64 `json:"amountIn"`
	OutputAmount  uint64 `json:"outputAmount"`
	NextSqrtPrice string `json:"nextSqrtPrice"`
	Matches       bool   `json:"matches"`
	Mismatch      string `json:"mismatch,omitempty"`
}

// programDataPrefix is how anchor events appear in transaction logs.
const programDataPrefix = "Program data: "

func decodeEventPayload(payload string) (*helpers.EvtSwap, error) {
	payload = strings.TrimPrefix(strings.TrimSpace(payload), programDataPrefix)
	if payload == "" {
		return nil, fmt.Errorf("event payload is required")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}
	return helpers.DecodeEvtSwap(raw)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd.ErrOrStderr())

	payload, _ := cmd.Flags().GetString("event")
	evt, err := decodeEventPayload(payload)
	if err != nil {
		return err
	}
	slot, _ := cmd.Flags().GetUint64("slot")

	result, err := s.quoter.ReplaySwapEvent(s.pool, nil, evt, slot)
	out := auditOutput{
		Pool:          evt.Pool.String(),
		Direction:     dammv2.TradeDirection(evt.TradeDirection).String(),
		AmountIn:      evt.TransferFeeExcludedAmountIn,
		OutputAmount:  result.OutputAmount,
		NextSqrtPrice: u128.String(result.NextSqrtPrice),
		Matches:       err == nil,
	}
	switch {
	case err == nil:
	case errors.Is(err, dammv2.ErrSwapEventMismatch):
		out.Mismatch = err.Error()
	default:
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !out.Matches {
		return fmt.Errorf("swap event does not match the quote")
	}
	return nil
}

func runInitAmounts(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd.ErrOrStderr())

	if err := s.pool.Validate(); err != nil {
		return err
	}
	pool := s.pool
	amountA, amountB, err := math.GetInitialAmounts(pool.SqrtMinPrice, pool.SqrtMaxPrice, pool.SqrtPrice, pool.Liquidity)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]uint64{
		"tokenAAmount": amountA,
		"tokenBAmount": amountB,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
