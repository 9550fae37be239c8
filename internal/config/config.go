package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// TokenConfig describes one pool mint when no mint account is supplied.
type TokenConfig struct {
	Decimals       uint8
	TransferFeeBps uint16
	TransferFeeMax uint64
	MintFile       string
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	LogLevel  string
	LogFormat string

	PoolFile string

	SlippageBps uint16
	Referral    bool

	Timestamp uint64
	Slot      uint64
	Epoch     uint64

	TokenA TokenConfig
	TokenB TokenConfig

	MetricsEnabled bool
}

// flagKeys maps command line flags onto their config keys.
var flagKeys = map[string]string{
	"log-level":                "log.level",
	"log-format":               "log.format",
	"pool":                     "pool.file",
	"slippage-bps":             "quote.slippage_bps",
	"referral":                 "quote.referral",
	"timestamp":                "clock.timestamp",
	"slot":                     "clock.slot",
	"epoch":                    "clock.epoch",
	"token-a-decimals":         "token_a.decimals",
	"token-a-transfer-fee-bps": "token_a.transfer_fee_bps",
	"token-a-transfer-fee-max": "token_a.transfer_fee_max",
	"token-a-mint-file":        "token_a.mint_file",
	"token-b-decimals":         "token_b.decimals",
	"token-b-transfer-fee-bps": "token_b.transfer_fee_bps",
	"token-b-transfer-fee-max": "token_b.transfer_fee_max",
	"token-b-mint-file":        "token_b.mint_file",
	"metrics":                  "metrics.enabled",
}

// Load merges config file, environment variables, and flags into Config.
// Environment variables use the DAMMV2_ prefix, e.g. DAMMV2_QUOTE_SLIPPAGE_BPS.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DAMMV2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("pool.file", "")
	v.SetDefault("quote.slippage_bps", 50)
	v.SetDefault("quote.referral", false)
	v.SetDefault("clock.timestamp", uint64(0))
	v.SetDefault("clock.slot", uint64(0))
	v.SetDefault("clock.epoch", uint64(0))
	for _, token := range []string{"token_a", "token_b"} {
		v.SetDefault(token+".decimals", 9)
		v.SetDefault(token+".transfer_fee_bps", 0)
		v.SetDefault(token+".transfer_fee_max", uint64(0))
		v.SetDefault(token+".mint_file", "")
	}
	v.SetDefault("metrics.enabled", false)

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("dammv2")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		PoolFile:       v.GetString("pool.file"),
		SlippageBps:    uint16(v.GetUint("quote.slippage_bps")),
		Referral:       v.GetBool("quote.referral"),
		Timestamp:      v.GetUint64("clock.timestamp"),
		Slot:           v.GetUint64("clock.slot"),
		Epoch:          v.GetUint64("clock.epoch"),
		TokenA:         loadToken(v, "token_a"),
		TokenB:         loadToken(v, "token_b"),
		MetricsEnabled: v.GetBool("metrics.enabled"),
	}
	return cfg, nil
}

func loadToken(v *viper.Viper, prefix string) TokenConfig {
	return TokenConfig{
		Decimals:       uint8(v.GetUint(prefix + ".decimals")),
		TransferFeeBps: uint16(v.GetUint(prefix + ".transfer_fee_bps")),
		TransferFeeMax: v.GetUint64(prefix + ".transfer_fee_max"),
		MintFile:       v.GetString(prefix + ".mint_file"),
	}
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want json or console", c.LogFormat))
	}
	if c.SlippageBps > shared.BasisPointMax {
		errs = append(errs, fmt.Errorf("quote.slippage_bps %d exceeds %d", c.SlippageBps, shared.BasisPointMax))
	}
	for _, t := range []struct {
		name  string
		token TokenConfig
	}{{"token_a", c.TokenA}, {"token_b", c.TokenB}} {
		name, token := t.name, t.token
		if token.TransferFeeBps > shared.BasisPointMax {
			errs = append(errs, fmt.Errorf("%s.transfer_fee_bps %d exceeds %d", name, token.TransferFeeBps, shared.BasisPointMax))
		}
		if token.TransferFeeBps > 0 && token.TransferFeeMax == 0 {
			errs = append(errs, fmt.Errorf("%s.transfer_fee_max must be set with transfer_fee_bps", name))
		}
	}
	return errors.Join(errs...)
}
