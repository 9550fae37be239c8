package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Uint16("slippage-bps", 50, "")
	flags.Bool("referral", false, "")
	flags.Uint64("timestamp", 0, "")
	flags.Uint16("token-a-transfer-fee-bps", 0, "")
	flags.Uint64("token-a-transfer-fee-max", 0, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, uint16(50), cfg.SlippageBps)
	assert.Equal(t, uint8(9), cfg.TokenA.Decimals)
	assert.False(t, cfg.MetricsEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dammv2.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
quote:
  slippage_bps: 100
  referral: true
clock:
  timestamp: 1700000000
token_b:
  decimals: 6
`), 0o600))

	cfg, err := Load(path, newFlags(t, "--slippage-bps=25"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(25), cfg.SlippageBps)
	assert.True(t, cfg.Referral)
	assert.Equal(t, uint64(1_700_000_000), cfg.Timestamp)
	assert.Equal(t, uint8(6), cfg.TokenB.Decimals)
}

func TestLoadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAMMV2_QUOTE_SLIPPAGE_BPS", "300")
	t.Setenv("DAMMV2_TOKEN_A_TRANSFER_FEE_BPS", "100")
	t.Setenv("DAMMV2_TOKEN_A_TRANSFER_FEE_MAX", "5000")
	t.Setenv("DAMMV2_METRICS_ENABLED", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), cfg.SlippageBps)
	assert.Equal(t, uint16(100), cfg.TokenA.TransferFeeBps)
	assert.Equal(t, uint64(5_000), cfg.TokenA.TransferFeeMax)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		LogLevel:    "loud",
		LogFormat:   "xml",
		SlippageBps: 10_001,
		TokenA:      TokenConfig{TransferFeeBps: 100},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"log.level", "log.format", "quote.slippage_bps", "token_a.transfer_fee_max"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "token_b")
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent of testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
