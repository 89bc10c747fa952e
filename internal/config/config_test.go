package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sample = `
telegram:
  token: "123:abc"
  operator_id: 99
  bypass_ids: [77]
  required_channels:
    - handle: "@netkey_news"
      title: "کانال نت‌کی"
payment:
  card_number: "6037-0000-0000-0000"
  wallet_address: "TWalletXYZ"
workflow:
  catalog: plans
  notify_buyer_on_approval: true
  receipts_dir: receipts
catalogs:
  plans:
    - id: eco-30
      name: "اقتصادی"
      price: "150"
      description: "30-day economy"
  special_plans:
    - id: promo-30
      name: "جشنواره"
      price: "120"
      description: "30-day promo"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	require.Equal(t, int64(99), cfg.Telegram.OperatorID)
	require.Len(t, cfg.Telegram.RequiredChannels, 1)
	require.Equal(t, "@netkey_news", cfg.Telegram.RequiredChannels[0].Handle)
	require.Equal(t, "plans", cfg.Workflow.Catalog)
	require.True(t, cfg.Workflow.NotifyBuyerOnApproval)

	plans := cfg.Catalogs["plans"]
	require.Len(t, plans, 1)
	require.Equal(t, "eco-30", plans[0].ID)
	require.True(t, plans[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty token", func(c *Config) { c.Telegram.Token = "" }},
		{"empty operator", func(c *Config) { c.Telegram.OperatorID = 0 }},
		{"empty catalog selector", func(c *Config) { c.Workflow.Catalog = "" }},
		{"empty plan id", func(c *Config) { c.Catalogs["plans"][0].ID = "" }},
		{"duplicate plan id", func(c *Config) {
			c.Catalogs["plans"] = append(c.Catalogs["plans"], c.Catalogs["plans"][0])
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, sample))
			require.NoError(t, err)
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DefaultsReceiptsDir(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	cfg.Workflow.ReceiptsDir = ""
	require.NoError(t, cfg.Validate())
	require.Equal(t, "receipts", cfg.Workflow.ReceiptsDir)
}

func TestGateBypassIDs_AlwaysIncludesOperator(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{77, 99}, cfg.GateBypassIDs())

	// Operator already listed: no duplicate.
	cfg.Telegram.BypassIDs = []int64{99}
	require.Equal(t, []int64{99}, cfg.GateBypassIDs())
}
