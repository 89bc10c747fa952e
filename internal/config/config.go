// Package config loads the process configuration from a single YAML file.
// Everything here is read once at startup and static for the process lifetime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netkeyhq/netkey-bot/internal/model"
)

// Telegram holds transport identities and the membership gate inputs.
type Telegram struct {
	Token            string          `yaml:"token"`
	OperatorID       int64           `yaml:"operator_id"`
	BypassIDs        []int64         `yaml:"bypass_ids"`
	RequiredChannels []model.Channel `yaml:"required_channels"`
}

// Payment holds the out-of-band payment destinations shown to buyers.
type Payment struct {
	CardNumber    string `yaml:"card_number"`
	WalletAddress string `yaml:"wallet_address"`
}

// Workflow selects the deployment-specific workflow behavior. The catalog
// selector and the approval-notification flag are configuration, not code
// branches, so one binary serves every deployment.
type Workflow struct {
	Catalog               string `yaml:"catalog"`
	NotifyBuyerOnApproval bool   `yaml:"notify_buyer_on_approval"`
	ReceiptsDir           string `yaml:"receipts_dir"`
}

// Config is the full process configuration.
type Config struct {
	Telegram Telegram                `yaml:"telegram"`
	Payment  Payment                 `yaml:"payment"`
	Workflow Workflow                `yaml:"workflow"`
	Catalogs map[string][]model.Plan `yaml:"catalogs"`
}

// Load reads and validates the YAML configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the process assumes.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("validation: empty telegram.token")
	}
	if c.Telegram.OperatorID == 0 {
		return fmt.Errorf("validation: empty telegram.operator_id")
	}
	if c.Workflow.Catalog == "" {
		return fmt.Errorf("validation: empty workflow.catalog")
	}
	if c.Workflow.ReceiptsDir == "" {
		c.Workflow.ReceiptsDir = "receipts"
	}
	for name, plans := range c.Catalogs {
		seen := make(map[string]struct{}, len(plans))
		for i, p := range plans {
			if p.ID == "" {
				return fmt.Errorf("validation: catalog %q plan[%d] empty id", name, i)
			}
			if _, dup := seen[p.ID]; dup {
				return fmt.Errorf("validation: catalog %q duplicate plan id %q", name, p.ID)
			}
			seen[p.ID] = struct{}{}
		}
	}
	return nil
}

// GateBypassIDs returns the identities that skip the membership gate.
// The operator is always included: the source deployments used one id for both roles.
func (c *Config) GateBypassIDs() []int64 {
	ids := append([]int64(nil), c.Telegram.BypassIDs...)
	for _, id := range ids {
		if id == c.Telegram.OperatorID {
			return ids
		}
	}
	return append(ids, c.Telegram.OperatorID)
}
