// Package catalog exposes read-only access to the configured plan catalogs.
package catalog

import (
	"fmt"

	"github.com/netkeyhq/netkey-bot/internal/errs"
	"github.com/netkeyhq/netkey-bot/internal/model"
)

// Catalog is an immutable set of named plan lists loaded at startup.
// Multiple catalogs exist so deployments can switch between standard,
// economy, and promotional offers without code changes.
type Catalog struct {
	sections map[string][]model.Plan
}

// New copies the configured sections into an immutable catalog.
func New(sections map[string][]model.Plan) *Catalog {
	cp := make(map[string][]model.Plan, len(sections))
	for name, plans := range sections {
		cp[name] = append([]model.Plan(nil), plans...)
	}
	return &Catalog{sections: cp}
}

// List returns the plans of the named section in configured order.
// An absent selector degrades to an empty list with ErrCatalogMissing;
// callers log and keep going rather than crash.
func (c *Catalog) List(selector string) ([]model.Plan, error) {
	plans, ok := c.sections[selector]
	if !ok {
		return nil, fmt.Errorf("catalog %q: %w", selector, errs.ErrCatalogMissing)
	}
	return append([]model.Plan(nil), plans...), nil
}

// Find returns the plan with the given id within the named section.
func (c *Catalog) Find(selector, planID string) (model.Plan, error) {
	plans, ok := c.sections[selector]
	if !ok {
		return model.Plan{}, fmt.Errorf("catalog %q: %w", selector, errs.ErrCatalogMissing)
	}
	for _, p := range plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return model.Plan{}, fmt.Errorf("plan %q in catalog %q: %w", planID, selector, errs.ErrUnknownPlan)
}
