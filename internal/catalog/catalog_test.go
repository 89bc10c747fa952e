package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/netkeyhq/netkey-bot/internal/errs"
	"github.com/netkeyhq/netkey-bot/internal/model"
)

func testCatalog() *Catalog {
	return New(map[string][]model.Plan{
		"plans": {
			{ID: "std-30", Name: "یک ماهه", Price: decimal.NewFromInt(200), Description: "30-day standard"},
			{ID: "eco-30", Name: "اقتصادی", Price: decimal.NewFromInt(150), Description: "30-day economy"},
		},
		"special_plans": {
			{ID: "promo-30", Name: "جشنواره", Price: decimal.NewFromInt(120), Description: "30-day promo"},
		},
	})
}

func TestList_PreservesOrder(t *testing.T) {
	t.Parallel()
	c := testCatalog()
	plans, err := c.List("plans")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != "std-30" || plans[1].ID != "eco-30" {
		t.Fatalf("order lost: %v", plans)
	}
}

func TestList_MissingSelectorDegrades(t *testing.T) {
	t.Parallel()
	c := testCatalog()
	plans, err := c.List("festival")
	if !errors.Is(err, errs.ErrCatalogMissing) {
		t.Fatalf("want ErrCatalogMissing, got %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("missing selector must yield empty list, got %v", plans)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	c := testCatalog()

	p, err := c.Find("plans", "eco-30")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Description != "30-day economy" || !p.Price.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("wrong plan: %+v", p)
	}

	if _, err := c.Find("plans", "promo-30"); !errors.Is(err, errs.ErrUnknownPlan) {
		t.Fatalf("plan from other catalog: want ErrUnknownPlan, got %v", err)
	}
	if _, err := c.Find("nope", "eco-30"); !errors.Is(err, errs.ErrCatalogMissing) {
		t.Fatalf("want ErrCatalogMissing, got %v", err)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	t.Parallel()
	c := testCatalog()
	plans, _ := c.List("plans")
	plans[0].ID = "mutated"

	again, _ := c.List("plans")
	if again[0].ID != "std-30" {
		t.Fatalf("catalog leaked internal slice")
	}
}
