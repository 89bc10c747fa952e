// Command netkey-bot runs the chat purchase-approval bot.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/netkeyhq/netkey-bot/internal/catalog"
	"github.com/netkeyhq/netkey-bot/internal/compose"
	"github.com/netkeyhq/netkey-bot/internal/config"
	"github.com/netkeyhq/netkey-bot/internal/gate"
	"github.com/netkeyhq/netkey-bot/internal/qr"
	"github.com/netkeyhq/netkey-bot/internal/receipts"
	"github.com/netkeyhq/netkey-bot/internal/selection"
	"github.com/netkeyhq/netkey-bot/internal/transport/telegram"
	"github.com/netkeyhq/netkey-bot/internal/workflow"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, wires the workflow, and long-polls for updates
// until interrupted.
func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("config", *configPath),
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tg, err := telegram.New(cfg.Telegram.Token, logger)
	if err != nil {
		logger.Fatal("telegram.New", zap.Error(err))
	}
	logger.Info("authorized", zap.String("account", tg.Username()))

	dispatcher := workflow.New(
		workflow.Settings{
			OperatorID:            cfg.Telegram.OperatorID,
			CatalogSelector:       cfg.Workflow.Catalog,
			NotifyBuyerOnApproval: cfg.Workflow.NotifyBuyerOnApproval,
		},
		workflow.Deps{
			Catalog:     catalog.New(cfg.Catalogs),
			Selections:  selection.New(),
			Gate:        gate.New(tg, cfg.Telegram.RequiredChannels, cfg.GateBypassIDs(), logger),
			Composer:    compose.New(cfg.Payment),
			Messenger:   tg,
			Attachments: tg,
			Receipts:    receipts.New(cfg.Workflow.ReceiptsDir),
			RenderQR:    qr.Render,
			Log:         logger,
		},
	)

	tg.Poll(ctx, dispatcher.HandleMessage, dispatcher.HandleControl)

	if ctx.Err() == nil {
		logger.Error("update stream closed unexpectedly")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
