package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/llm"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/notebook"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/scheduler"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/storage"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/telegram"
	"github.com/nice7girl/bws-invest-agent/internal/infrastructure/youtube"
	"github.com/nice7girl/bws-invest-agent/internal/logging"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
	"github.com/nice7girl/bws-invest-agent/internal/usecase"
)

// Application wires configuration to adapters and use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.ReportStore
	pipeline *usecase.Pipeline
	producer *usecase.Producer
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	locator := youtube.NewPlaylistLocator(cfg.Playlists, nil, baseLogger.With("component", "locator"))
	extractor := youtube.NewTranscriptExtractor(cfg.Transcript, nil, baseLogger.With("component", "extractor"))
	summarizer := llm.NewClient(cfg.LLM)
	store := storage.NewReportStore(cfg.Storage.ReportsDir)

	var notebookClient ports.NotebookClient
	if cfg.Notebook.Enabled {
		notebookClient = notebook.NewClient(cfg.Notebook, baseLogger.With("component", "notebook"))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Locator:     locator,
		Extractor:   extractor,
		Summarizer:  summarizer,
		Store:       store,
		MaxAttempts: cfg.Pipeline.MaxAttempts,
		RetryDelay:  cfg.Pipeline.RetryDelay,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	producer := usecase.NewProducer(usecase.ProducerDeps{
		Store:          store,
		Notebook:       notebookClient,
		Writer:         summarizer,
		MorningOpening: cfg.LLM.MorningOpening,
		EveningOpening: cfg.LLM.EveningOpening,
		SettleDelay:    cfg.Notebook.SettleDelay,
		Logger:         baseLogger.With("component", "producer"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
		producer: producer,
	}
}

// RunBriefing executes the full chain for a slot: acquisition, delivery,
// and (optionally) script production. ErrNoUpdate propagates so the CLI can
// exit non-zero; producer failures are logged, not fatal, since the report
// has already been delivered.
func (a *Application) RunBriefing(ctx context.Context, slot domain.Slot, force, skipProducer bool) error {
	day := a.today()
	a.logger.Info("briefing run started", "slot", slot, "day", domain.DateToken(day))

	if err := a.pipeline.Run(ctx, slot, day, force); err != nil {
		return err
	}

	if err := a.RunDelivery(ctx); err != nil {
		return err
	}

	if skipProducer {
		a.logger.Info("producer skipped", "slot", slot)
	} else if err := a.producer.Produce(ctx, slot, day); err != nil {
		a.logger.Error("script production failed", "slot", slot, "error", err)
	}

	a.logger.Info("briefing run finished", "slot", slot)
	return nil
}

// RunDelivery scans the day's reports and sends the undelivered ones. The
// ledger is loaded fresh per invocation; the sender authenticates here, at
// first use.
func (a *Application) RunDelivery(ctx context.Context) error {
	ledger, err := storage.OpenLedger(a.cfg.Storage.LedgerPath)
	if err != nil {
		return err
	}

	sender, err := telegram.NewSender(a.cfg.Notifications.Telegram)
	if err != nil {
		return err
	}

	delivery := usecase.NewDelivery(usecase.DeliveryDeps{
		Store:      a.store,
		Ledger:     ledger,
		Sender:     sender,
		FooterLink: a.cfg.Notifications.Telegram.FooterLink,
		Logger:     a.logger.With("component", "delivery"),
	})

	return delivery.Scan(ctx, a.today())
}

// RunProduce generates the day's video script for a slot on demand.
func (a *Application) RunProduce(ctx context.Context, slot domain.Slot) error {
	return a.producer.Produce(ctx, slot, a.today())
}

// RunSchedule blocks, firing the full briefing chain at the configured
// slot times until the context is cancelled.
func (a *Application) RunSchedule(ctx context.Context, skipProducer bool) error {
	driver := scheduler.NewDailyScheduler(a.cfg.Scheduler, a.logger.With("component", "scheduler"))

	runner := usecase.NewScheduler(driver, func(ctx context.Context, slot domain.Slot) error {
		err := a.RunBriefing(ctx, slot, false, skipProducer)
		if errors.Is(err, usecase.ErrNoUpdate) {
			return nil
		}
		return err
	}, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return runner.Stop(context.WithoutCancel(ctx))
}

func (a *Application) today() time.Time {
	return time.Now().In(a.cfg.Scheduler.Location())
}
