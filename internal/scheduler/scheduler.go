package scheduler

import (
	"context"
	"time"

	"github.com/agropec/boletim/internal/config"
	reconciledomain "github.com/agropec/boletim/internal/reconcile/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler triggers the three sync flows on a cron schedule so movements
// keep flowing into the ledger even when nobody presses the sync button.
type Scheduler struct {
	cron      *cron.Cron
	log       *zap.Logger
	reconcile reconciledomain.Service
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Reconcile reconciledomain.Service
}

func New(p Params) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		log:       p.Log.Named("scheduler"),
		reconcile: p.Reconcile,
	}
}

func (s *Scheduler) register(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runAll)
	return err
}

func (s *Scheduler) runAll() {
	// One bounded context for the whole sweep; a stalled upstream aborts the
	// run, and already-committed markers make the next run resume cleanly.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	flows := []struct {
		name string
		run  func(context.Context) (*reconciledomain.Report, error)
	}{
		{"invoices_to_animals", s.reconcile.SyncInvoicesToAnimals},
		{"invoices_to_ledger", s.reconcile.SyncInvoicesToLedger},
		{"deaths_to_ledger", s.reconcile.SyncDeathsToLedger},
	}
	for _, flow := range flows {
		report, err := flow.run(ctx)
		if err != nil {
			s.log.Error("scheduled sync failed", zap.String("flow", flow.name), zap.Error(err))
			continue
		}
		s.log.Info("scheduled sync finished",
			zap.String("flow", flow.name),
			zap.Int("processed", report.Processed),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
		)
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler, cfg config.Config, log *zap.Logger) error {
		if cfg.SyncSchedule == "" {
			log.Info("sync scheduler disabled")
			return nil
		}
		if err := s.register(cfg.SyncSchedule); err != nil {
			return err
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_ = ctx
				s.cron.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				stopped := s.cron.Stop()
				select {
				case <-stopped.Done():
				case <-ctx.Done():
				}
				return nil
			},
		})
		return nil
	}),
)
