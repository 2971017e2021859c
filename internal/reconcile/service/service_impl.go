package service

import (
	"context"
	"errors"
	"fmt"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/config"
	deathdomain "github.com/agropec/boletim/internal/death/domain"
	identitydomain "github.com/agropec/boletim/internal/identity/domain"
	inventorydomain "github.com/agropec/boletim/internal/inventory/domain"
	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	"github.com/agropec/boletim/internal/observability/metrics"
	"github.com/agropec/boletim/internal/reconcile/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errAlreadySynced marks the benign outcome of losing the marker race: some
// earlier or concurrent run already processed the document.
var errAlreadySynced = errors.New("already_synced")

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Source    invoicedomain.Source
	Identity  identitydomain.Service
	Animals   animaldomain.Repository
	Ledger    ledgerdomain.Service
	Inventory inventorydomain.Service
	Matching  *config.MatchingConfigHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	source    invoicedomain.Source
	identity  identitydomain.Service
	animals   animaldomain.Repository
	ledger    ledgerdomain.Service
	inventory inventorydomain.Service
	matching  *config.MatchingConfigHolder
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reconcile.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		source:    p.Source,
		identity:  p.Identity,
		animals:   p.Animals,
		ledger:    p.Ledger,
		inventory: p.Inventory,
		matching:  p.Matching,
		metrics:   p.Metrics,
	}
}

func newReport(flow string) *domain.Report {
	return &domain.Report{
		RunID:  uuid.NewString(),
		Flow:   flow,
		Errors: []domain.ItemError{},
	}
}

func (s *Service) countItem(report *domain.Report, outcome string) {
	if s.metrics != nil {
		s.metrics.SyncItems.WithLabelValues(report.Flow, outcome).Inc()
	}
}

func (s *Service) finishRun(report *domain.Report, result string) {
	if s.metrics != nil {
		s.metrics.SyncRuns.WithLabelValues(report.Flow, result).Inc()
	}
	s.log.Info("sync run finished",
		zap.String("flow", report.Flow),
		zap.String("run_id", report.RunID),
		zap.String("result", result),
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
}

// succeedItem / skipItem / failItem keep the report and metrics in step. A
// failed item is recorded and the batch moves on: forward progress despite
// partial bad data is the point of a reconciliation engine.
func (s *Service) succeedItem(report *domain.Report) {
	report.Succeeded++
	s.countItem(report, "succeeded")
}

func (s *Service) skipItem(report *domain.Report) {
	report.Skipped++
	s.countItem(report, "skipped")
}

func (s *Service) failItem(report *domain.Report, identifier string, err error) {
	report.Failed++
	report.Errors = append(report.Errors, domain.ItemError{
		Identifier: identifier,
		Reason:     err.Error(),
	})
	s.countItem(report, "failed")
	s.log.Warn("sync item failed",
		zap.String("flow", report.Flow),
		zap.String("identifier", identifier),
		zap.Error(err),
	)
}

// claimMarker inserts the document's sync marker inside the item transaction.
// Losing the unique-constraint race is reported as errAlreadySynced so the
// caller can roll back and count the item as skipped.
func (s *Service) claimMarker(ctx context.Context, tx *gorm.DB, source string, documentID snowflake.ID) error {
	inserted, err := s.repo.InsertMarker(ctx, tx, &domain.SyncMarker{
		ID:         s.genID.Generate(),
		Source:     source,
		DocumentID: documentID,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		return errAlreadySynced
	}
	return nil
}

func (s *Service) batchLimitReached(report *domain.Report) bool {
	limit := s.matching.Get().SyncBatchSize
	return limit > 0 && report.Processed >= limit
}

func (s *Service) SyncInvoicesToAnimals(ctx context.Context) (*domain.Report, error) {
	report := newReport("invoices_to_animals")

	invoices, err := s.source.FetchInvoices(ctx)
	if err != nil {
		s.finishRun(report, "source_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	for _, invoice := range invoices {
		for i := range invoice.Items {
			if err := ctx.Err(); err != nil {
				s.finishRun(report, "cancelled")
				return report, err
			}
			if s.batchLimitReached(report) {
				s.finishRun(report, "batch_limit")
				return report, nil
			}

			item := invoice.Items[i]
			switch item.ProductKind {
			case invoicedomain.KindLivestock:
				report.Processed++
				s.syncLivestockItem(ctx, invoice, item, report)
			case invoicedomain.KindSemen, invoicedomain.KindEmbryo:
				if invoice.Direction != invoicedomain.DirectionEntrada {
					continue
				}
				report.Processed++
				s.syncSemenItem(ctx, item, report)
			default:
				// Unknown product kinds are skipped, not errored.
			}
		}
	}

	s.finishRun(report, "ok")
	return report, nil
}

func (s *Service) syncLivestockItem(ctx context.Context, invoice *invoicedomain.Invoice, item invoicedomain.InvoiceItem, report *domain.Report) {
	identifier := item.TagIdentifier
	if identifier == "" {
		s.failItem(report, item.ID.String(), errors.New("livestock item without tag identifier"))
		return
	}

	// Resolution is a read and happens before the item transaction opens;
	// the marker's unique constraint covers the gap.
	animal, resolveErr := s.identity.Resolve(ctx, identifier)
	if resolveErr != nil && !errors.Is(resolveErr, identitydomain.ErrNotFound) {
		s.failItem(report, identifier, resolveErr)
		return
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.claimMarker(ctx, tx, domain.SourceInvoiceAnimal, item.ID); err != nil {
			return err
		}
		if animal != nil {
			return s.applyInvoiceToExisting(ctx, tx, invoice, item, animal)
		}
		if invoice.Direction != invoicedomain.DirectionEntrada {
			return fmt.Errorf("no animal found for outgoing invoice item %s", identifier)
		}
		return s.createAnimalFromItem(ctx, tx, invoice, item)
	})
	switch {
	case err == nil:
		s.succeedItem(report)
	case errors.Is(err, errAlreadySynced):
		s.skipItem(report)
	default:
		s.failItem(report, identifier, err)
	}
}

// createAnimalFromItem registers a livestock unit first seen on an incoming
// invoice, populated from the invoice fields.
func (s *Service) createAnimalFromItem(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice, item invoicedomain.InvoiceItem) error {
	series, regNo, err := s.identity.Split(item.TagIdentifier)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	issued := invoice.IssuedOn
	price := item.Total
	animal := &animaldomain.Animal{
		ID:            s.genID.Generate(),
		Series:        series,
		RegNo:         regNo,
		Breed:         item.Breed,
		Status:        animaldomain.StatusActive,
		TotalCost:     decimal.Zero,
		Supplier:      invoice.Supplier,
		PurchasePrice: &price,
		WeightKg:      item.WeightKg,
		AcquiredOn:    &issued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.animals.Insert(ctx, tx, animal)
}

func (s *Service) applyInvoiceToExisting(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice, item invoicedomain.InvoiceItem, animal *animaldomain.Animal) error {
	if invoice.Direction == invoicedomain.DirectionEntrada {
		price := item.Total
		animal.Supplier = invoice.Supplier
		animal.PurchasePrice = &price
		if item.WeightKg != nil {
			animal.WeightKg = item.WeightKg
		}
		if animal.Breed == "" {
			animal.Breed = item.Breed
		}
		animal.UpdatedAt = s.clock.Now()
		return s.animals.Update(ctx, tx, animal)
	}

	// Outgoing invoice: the animal leaves the herd as a sale.
	saleValue := item.Total
	animal.Status = animaldomain.StatusSold
	animal.SaleValue = &saleValue
	animal.UpdatedAt = s.clock.Now()
	if err := s.animals.Update(ctx, tx, animal); err != nil {
		return err
	}

	animalID := animal.ID
	_, err := s.ledger.RecordMovementTx(ctx, tx, ledgerdomain.RecordMovementRequest{
		PeriodLabel:  ledgerdomain.LabelFor(invoice.IssuedOn),
		Type:         ledgerdomain.TypeReceita,
		Subtype:      ledgerdomain.SubtypeVenda,
		AnimalID:     &animalID,
		Amount:       saleValue,
		MovementDate: invoice.IssuedOn,
		Description:  "venda nota fiscal " + invoice.Number,
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.Movements.WithLabelValues(string(ledgerdomain.TypeReceita)).Inc()
	}
	return nil
}

func (s *Service) syncSemenItem(ctx context.Context, item invoicedomain.InvoiceItem, report *domain.Report) {
	_, err := s.inventory.CreateLotFromItem(ctx, item)
	switch {
	case err == nil:
		s.succeedItem(report)
	case errors.Is(err, inventorydomain.ErrLotExists):
		s.skipItem(report)
	default:
		s.failItem(report, item.ID.String(), err)
	}
}

// SyncInvoicesToLedger records one entrada/compra movement per incoming
// invoice, totalling its livestock line items. Revenue movements for outgoing
// invoices are tied to the sold animal and originate in SyncInvoicesToAnimals.
func (s *Service) SyncInvoicesToLedger(ctx context.Context) (*domain.Report, error) {
	report := newReport("invoices_to_ledger")

	invoices, err := s.source.FetchInvoices(ctx)
	if err != nil {
		s.finishRun(report, "source_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	for _, invoice := range invoices {
		if err := ctx.Err(); err != nil {
			s.finishRun(report, "cancelled")
			return report, err
		}
		if s.batchLimitReached(report) {
			s.finishRun(report, "batch_limit")
			return report, nil
		}
		if invoice.Direction != invoicedomain.DirectionEntrada {
			continue
		}

		total := decimal.Zero
		for _, item := range invoice.Items {
			if item.ProductKind == invoicedomain.KindLivestock {
				total = total.Add(item.Total)
			}
		}
		if total.IsZero() {
			continue
		}

		report.Processed++
		s.recordPurchase(ctx, invoice, total, report)
	}

	s.finishRun(report, "ok")
	return report, nil
}

func (s *Service) recordPurchase(ctx context.Context, invoice *invoicedomain.Invoice, total decimal.Decimal, report *domain.Report) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.claimMarker(ctx, tx, domain.SourceInvoiceLedger, invoice.ID); err != nil {
			return err
		}
		_, err := s.ledger.RecordMovementTx(ctx, tx, ledgerdomain.RecordMovementRequest{
			PeriodLabel:  ledgerdomain.LabelFor(invoice.IssuedOn),
			Type:         ledgerdomain.TypeEntrada,
			Subtype:      ledgerdomain.SubtypeCompra,
			Amount:       total,
			MovementDate: invoice.IssuedOn,
			Description:  "compra nota fiscal " + invoice.Number,
		})
		return err
	})
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.Movements.WithLabelValues(string(ledgerdomain.TypeEntrada)).Inc()
		}
		s.succeedItem(report)
	case errors.Is(err, errAlreadySynced):
		s.skipItem(report)
	default:
		s.failItem(report, invoice.Number, err)
	}
}

// SyncDeathsToLedger records one saida/morte movement per unmarked death,
// valued at the registration-time override or, failing that, the animal's
// cached total cost.
func (s *Service) SyncDeathsToLedger(ctx context.Context) (*domain.Report, error) {
	report := newReport("deaths_to_ledger")

	deaths, err := s.repo.ListUnsyncedDeaths(ctx, s.db)
	if err != nil {
		s.finishRun(report, "source_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	for _, death := range deaths {
		if err := ctx.Err(); err != nil {
			s.finishRun(report, "cancelled")
			return report, err
		}
		if s.batchLimitReached(report) {
			s.finishRun(report, "batch_limit")
			return report, nil
		}

		report.Processed++
		s.syncDeath(ctx, death, report)
	}

	s.finishRun(report, "ok")
	return report, nil
}

func (s *Service) syncDeath(ctx context.Context, death *deathdomain.Death, report *domain.Report) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.claimMarker(ctx, tx, domain.SourceDeathLedger, death.ID); err != nil {
			return err
		}

		animal, err := s.animals.FindByID(ctx, tx, death.AnimalID)
		if err != nil {
			return err
		}
		if animal == nil {
			return fmt.Errorf("animal %s no longer exists", death.AnimalID)
		}

		amount := animal.TotalCost
		if death.LossValue != nil {
			amount = *death.LossValue
		}

		animalID := animal.ID
		_, err = s.ledger.RecordMovementTx(ctx, tx, ledgerdomain.RecordMovementRequest{
			PeriodLabel:  ledgerdomain.LabelFor(death.OccurredOn),
			Type:         ledgerdomain.TypeSaida,
			Subtype:      ledgerdomain.SubtypeMorte,
			AnimalID:     &animalID,
			Amount:       amount,
			MovementDate: death.OccurredOn,
			Description:  death.Cause,
		})
		return err
	})
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.Movements.WithLabelValues(string(ledgerdomain.TypeSaida)).Inc()
		}
		s.succeedItem(report)
	case errors.Is(err, errAlreadySynced):
		s.skipItem(report)
	default:
		s.failItem(report, death.AnimalID.String(), err)
	}
}
