package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	animalrepo "github.com/agropec/boletim/internal/animal/repository"
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/config"
	costdomain "github.com/agropec/boletim/internal/cost/domain"
	deathdomain "github.com/agropec/boletim/internal/death/domain"
	identityservice "github.com/agropec/boletim/internal/identity/service"
	inventorydomain "github.com/agropec/boletim/internal/inventory/domain"
	inventoryservice "github.com/agropec/boletim/internal/inventory/service"
	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	ledgerrepo "github.com/agropec/boletim/internal/ledger/repository"
	ledgerservice "github.com/agropec/boletim/internal/ledger/service"
	"github.com/agropec/boletim/internal/reconcile/domain"
	reconcilerepo "github.com/agropec/boletim/internal/reconcile/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSource struct {
	invoices []*invoicedomain.Invoice
	err      error
}

func (s *stubSource) FetchInvoices(ctx context.Context) ([]*invoicedomain.Invoice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.invoices, nil
}

type syncFixture struct {
	db      *gorm.DB
	svc     domain.Service
	source  *stubSource
	node    *snowflake.Node
	clock   *clock.FakeClock
	animals animaldomain.Repository
	ledger  ledgerdomain.Service
}

func newSyncFixture(t *testing.T, matching config.MatchingConfig) *syncFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&animaldomain.Animal{},
		&costdomain.Cost{},
		&deathdomain.Death{},
		&ledgerdomain.Period{},
		&ledgerdomain.Movement{},
		&inventorydomain.SemenLot{},
		&domain.SyncMarker{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	holder := config.NewStaticMatchingConfigHolder(matching)
	animals := animalrepo.Provide()

	ledgerSvc := ledgerservice.New(ledgerservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  ledgerrepo.Provide(),
	})
	identitySvc := identityservice.New(identityservice.Params{
		DB:       db,
		Log:      log,
		Animals:  animals,
		Matching: holder,
	})
	inventorySvc := inventoryservice.New(inventoryservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
	})

	source := &stubSource{}
	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Repo:      reconcilerepo.Provide(),
		Source:    source,
		Identity:  identitySvc,
		Animals:   animals,
		Ledger:    ledgerSvc,
		Inventory: inventorySvc,
		Matching:  holder,
	})
	return &syncFixture{
		db:      db,
		svc:     svc,
		source:  source,
		node:    node,
		clock:   fake,
		animals: animals,
		ledger:  ledgerSvc,
	}
}

func (f *syncFixture) seedAnimal(t *testing.T, series, regNo, totalCost string) *animaldomain.Animal {
	t.Helper()
	now := f.clock.Now()
	animal := &animaldomain.Animal{
		ID:        f.node.Generate(),
		Series:    series,
		RegNo:     regNo,
		Status:    animaldomain.StatusActive,
		TotalCost: decimal.RequireFromString(totalCost),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.animals.Insert(context.Background(), f.db, animal))
	return animal
}

func (f *syncFixture) seedDeath(t *testing.T, animalID snowflake.ID, occurredOn time.Time, lossValue *decimal.Decimal) *deathdomain.Death {
	t.Helper()
	death := &deathdomain.Death{
		ID:         f.node.Generate(),
		AnimalID:   animalID,
		Cause:      "pneumonia",
		LossValue:  lossValue,
		OccurredOn: occurredOn,
		CreatedAt:  f.clock.Now(),
	}
	require.NoError(t, f.db.Create(death).Error)
	return death
}

func (f *syncFixture) entradaInvoice(number string, issued time.Time, supplier string, items ...invoicedomain.InvoiceItem) *invoicedomain.Invoice {
	return f.invoice(number, invoicedomain.DirectionEntrada, issued, supplier, items...)
}

func (f *syncFixture) saidaInvoice(number string, issued time.Time, items ...invoicedomain.InvoiceItem) *invoicedomain.Invoice {
	return f.invoice(number, invoicedomain.DirectionSaida, issued, "", items...)
}

func (f *syncFixture) invoice(number string, direction invoicedomain.InvoiceDirection, issued time.Time, supplier string, items ...invoicedomain.InvoiceItem) *invoicedomain.Invoice {
	inv := &invoicedomain.Invoice{
		ID:        f.node.Generate(),
		Number:    number,
		Direction: direction,
		Supplier:  supplier,
		IssuedOn:  issued,
	}
	for i := range items {
		items[i].ID = f.node.Generate()
		items[i].InvoiceID = inv.ID
		inv.Total = inv.Total.Add(items[i].Total)
	}
	inv.Items = items
	return inv
}

func livestockItem(tag, total string) invoicedomain.InvoiceItem {
	return invoicedomain.InvoiceItem{
		ProductKind:   invoicedomain.KindLivestock,
		TagIdentifier: tag,
		Breed:         "nelore",
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.RequireFromString(total),
		Total:         decimal.RequireFromString(total),
	}
}

func (f *syncFixture) period(t *testing.T, label string) *ledgerdomain.PeriodWithMovements {
	t.Helper()
	got, err := f.ledger.GetPeriod(context.Background(), label)
	require.NoError(t, err)
	return got
}

func TestSyncDeathsToLedger_RecordsLossOnce(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	animal := f.seedAnimal(t, "CJCJ", "16942", "1500.00")
	f.seedDeath(t, animal.ID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), nil)

	report, err := f.svc.SyncDeathsToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	got := f.period(t, "2024-03")
	require.Len(t, got.Movements, 1)
	movement := got.Movements[0]
	assert.Equal(t, ledgerdomain.TypeSaida, movement.Type)
	assert.Equal(t, ledgerdomain.SubtypeMorte, movement.Subtype)
	assert.True(t, movement.Amount.Equal(decimal.RequireFromString("1500.00")), "amount %s", movement.Amount)
	assert.True(t, got.Period.TotalSaida.Equal(decimal.RequireFromString("1500.00")))

	// A second run finds nothing left to do.
	report, err = f.svc.SyncDeathsToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)

	got = f.period(t, "2024-03")
	assert.Len(t, got.Movements, 1)
}

func TestSyncDeathsToLedger_LossValueOverride(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	animal := f.seedAnimal(t, "CJCJ", "16942", "1500.00")
	loss := decimal.RequireFromString("900.00")
	f.seedDeath(t, animal.ID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), &loss)

	_, err := f.svc.SyncDeathsToLedger(ctx)
	require.NoError(t, err)

	got := f.period(t, "2024-03")
	require.Len(t, got.Movements, 1)
	assert.True(t, got.Movements[0].Amount.Equal(loss), "amount %s", got.Movements[0].Amount)
}

func TestSyncInvoicesToAnimals_CreatesThenUpdates(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	issued := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.entradaInvoice("NF-001", issued, "Fazenda Boa Vista", livestockItem("M-1815", "3200.00")),
	}

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	created, err := f.animals.FindByPair(ctx, f.db, "M", "1815")
	require.NoError(t, err)
	require.Len(t, created, 1)
	animal := created[0]
	assert.Equal(t, "Fazenda Boa Vista", animal.Supplier)
	require.NotNil(t, animal.PurchasePrice)
	assert.True(t, animal.PurchasePrice.Equal(decimal.RequireFromString("3200.00")))
	require.NotNil(t, animal.AcquiredOn)

	// A later invoice for the same tag updates the existing animal in place.
	f.source.invoices = append(f.source.invoices,
		f.entradaInvoice("NF-002", issued.AddDate(0, 1, 0), "Fazenda Santa Rita", livestockItem("M-1815", "3500.00")),
	)

	report, err = f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded, "only the new item does work")
	assert.Equal(t, 1, report.Skipped, "the already-synced item is skipped")

	updated, err := f.animals.FindByPair(ctx, f.db, "M", "1815")
	require.NoError(t, err)
	require.Len(t, updated, 1, "no duplicate animal")
	assert.Equal(t, animal.ID, updated[0].ID)
	assert.Equal(t, "Fazenda Santa Rita", updated[0].Supplier)
	assert.True(t, updated[0].PurchasePrice.Equal(decimal.RequireFromString("3500.00")))
}

func TestSyncInvoicesToAnimals_SaleMarksSoldAndRecordsRevenue(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	animal := f.seedAnimal(t, "CJCJ", "16942", "1500.00")
	issued := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.saidaInvoice("NF-100", issued, livestockItem("CJCJ-16942", "5000.00")),
	}

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	got, err := f.animals.FindByID(ctx, f.db, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusSold, got.Status)
	require.NotNil(t, got.SaleValue)
	assert.True(t, got.SaleValue.Equal(decimal.RequireFromString("5000.00")))

	period := f.period(t, "2024-04")
	require.Len(t, period.Movements, 1)
	assert.Equal(t, ledgerdomain.TypeReceita, period.Movements[0].Type)
	assert.Equal(t, ledgerdomain.SubtypeVenda, period.Movements[0].Subtype)
	assert.True(t, period.Period.TotalReceita.Equal(decimal.RequireFromString("5000.00")))
}

func TestSyncInvoicesToAnimals_PerItemIsolation(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	f.seedAnimal(t, "CJCJ", "16942", "1500.00")
	issued := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.saidaInvoice("NF-101", issued,
			livestockItem("ZZZZ-404", "1000.00"),
			livestockItem("CJCJ-16942", "5000.00"),
		),
	}

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "ZZZZ-404", report.Errors[0].Identifier)

	// The good item still went through.
	sold, err := f.animals.FindByPair(ctx, f.db, "CJCJ", "16942")
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, animaldomain.StatusSold, sold[0].Status)
}

func TestSyncInvoicesToAnimals_AmbiguousIdentifierFails(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	f.seedAnimal(t, "CJ", "16942", "100.00")
	f.seedAnimal(t, "CJB", "16942", "100.00")

	issued := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.saidaInvoice("NF-102", issued, livestockItem("16942", "5000.00")),
	}

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)

	// Neither candidate was touched.
	for _, series := range []string{"CJ", "CJB"} {
		animals, err := f.animals.FindByPair(ctx, f.db, series, "16942")
		require.NoError(t, err)
		require.Len(t, animals, 1)
		assert.Equal(t, animaldomain.StatusActive, animals[0].Status)
	}
}

func TestSyncInvoicesToAnimals_SemenLots(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	issued := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.entradaInvoice("NF-200", issued, "Central Genetica", invoicedomain.InvoiceItem{
			ProductKind:     invoicedomain.KindSemen,
			Description:     "Touro Rambo FIV",
			Quantity:        decimal.NewFromInt(30),
			UnitPrice:       decimal.RequireFromString("45.00"),
			Total:           decimal.RequireFromString("1350.00"),
			StorageLocation: "botijao 3",
			Certificate:     "CERT-8841",
			ExpiresOn:       &expires,
		}),
	}

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	var lots []*inventorydomain.SemenLot
	require.NoError(t, f.db.Find(&lots).Error)
	require.Len(t, lots, 1)
	assert.Equal(t, 30, lots[0].Doses)
	assert.Equal(t, "Touro Rambo FIV", lots[0].Bull)
	assert.Equal(t, "botijao 3", lots[0].StorageLocation)
	assert.Equal(t, "CERT-8841", lots[0].Certificate)
	require.NotNil(t, lots[0].ExpiresOn)
	assert.True(t, expires.Equal(*lots[0].ExpiresOn))

	report, err = f.svc.SyncInvoicesToAnimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)

	require.NoError(t, f.db.Find(&lots).Error)
	assert.Len(t, lots, 1)
}

func TestSyncInvoicesToLedger_OnePurchasePerInvoice(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	ctx := context.Background()

	issued := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.entradaInvoice("NF-300", issued, "Fazenda Boa Vista",
			livestockItem("M-1815", "1000.00"),
			livestockItem("M-1816", "2000.00"),
			invoicedomain.InvoiceItem{
				ProductKind: invoicedomain.KindSemen,
				Description: "doses",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.RequireFromString("50.00"),
				Total:       decimal.RequireFromString("500.00"),
			},
		),
		f.saidaInvoice("NF-301", issued, livestockItem("CJCJ-1", "9000.00")),
	}

	report, err := f.svc.SyncInvoicesToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed, "outgoing invoices are not purchases")
	assert.Equal(t, 1, report.Succeeded)

	period := f.period(t, "2024-02")
	require.Len(t, period.Movements, 1)
	movement := period.Movements[0]
	assert.Equal(t, ledgerdomain.TypeEntrada, movement.Type)
	assert.Equal(t, ledgerdomain.SubtypeCompra, movement.Subtype)
	// Livestock lines only; semen doses are inventory, not herd purchases.
	assert.True(t, movement.Amount.Equal(decimal.RequireFromString("3000.00")), "amount %s", movement.Amount)

	report, err = f.svc.SyncInvoicesToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)

	period = f.period(t, "2024-02")
	assert.Len(t, period.Movements, 1)
}

func TestSync_SourceUnavailable(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())
	f.source.err = fmt.Errorf("upstream timeout")

	_, err := f.svc.SyncInvoicesToAnimals(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = f.svc.SyncInvoicesToLedger(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSync_Cancellation(t *testing.T) {
	f := newSyncFixture(t, config.DefaultMatchingConfig())

	issued := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	f.source.invoices = []*invoicedomain.Invoice{
		f.entradaInvoice("NF-400", issued, "Fazenda Boa Vista", livestockItem("M-1815", "1000.00")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.svc.SyncInvoicesToAnimals(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Succeeded)
}

func TestSyncDeathsToLedger_BatchLimit(t *testing.T) {
	cfg := config.DefaultMatchingConfig()
	cfg.SyncBatchSize = 1
	f := newSyncFixture(t, cfg)
	ctx := context.Background()

	first := f.seedAnimal(t, "CJCJ", "1", "100.00")
	second := f.seedAnimal(t, "CJCJ", "2", "200.00")
	occurred := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	f.seedDeath(t, first.ID, occurred, nil)
	f.seedDeath(t, second.ID, occurred, nil)

	report, err := f.svc.SyncDeathsToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	// The next run picks up where the last one stopped.
	report, err = f.svc.SyncDeathsToLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	got := f.period(t, "2024-03")
	assert.Len(t, got.Movements, 2)
}
