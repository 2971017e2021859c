package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/ledger/domain"
	ledgerrepo "github.com/agropec/boletim/internal/ledger/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Period{}, &domain.Movement{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (domain.Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  ledgerrepo.Provide(),
	}), fake
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetOrCreatePeriod_Idempotent(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.GetOrCreatePeriod(ctx, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", first.Label)
	assert.Equal(t, "open", first.Status)
	assert.True(t, first.Balance.IsZero())

	second, err := svc.GetOrCreatePeriod(ctx, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Period{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreatePeriod_RejectsBadLabels(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	for _, label := range []string{"", "2024-13", "2024-0", "202403", "2024-3", "03-2024"} {
		_, err := svc.GetOrCreatePeriod(ctx, label)
		assert.ErrorIs(t, err, domain.ErrInvalidLabel, "label %q", label)
	}
}

func TestRecordMovement_SummaryStaysCurrent(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	movements := []struct {
		typ    domain.MovementType
		sub    string
		amount string
	}{
		{domain.TypeEntrada, domain.SubtypeCompra, "1000.00"},
		{domain.TypeCusto, "alimentacao", "200.00"},
		{domain.TypeReceita, domain.SubtypeVenda, "300.00"},
		{domain.TypeSaida, domain.SubtypeMorte, "100.00"},
	}
	for _, m := range movements {
		_, err := svc.RecordMovement(ctx, domain.RecordMovementRequest{
			PeriodLabel:  "2024-03",
			Type:         m.typ,
			Subtype:      m.sub,
			Amount:       mustDecimal(m.amount),
			MovementDate: date,
		})
		require.NoError(t, err)
	}

	got, err := svc.GetPeriod(ctx, "2024-03")
	require.NoError(t, err)
	require.Len(t, got.Movements, 4)

	period := got.Period
	assert.True(t, period.TotalEntrada.Equal(mustDecimal("1000.00")), "entrada %s", period.TotalEntrada)
	assert.True(t, period.TotalCusto.Equal(mustDecimal("200.00")), "custo %s", period.TotalCusto)
	assert.True(t, period.TotalReceita.Equal(mustDecimal("300.00")), "receita %s", period.TotalReceita)
	assert.True(t, period.TotalSaida.Equal(mustDecimal("100.00")), "saida %s", period.TotalSaida)
	// receita + entrada - saida - custo
	assert.True(t, period.Balance.Equal(mustDecimal("1000.00")), "balance %s", period.Balance)
	assert.NotNil(t, period.RecomputedAt)
}

func TestRecordMovement_Validation(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	valid := domain.RecordMovementRequest{
		PeriodLabel:  "2024-03",
		Type:         domain.TypeEntrada,
		Subtype:      domain.SubtypeCompra,
		Amount:       mustDecimal("10.00"),
		MovementDate: date,
	}

	bad := valid
	bad.PeriodLabel = "2024/03"
	_, err := svc.RecordMovement(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidLabel)

	bad = valid
	bad.Type = "transferencia"
	_, err = svc.RecordMovement(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	bad = valid
	bad.Subtype = "  "
	_, err = svc.RecordMovement(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidSubtype)

	bad = valid
	bad.MovementDate = time.Time{}
	_, err = svc.RecordMovement(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestRecordMovement_NegativeAmountAllowed(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	// Corrective movements carry negative amounts on purpose.
	_, err := svc.RecordMovement(ctx, domain.RecordMovementRequest{
		PeriodLabel:  "2024-03",
		Type:         domain.TypeCusto,
		Subtype:      "estorno",
		Amount:       mustDecimal("-50.00"),
		MovementDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := svc.GetPeriod(ctx, "2024-03")
	require.NoError(t, err)
	assert.True(t, got.Period.TotalCusto.Equal(mustDecimal("-50.00")))
	assert.True(t, got.Period.Balance.Equal(mustDecimal("50.00")))
}

func TestGetPeriod_NotFound(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)

	_, err := svc.GetPeriod(context.Background(), "1999-01")
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestUpdatePeriod(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.GetOrCreatePeriod(ctx, "2024-03")
	require.NoError(t, err)

	locality := "Fazenda Santa Rita"
	status := "closed"
	updated, err := svc.UpdatePeriod(ctx, "2024-03", domain.UpdatePeriodRequest{
		Locality: &locality,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fazenda Santa Rita", updated.Locality)
	assert.Equal(t, "closed", updated.Status)
}

func TestRemoveMovementsForAnimal(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	animalID := node.Generate()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.RecordMovement(ctx, domain.RecordMovementRequest{
		PeriodLabel:  "2024-03",
		Type:         domain.TypeSaida,
		Subtype:      domain.SubtypeMorte,
		AnimalID:     &animalID,
		Amount:       mustDecimal("1500.00"),
		MovementDate: date,
	})
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, domain.RecordMovementRequest{
		PeriodLabel:  "2024-03",
		Type:         domain.TypeEntrada,
		Subtype:      domain.SubtypeCompra,
		Amount:       mustDecimal("2000.00"),
		MovementDate: date,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMovementsForAnimal(ctx, animalID))

	got, err := svc.GetPeriod(ctx, "2024-03")
	require.NoError(t, err)
	require.Len(t, got.Movements, 1)
	assert.True(t, got.Period.TotalSaida.IsZero())
	assert.True(t, got.Period.Balance.Equal(mustDecimal("2000.00")))
}
