package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	animalrepo "github.com/agropec/boletim/internal/animal/repository"
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/death/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type deathFixture struct {
	db      *gorm.DB
	svc     domain.Service
	node    *snowflake.Node
	animals animaldomain.Repository
}

func newDeathFixture(t *testing.T) *deathFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&animaldomain.Animal{}, &domain.Death{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	animals := animalrepo.Provide()

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)),
		Animals: animals,
	})
	return &deathFixture{db: db, svc: svc, node: node, animals: animals}
}

func (f *deathFixture) seedAnimal(t *testing.T) *animaldomain.Animal {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	animal := &animaldomain.Animal{
		ID:        f.node.Generate(),
		Series:    "CJCJ",
		RegNo:     "16942",
		Status:    animaldomain.StatusActive,
		TotalCost: decimal.RequireFromString("1500.00"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.animals.Insert(context.Background(), f.db, animal))
	return animal
}

func TestRegister_TransitionsAnimalToDead(t *testing.T) {
	f := newDeathFixture(t)
	ctx := context.Background()
	animal := f.seedAnimal(t)

	occurred := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	death, err := f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID:   animal.ID,
		Cause:      "pneumonia",
		OccurredOn: occurred,
	})
	require.NoError(t, err)
	assert.Equal(t, animal.ID, death.AnimalID)
	assert.Equal(t, "pneumonia", death.Cause)

	got, err := f.animals.FindByID(ctx, f.db, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusDead, got.Status)
}

func TestRegister_SecondDeathRejected(t *testing.T) {
	f := newDeathFixture(t)
	ctx := context.Background()
	animal := f.seedAnimal(t)

	occurred := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID:   animal.ID,
		Cause:      "pneumonia",
		OccurredOn: occurred,
	})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID:   animal.ID,
		Cause:      "outro",
		OccurredOn: occurred,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestRegister_Validation(t *testing.T) {
	f := newDeathFixture(t)
	ctx := context.Background()
	animal := f.seedAnimal(t)

	_, err := f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID: animal.ID,
		Cause:    "pneumonia",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID:   f.node.Generate(),
		Cause:      "pneumonia",
		OccurredOn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, animaldomain.ErrNotFound)
}

func TestRegister_KeepsLossValueOverride(t *testing.T) {
	f := newDeathFixture(t)
	ctx := context.Background()
	animal := f.seedAnimal(t)

	loss := decimal.RequireFromString("900.00")
	death, err := f.svc.Register(ctx, domain.RegisterDeathRequest{
		AnimalID:   animal.ID,
		Cause:      "acidente",
		OccurredOn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		LossValue:  &loss,
	})
	require.NoError(t, err)
	require.NotNil(t, death.LossValue)
	assert.True(t, death.LossValue.Equal(loss))

	got, err := f.svc.Get(ctx, death.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LossValue)
	assert.True(t, got.LossValue.Equal(loss))
}
