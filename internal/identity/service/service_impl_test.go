package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	animalrepo "github.com/agropec/boletim/internal/animal/repository"
	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/identity/domain"
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
	require.NoError(t, db.AutoMigrate(&animaldomain.Animal{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, animaldomain.Repository, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := animalrepo.Provide()
	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Animals:  repo,
		Matching: config.NewStaticMatchingConfigHolder(config.DefaultMatchingConfig()),
	}).(*Service)
	return svc, repo, node
}

func seedAnimal(t *testing.T, db *gorm.DB, repo animaldomain.Repository, node *snowflake.Node, series, regNo string) *animaldomain.Animal {
	t.Helper()
	now := time.Now().UTC()
	animal := &animaldomain.Animal{
		ID:        node.Generate(),
		Series:    series,
		RegNo:     regNo,
		Status:    animaldomain.StatusActive,
		TotalCost: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Insert(context.Background(), db, animal))
	return animal
}

func TestResolve_IdentifierVariantsAgree(t *testing.T) {
	db := openTestDB(t)
	svc, repo, node := newTestService(t, db)
	ctx := context.Background()

	animal := seedAnimal(t, db, repo, node, "CJCJ", "16942")
	seedAnimal(t, db, repo, node, "CJCJ", "200")

	variants := []string{
		"CJCJ-16942",
		"CJCJ 16942",
		"CJCJ16942",
		"cjcj-16942",
		" CJCJ-16942 ",
		"16942",
	}
	for _, variant := range variants {
		got, err := svc.Resolve(ctx, variant)
		require.NoError(t, err, "identifier %q", variant)
		assert.Equal(t, animal.ID, got.ID, "identifier %q", variant)
	}
}

func TestResolve_NumericIDIsAuthoritative(t *testing.T) {
	db := openTestDB(t)
	svc, repo, node := newTestService(t, db)
	ctx := context.Background()

	animal := seedAnimal(t, db, repo, node, "CJCJ", "16942")

	got, err := svc.Resolve(ctx, fmt.Sprintf("%d", animal.ID.Int64()))
	require.NoError(t, err)
	assert.Equal(t, animal.ID, got.ID)
}

func TestResolve_LeadingZerosTolerated(t *testing.T) {
	db := openTestDB(t)
	svc, repo, node := newTestService(t, db)
	ctx := context.Background()

	animal := seedAnimal(t, db, repo, node, "CJCJ", "16942")

	got, err := svc.Resolve(ctx, "CJCJ-016942")
	require.NoError(t, err)
	assert.Equal(t, animal.ID, got.ID)
}

func TestResolve_BareRegNoSharedAcrossSeriesIsAmbiguous(t *testing.T) {
	db := openTestDB(t)
	svc, repo, node := newTestService(t, db)
	ctx := context.Background()

	seedAnimal(t, db, repo, node, "CJ", "16942")
	seedAnimal(t, db, repo, node, "CJB", "16942")

	_, err := svc.Resolve(ctx, "16942")
	assert.ErrorIs(t, err, domain.ErrAmbiguousIdentity)

	// The series-qualified form is still unambiguous.
	got, err := svc.Resolve(ctx, "CJB-16942")
	require.NoError(t, err)
	assert.Equal(t, "CJB", got.Series)
}

func TestResolve_NotFound(t *testing.T) {
	db := openTestDB(t)
	svc, repo, node := newTestService(t, db)
	ctx := context.Background()

	seedAnimal(t, db, repo, node, "CJCJ", "16942")

	_, err := svc.Resolve(ctx, "CJCJ-99999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_Malformed(t *testing.T) {
	db := openTestDB(t)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	for _, identifier := range []string{"", "   ", "ABC", "???"} {
		_, err := svc.Resolve(ctx, identifier)
		assert.ErrorIs(t, err, domain.ErrMalformedIdentifier, "identifier %q", identifier)
	}
}

func TestSplitToken(t *testing.T) {
	tests := []struct {
		raw    string
		series string
		regNo  string
		ok     bool
	}{
		{"CJCJ-16942", "CJCJ", "16942", true},
		{"CJCJ 16942", "CJCJ", "16942", true},
		{"CJCJ16942", "CJCJ", "16942", true},
		{"M-1815", "M", "1815", true},
		{"16942", "", "", false},
		{"ABC", "", "", false},
	}
	for _, tt := range tests {
		tok, ok := splitToken(tt.raw, 2, 5)
		assert.Equal(t, tt.ok, ok, "raw %q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.series, tok.Series, "raw %q", tt.raw)
			assert.Equal(t, tt.regNo, tok.RegNo, "raw %q", tt.raw)
		}
	}
}

func TestRegNoMatches(t *testing.T) {
	assert.True(t, regNoMatches("16942", "16942"))
	assert.True(t, regNoMatches("016942", "16942"))
	assert.True(t, regNoMatches("A16942", "16942"))
	assert.False(t, regNoMatches("16942", "200"))
	assert.False(t, regNoMatches("", "16942"))
}
