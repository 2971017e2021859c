package domain

import (
	"context"

	deathdomain "github.com/agropec/boletim/internal/death/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertMarker claims the document for this flow. Returns false without
	// error when another run already holds the marker.
	InsertMarker(ctx context.Context, db *gorm.DB, marker *SyncMarker) (bool, error)
	// ListUnsyncedDeaths returns deaths with no death_ledger marker yet.
	ListUnsyncedDeaths(ctx context.Context, db *gorm.DB) ([]*deathdomain.Death, error)
}
