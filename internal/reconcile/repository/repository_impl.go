package repository

import (
	"context"

	deathdomain "github.com/agropec/boletim/internal/death/domain"
	"github.com/agropec/boletim/internal/reconcile/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertMarker(ctx context.Context, db *gorm.DB, marker *domain.SyncMarker) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO sync_markers (id, source, document_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (source, document_id) DO NOTHING`,
		marker.ID,
		marker.Source,
		marker.DocumentID,
		marker.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListUnsyncedDeaths(ctx context.Context, db *gorm.DB) ([]*deathdomain.Death, error) {
	var deaths []*deathdomain.Death
	err := db.WithContext(ctx).Raw(
		`SELECT d.*
		 FROM deaths d
		 WHERE NOT EXISTS (
			SELECT 1 FROM sync_markers m
			WHERE m.source = ? AND m.document_id = d.id
		 )
		 ORDER BY d.occurred_on asc, d.id asc`,
		domain.SourceDeathLedger,
	).Scan(&deaths).Error
	if err != nil {
		return nil, err
	}
	return deaths, nil
}
