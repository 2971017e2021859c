package invoice

import (
	"time"

	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/invoice/domain"
	"github.com/agropec/boletim/internal/invoice/repository"
	"github.com/agropec/boletim/internal/invoice/service"
	"github.com/agropec/boletim/internal/invoice/source"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideSource(cfg config.Config, db *gorm.DB, repo domain.Repository, log *zap.Logger) domain.Source {
	if cfg.InvoiceSourceURL != "" {
		return source.NewRemoteSource(
			cfg.InvoiceSourceURL,
			cfg.InvoiceSourceToken,
			time.Duration(cfg.InvoiceSourceTimeout)*time.Second,
			log,
		)
	}
	return source.NewDBSource(db, repo)
}

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(provideSource),
)
