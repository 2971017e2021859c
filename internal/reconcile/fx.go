package reconcile

import (
	"github.com/agropec/boletim/internal/reconcile/repository"
	"github.com/agropec/boletim/internal/reconcile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconcile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
