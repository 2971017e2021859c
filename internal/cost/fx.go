package cost

import (
	"github.com/agropec/boletim/internal/cost/repository"
	"github.com/agropec/boletim/internal/cost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cost.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
