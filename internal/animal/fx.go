package animal

import (
	"github.com/agropec/boletim/internal/animal/repository"
	"github.com/agropec/boletim/internal/animal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("animal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
