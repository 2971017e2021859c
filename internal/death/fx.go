package death

import (
	"github.com/agropec/boletim/internal/death/service"
	"go.uber.org/fx"
)

var Module = fx.Module("death.service",
	fx.Provide(service.New),
)
