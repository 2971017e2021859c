package identity

import (
	"github.com/agropec/boletim/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(service.New),
)
