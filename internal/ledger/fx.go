package ledger

import (
	"github.com/agropec/boletim/internal/ledger/repository"
	"github.com/agropec/boletim/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
