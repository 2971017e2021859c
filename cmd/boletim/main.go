package main

import (
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/logger"
	"github.com/agropec/boletim/internal/migration"
	"github.com/agropec/boletim/internal/observability/metrics"
	"github.com/agropec/boletim/internal/scheduler"
	"github.com/agropec/boletim/internal/server"
	"github.com/agropec/boletim/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		metrics.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
