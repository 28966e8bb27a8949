package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/clock"
	"github.com/smallbiznis/gestios/internal/config"
	"github.com/smallbiznis/gestios/internal/migration"
	"github.com/smallbiznis/gestios/internal/observability"
	"github.com/smallbiznis/gestios/internal/server"
	"github.com/smallbiznis/gestios/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
