package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/config"
	"github.com/clubkosh/clubkosh/internal/migration"
	"github.com/clubkosh/clubkosh/internal/observability"
	"github.com/clubkosh/clubkosh/internal/server"
	"github.com/clubkosh/clubkosh/pkg/db"
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
