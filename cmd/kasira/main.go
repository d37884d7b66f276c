package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/config"
	"github.com/smallbiznis/kasira/internal/events"
	"github.com/smallbiznis/kasira/internal/invoice"
	"github.com/smallbiznis/kasira/internal/logger"
	"github.com/smallbiznis/kasira/internal/migration"
	"github.com/smallbiznis/kasira/internal/observability"
	"github.com/smallbiznis/kasira/internal/payment"
	"github.com/smallbiznis/kasira/internal/report"
	"github.com/smallbiznis/kasira/internal/returns"
	"github.com/smallbiznis/kasira/internal/seed"
	"github.com/smallbiznis/kasira/internal/server"
	"github.com/smallbiznis/kasira/internal/supplier"
	"github.com/smallbiznis/kasira/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		events.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultShop {
				return seed.EnsureDefaultShop(conn)
			}
			return nil
		}),
		invoice.Module,
		payment.Module,
		supplier.Module,
		returns.Module,
		report.Module,
		server.Module,
	)
	app.Run()
}
