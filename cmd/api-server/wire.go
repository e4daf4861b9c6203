//go:build wireinject
// +build wireinject

package main

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/dao/cache"
	"Orbit/handler"
	"Orbit/pkg/client"
	"Orbit/pkg/database"
	"Orbit/pkg/server"
	"Orbit/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideLedgerConfig,
		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Point), "*"),
		wire.Struct(new(handler.Checkin), "*"),
		wire.Struct(new(handler.Product), "*"),
		wire.Struct(new(handler.Referral), "*"),
		wire.Struct(new(handler.Admin), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil, nil
}

func InitReconcile(cfg *config.Config) (service.IReconcileService, func(), error) {
	wire.Build(
		database.NewDB,
		config.ProvideLedgerConfig,
		dao.ProviderSet,
		wire.Struct(new(service.ReconcileService), "*"),
		wire.Bind(new(service.IReconcileService), new(*service.ReconcileService)),
	)
	return nil, nil, nil
}
