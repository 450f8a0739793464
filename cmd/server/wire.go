//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-posts/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
	loginfra "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-posts/internal/repositories"
	"github.com/bionicotaku/lingo-services-posts/internal/server"
	"github.com/bionicotaku/lingo-services-posts/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, *loader.Bundle) (*kratos.App, func(), error) {
	panic(wire.Build(loader.ProviderSet, loginfra.ProviderSet, repositories.ProviderSet, services.ProviderSet, controllers.ProviderSet, server.ProviderSet, newApp))
}
