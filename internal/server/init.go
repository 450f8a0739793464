package server

import (
	"github.com/bionicotaku/lingo-services-posts/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(
	NewTelemetry,
	NewHTTPServer,
	wire.Bind(new(Pinger), new(repositories.PostBackend)),
)
