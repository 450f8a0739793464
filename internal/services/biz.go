// Package services contains application use case orchestration.
package services

import (
	"github.com/bionicotaku/lingo-services-posts/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet is services providers.
var ProviderSet = wire.NewSet(
	NewPostService,
	wire.Bind(new(PostStore), new(repositories.PostBackend)),
)
