package loader

import "github.com/google/wire"

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServiceMetadata,
	ProvideBootstrap,
	ProvideServerConfig,
	ProvideDataConfig,
)

// ProvideServiceMetadata returns the resolved ServiceMetadata from the bundle.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideBootstrap exposes the strongly typed bootstrap configuration.
func ProvideBootstrap(b *Bundle) *Bootstrap {
	if b == nil {
		return nil
	}
	return b.Bootstrap
}

// ProvideServerConfig returns the server section of the bootstrap configuration.
func ProvideServerConfig(bc *Bootstrap) *Server {
	if bc == nil {
		return &Server{}
	}
	return &bc.Server
}

// ProvideDataConfig returns the data section of the bootstrap configuration.
func ProvideDataConfig(bc *Bootstrap) *Data {
	if bc == nil {
		return &Data{Driver: defaultDriver}
	}
	return &bc.Data
}
