package main

import (
	"context"
	"testing"

	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
	"github.com/stretchr/testify/require"
)

func TestWireAppMemoryStore(t *testing.T) {
	bundle := &loader.Bundle{
		Bootstrap: &loader.Bootstrap{
			Server: loader.Server{HTTP: loader.HTTP{Addr: "127.0.0.1:0"}},
			Data:   loader.Data{Driver: loader.DriverMemory},
		},
		Service: loader.ServiceMetadata{Name: "posts", Version: "test", Environment: "test", InstanceID: "local"},
	}

	app, cleanup, err := wireApp(context.Background(), bundle)
	require.NoError(t, err)
	require.NotNil(t, app)
	cleanup()
}

func TestWireAppRejectsUnknownDriver(t *testing.T) {
	bundle := &loader.Bundle{
		Bootstrap: &loader.Bootstrap{Data: loader.Data{Driver: "cassandra"}},
		Service:   loader.ServiceMetadata{Name: "posts"},
	}

	_, _, err := wireApp(context.Background(), bundle)
	require.Error(t, err)
}
