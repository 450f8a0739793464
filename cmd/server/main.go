// Package main boots the Kratos HTTP entrypoint for the posts service.
package main

import (
	"context"
	"flag"
	"os"

	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf configs/config.yaml")
}

func newApp(meta loader.ServiceMetadata, logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{"environment": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
	)
}

func main() {
	flag.Parse()

	// Load bootstrap configuration (.env, YAML, env overrides, validation).
	bundle, err := loader.Build(loader.Params{ConfPath: flagconf, Name: Name, Version: Version})
	if err != nil {
		panic(err)
	}

	// Assemble store, service, handlers and server via Wire.
	app, cleanup, err := wireApp(context.Background(), bundle)
	if err != nil {
		log.NewHelper(log.NewStdLogger(os.Stderr)).Errorf("bootstrap failed: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
